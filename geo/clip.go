package geo

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const clipEps = 1e-12

// Clip 将线几何约束到边界多边形内
// 返回裁剪结果和是否发生了裁剪；结果为空表示线完全在边界外，调用方需按拒绝处理
func Clip(line orb.LineString, boundary orb.Geometry) (orb.LineString, bool) {
	if boundary == nil || len(line) < 2 {
		return line, false
	}
	polys := boundaryPolygons(boundary)
	if len(polys) == 0 {
		return line, false
	}

	// 沿每段线收集与边界的交点参数，按段切分后用中点判断在内/在外
	var parts []orb.LineString
	var current orb.LineString
	for i := 0; i < len(line)-1; i++ {
		a, b := line[i], line[i+1]
		ts := crossingParams(a, b, polys)
		for j := 0; j < len(ts)-1; j++ {
			t0, t1 := ts[j], ts[j+1]
			if t1-t0 < clipEps {
				continue
			}
			mid := pointAt(a, b, (t0+t1)/2)
			p0 := pointAt(a, b, t0)
			p1 := pointAt(a, b, t1)
			if containsAny(polys, mid) {
				if len(current) == 0 {
					current = append(current, p0)
				} else if !samePoint(current[len(current)-1], p0) {
					// 不连续，先落盘当前部分
					if len(current) >= 2 {
						parts = append(parts, current)
					}
					current = orb.LineString{p0}
				}
				if !samePoint(current[len(current)-1], p1) {
					current = append(current, p1)
				}
			} else {
				if len(current) >= 2 {
					parts = append(parts, current)
				}
				current = nil
			}
		}
	}
	if len(current) >= 2 {
		parts = append(parts, current)
	}

	// 先合并首尾相接的相邻部分，再取最长的连续部分
	merged := mergeTouching(parts)
	if len(merged) == 0 {
		return orb.LineString{}, true
	}
	best := merged[0]
	bestLen := LineLengthM(best)
	for _, part := range merged[1:] {
		l := LineLengthM(part)
		if l > bestLen {
			best = part
			bestLen = l
		}
	}

	if lineEqual(best, line) {
		return line, false
	}
	return best, true
}

func boundaryPolygons(g orb.Geometry) []orb.Polygon {
	switch b := g.(type) {
	case orb.Polygon:
		if len(b) == 0 {
			return nil
		}
		return []orb.Polygon{b}
	case orb.MultiPolygon:
		var out []orb.Polygon
		for _, p := range b {
			if len(p) > 0 {
				out = append(out, p)
			}
		}
		return out
	default:
		return nil
	}
}

func containsAny(polys []orb.Polygon, pt orb.Point) bool {
	for _, p := range polys {
		if planar.PolygonContains(p, pt) {
			return true
		}
	}
	return false
}

// crossingParams 返回线段a-b与所有边界环的交点参数，含0和1，升序去重
func crossingParams(a, b orb.Point, polys []orb.Polygon) []float64 {
	ts := []float64{0, 1}
	for _, poly := range polys {
		for _, ring := range poly {
			for k := 0; k < len(ring)-1; k++ {
				if t, ok := segmentParam(a, b, ring[k], ring[k+1]); ok {
					ts = append(ts, t)
				}
			}
		}
	}
	sort.Float64s(ts)
	out := ts[:1]
	for _, t := range ts[1:] {
		if t-out[len(out)-1] > clipEps {
			out = append(out, t)
		}
	}
	return out
}

// segmentParam 求线段a-b与线段u-v的交点在a-b上的参数t
func segmentParam(a, b, u, v orb.Point) (float64, bool) {
	rx, ry := b[0]-a[0], b[1]-a[1]
	sx, sy := v[0]-u[0], v[1]-u[1]
	den := rx*sy - ry*sx
	if math.Abs(den) < clipEps {
		// 平行或共线：共线段由中点包含性判断处理
		return 0, false
	}
	qx, qy := u[0]-a[0], u[1]-a[1]
	t := (qx*sy - qy*sx) / den
	s := (qx*ry - qy*rx) / den
	if t < -clipEps || t > 1+clipEps || s < -clipEps || s > 1+clipEps {
		return 0, false
	}
	return math.Max(0, math.Min(1, t)), true
}

func pointAt(a, b orb.Point, t float64) orb.Point {
	return orb.Point{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t}
}

func samePoint(a, b orb.Point) bool {
	return math.Abs(a[0]-b[0]) < clipEps && math.Abs(a[1]-b[1]) < clipEps
}

func lineEqual(a, b orb.LineString) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mergeTouching(parts []orb.LineString) []orb.LineString {
	var merged []orb.LineString
	for _, part := range parts {
		if n := len(merged); n > 0 && samePoint(merged[n-1][len(merged[n-1])-1], part[0]) {
			merged[n-1] = append(merged[n-1], part[1:]...)
			continue
		}
		merged = append(merged, part)
	}
	return merged
}
