package refnet

import (
	"math"

	"github.com/LaneAtlas/CycleMap/geo"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// 匹配参数，沿用人工调校过的默认值
const (
	DesignationBufferM  = 25.0
	DesignationMinRatio = 0.3
	DesignationOverlapM = 150.0
	DesignationMaxDistM = 40.0

	OwnershipBufferM  = 60.0
	OwnershipMaxDistM = 50.0

	overlapTol = 1e-6
)

// Feature 参考网络中的一条不可变要素
type Feature struct {
	Geom      orb.Geometry // 已投影的平面几何
	Label     string
	Programme string
}

// Network 已投影并建好索引的参考网络
type Network struct {
	features  []Feature
	index     *BBoxIndex
	projector *geo.Projector
}

// NewNetwork 投影原始要素并建立包围盒索引
// lat0 为数据集代表纬度，所有量算都在该纬度的等距圆柱平面上进行
func NewNetwork(features []Feature, lat0 float64) *Network {
	net := &Network{
		projector: geo.NewProjector(lat0),
		index:     NewBBoxIndex(500),
	}
	for _, f := range features {
		var projected orb.Geometry
		switch g := f.Geom.(type) {
		case orb.LineString:
			if len(g) < 2 {
				continue
			}
			projected = net.projector.Line(g)
		case orb.Polygon:
			if len(g) == 0 {
				continue
			}
			projected = net.projector.Polygon(g)
		default:
			continue
		}
		net.features = append(net.features, Feature{Geom: projected, Label: f.Label, Programme: f.Programme})
		net.index.Insert(projected.Bound())
	}
	return net
}

func (n *Network) Len() int {
	if n == nil {
		return 0
	}
	return len(n.features)
}

// SuggestDesignation 缓冲重叠优先、近距离兜底的标注推断
// 无可用数据时返回空串，从不报错
func (n *Network) SuggestDesignation(coords orb.LineString) string {
	if n == nil || len(n.features) == 0 || len(coords) < 2 {
		return ""
	}
	route := n.projector.Line(coords)
	routeLen := geo.PlanarLength(route)
	if routeLen == 0 {
		return ""
	}

	query := padBound(route.Bound(), DesignationBufferM)
	bestLabel := ""
	bestRatio := 0.0
	fallbackLabel := ""
	fallbackDist := math.MaxFloat64
	for _, id := range n.index.Search(query) {
		f := n.features[id]
		cand, ok := f.Geom.(orb.LineString)
		if !ok || f.Label == "" {
			continue
		}
		overlap := overlapLength(route, cand)
		ratio := overlap / routeLen
		if overlap >= DesignationOverlapM || ratio >= DesignationMinRatio {
			if ratio > bestRatio || bestLabel == "" {
				bestRatio = ratio
				bestLabel = f.Label
			}
			continue
		}
		if d := lineToLineDistance(route, cand); d <= DesignationMaxDistM && d < fallbackDist {
			fallbackDist = d
			fallbackLabel = f.Label
		}
	}
	if bestLabel != "" {
		return bestLabel
	}
	return fallbackLabel
}

// SuggestOwnership 仅按近距离判断线路是否贴近参考网络
func (n *Network) SuggestOwnership(coords orb.LineString) bool {
	if n == nil || len(n.features) == 0 || len(coords) == 0 {
		return false
	}
	route := n.projector.Line(coords)
	query := padBound(route.Bound(), OwnershipBufferM)
	for _, id := range n.index.Search(query) {
		if geomDistance(route, n.features[id].Geom) <= OwnershipMaxDistM {
			return true
		}
	}
	return false
}

func padBound(b orb.Bound, pad float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.Min[0] - pad, b.Min[1] - pad},
		Max: orb.Point{b.Max[0] + pad, b.Max[1] + pad},
	}
}

// overlapLength 两条折线共线重叠的精确长度
func overlapLength(route, cand orb.LineString) float64 {
	total := 0.0
	for i := 0; i < len(route)-1; i++ {
		for j := 0; j < len(cand)-1; j++ {
			total += segmentOverlap(route[i], route[i+1], cand[j], cand[j+1])
		}
	}
	return total
}

// segmentOverlap 两线段共线部分的长度，不共线为0
func segmentOverlap(a, b, u, v orb.Point) float64 {
	rx, ry := b[0]-a[0], b[1]-a[1]
	sx, sy := v[0]-u[0], v[1]-u[1]
	rLen := math.Hypot(rx, ry)
	if rLen == 0 {
		return 0
	}
	// 方向需平行且两线间垂距接近零
	if math.Abs(rx*sy-ry*sx) > overlapTol*rLen*math.Hypot(sx, sy) {
		return 0
	}
	if math.Abs((u[0]-a[0])*ry-(u[1]-a[1])*rx)/rLen > overlapTol {
		return 0
	}
	t0 := ((u[0]-a[0])*rx + (u[1]-a[1])*ry) / (rLen * rLen)
	t1 := ((v[0]-a[0])*rx + (v[1]-a[1])*ry) / (rLen * rLen)
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	lo := math.Max(0, t0)
	hi := math.Min(1, t1)
	if hi <= lo {
		return 0
	}
	return (hi - lo) * rLen
}

func pointSegDistance(p, a, b orb.Point) float64 {
	dx, dy := b[0]-a[0], b[1]-a[1]
	if dx == 0 && dy == 0 {
		return math.Hypot(p[0]-a[0], p[1]-a[1])
	}
	t := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p[0]-(a[0]+t*dx), p[1]-(a[1]+t*dy))
}

func segSegDistance(a, b, u, v orb.Point) float64 {
	// 相交即为零距离
	rx, ry := b[0]-a[0], b[1]-a[1]
	sx, sy := v[0]-u[0], v[1]-u[1]
	den := rx*sy - ry*sx
	if math.Abs(den) > 0 {
		t := ((u[0]-a[0])*sy - (u[1]-a[1])*sx) / den
		s := ((u[0]-a[0])*ry - (u[1]-a[1])*rx) / den
		if t >= 0 && t <= 1 && s >= 0 && s <= 1 {
			return 0
		}
	}
	d := pointSegDistance(a, u, v)
	d = math.Min(d, pointSegDistance(b, u, v))
	d = math.Min(d, pointSegDistance(u, a, b))
	return math.Min(d, pointSegDistance(v, a, b))
}

func lineToLineDistance(route, cand orb.LineString) float64 {
	best := math.MaxFloat64
	for i := 0; i < len(route)-1; i++ {
		for j := 0; j < len(cand)-1; j++ {
			if d := segSegDistance(route[i], route[i+1], cand[j], cand[j+1]); d < best {
				best = d
			}
		}
	}
	if len(route) == 1 && len(cand) > 1 {
		for j := 0; j < len(cand)-1; j++ {
			if d := pointSegDistance(route[0], cand[j], cand[j+1]); d < best {
				best = d
			}
		}
	}
	return best
}

func geomDistance(route orb.LineString, g orb.Geometry) float64 {
	switch cand := g.(type) {
	case orb.LineString:
		return lineToLineDistance(route, cand)
	case orb.Polygon:
		for _, p := range route {
			if planar.PolygonContains(cand, p) {
				return 0
			}
		}
		best := math.MaxFloat64
		for _, ring := range cand {
			if d := lineToLineDistance(route, orb.LineString(ring)); d < best {
				best = d
			}
		}
		return best
	default:
		return math.MaxFloat64
	}
}
