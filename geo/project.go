package geo

import (
	"math"

	"github.com/paulmach/orb"
)

const earthRadius = 6371000 // 地球半径（米）

// Projector 以给定纬度为中心的等距圆柱投影
// 短距离近似，只用于局部量算，不适合大范围
type Projector struct {
	cosLat0 float64
}

func NewProjector(lat0 float64) *Projector {
	return &Projector{cosLat0: math.Cos(lat0 * math.Pi / 180)}
}

func (p *Projector) Point(pt orb.Point) orb.Point {
	x := pt[0] * math.Pi / 180 * earthRadius * p.cosLat0
	y := pt[1] * math.Pi / 180 * earthRadius
	return orb.Point{x, y}
}

func (p *Projector) Line(ls orb.LineString) orb.LineString {
	out := make(orb.LineString, len(ls))
	for i, pt := range ls {
		out[i] = p.Point(pt)
	}
	return out
}

func (p *Projector) Ring(r orb.Ring) orb.Ring {
	out := make(orb.Ring, len(r))
	for i, pt := range r {
		out[i] = p.Point(pt)
	}
	return out
}

func (p *Projector) Polygon(poly orb.Polygon) orb.Polygon {
	out := make(orb.Polygon, len(poly))
	for i, r := range poly {
		out[i] = p.Ring(r)
	}
	return out
}

// haversineDistance 计算两点之间的距离（米）
func haversineDistance(p1, p2 orb.Point) float64 {
	lat1 := p1[1] * math.Pi / 180
	lat2 := p2[1] * math.Pi / 180
	deltaLat := (p2[1] - p1[1]) * math.Pi / 180
	deltaLon := (p2[0] - p1[0]) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// LineLengthM 计算线段长度（米，Haversine公式）
func LineLengthM(ls orb.LineString) float64 {
	length := 0.0
	for i := 0; i < len(ls)-1; i++ {
		length += haversineDistance(ls[i], ls[i+1])
	}
	return length
}

// PlanarLength 计算投影平面上的折线长度
func PlanarLength(ls orb.LineString) float64 {
	length := 0.0
	for i := 0; i < len(ls)-1; i++ {
		dx := ls[i+1][0] - ls[i][0]
		dy := ls[i+1][1] - ls[i][1]
		length += math.Sqrt(dx*dx + dy*dy)
	}
	return length
}
