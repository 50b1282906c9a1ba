package geo

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// StripSRID 去掉扩展WKT的SRID前缀
func StripSRID(value string) string {
	if strings.HasPrefix(value, "SRID=") {
		if idx := strings.Index(value, ";"); idx >= 0 {
			return value[idx+1:]
		}
	}
	return value
}

// ParseEWKTLine 解析EWKT线几何，MultiLineString会被展平为单线
func ParseEWKTLine(value string) (orb.LineString, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	geom, err := wkt.Unmarshal(StripSRID(value))
	if err != nil {
		return nil, fmt.Errorf("解析WKT失败: %v", err)
	}
	switch g := geom.(type) {
	case orb.LineString:
		return g, nil
	case orb.MultiLineString:
		var out orb.LineString
		for _, part := range g {
			out = append(out, part...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("不支持的几何类型: %T", geom)
	}
}

// ToEWKT 输出SRID=4326前缀的扩展WKT，无几何时返回空串
func ToEWKT(line orb.LineString) string {
	if len(line) == 0 {
		return ""
	}
	return "SRID=4326;" + wkt.MarshalString(line)
}

// CoordsToLatLon orb线串转为(lat, lon)对，用于对外交换
func CoordsToLatLon(line orb.LineString) [][2]float64 {
	out := make([][2]float64, 0, len(line))
	for _, p := range line {
		out = append(out, [2]float64{p[1], p[0]})
	}
	return out
}

// LatLonToCoords (lat, lon)对转为orb线串
func LatLonToCoords(pairs [][2]float64) orb.LineString {
	out := make(orb.LineString, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, orb.Point{p[1], p[0]})
	}
	return out
}
