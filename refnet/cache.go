package refnet

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/LaneAtlas/CycleMap/config"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// 进程级参考网络缓存：懒加载，构建后不可变
var (
	designationOnce sync.Once
	designationNet  *Network

	ownershipOnce sync.Once
	ownershipNet  *Network
)

const fallbackLat = 51.5074

// DesignationNetwork 标注参考网络（按需加载一次）
func DesignationNetwork() *Network {
	designationOnce.Do(func() {
		path := filepath.Join(config.HelpersDir, "CycleRoutes.json")
		features, lat0 := loadFeatures(path)
		designationNet = NewNetwork(features, lat0)
		log.Printf("标注参考网络加载完成: %d 条要素", designationNet.Len())
	})
	return designationNet
}

// OwnershipNetwork 权属参考网络（按需加载一次）
func OwnershipNetwork() *Network {
	ownershipOnce.Do(func() {
		var features []Feature
		lat0 := fallbackLat
		for i, name := range []string{"TLRN_wgs84.geojson", "special_tlrn.geojson"} {
			fs, lat := loadFeatures(filepath.Join(config.HelpersDir, name))
			if i == 0 && len(fs) > 0 {
				lat0 = lat
			}
			features = append(features, fs...)
		}
		ownershipNet = NewNetwork(features, lat0)
		log.Printf("权属参考网络加载完成: %d 条要素", ownershipNet.Len())
	})
	return ownershipNet
}

// SuggestDesignation 对外的标注推断入口，数据缺失时退化为无建议
func SuggestDesignation(coords orb.LineString) string {
	return DesignationNetwork().SuggestDesignation(coords)
}

// SuggestOwnership 对外的权属推断入口
func SuggestOwnership(coords orb.LineString) bool {
	return OwnershipNetwork().SuggestOwnership(coords)
}

// loadFeatures 读取GeoJSON参考要素，多部件几何拆为单部件
func loadFeatures(path string) ([]Feature, float64) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Printf("参考网络文件读取失败 %s: %v", path, err)
		return nil, fallbackLat
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		log.Printf("参考网络文件解析失败 %s: %v", path, err)
		return nil, fallbackLat
	}

	var features []Feature
	lat0 := fallbackLat
	latSet := false
	for _, feat := range fc.Features {
		if feat.Geometry == nil {
			continue
		}
		label, _ := feat.Properties["Label"].(string)
		programme, _ := feat.Properties["Programme"].(string)
		for _, g := range splitGeometry(feat.Geometry) {
			if !latSet {
				if lat, ok := sampleLat(g); ok {
					lat0 = lat
					latSet = true
				}
			}
			features = append(features, Feature{Geom: g, Label: label, Programme: programme})
		}
	}
	return features, lat0
}

func splitGeometry(g orb.Geometry) []orb.Geometry {
	switch geom := g.(type) {
	case orb.LineString:
		return []orb.Geometry{geom}
	case orb.MultiLineString:
		out := make([]orb.Geometry, 0, len(geom))
		for _, ls := range geom {
			out = append(out, ls)
		}
		return out
	case orb.Polygon:
		return []orb.Geometry{geom}
	case orb.MultiPolygon:
		out := make([]orb.Geometry, 0, len(geom))
		for _, p := range geom {
			out = append(out, p)
		}
		return out
	default:
		return nil
	}
}

func sampleLat(g orb.Geometry) (float64, bool) {
	switch geom := g.(type) {
	case orb.LineString:
		if len(geom) > 0 {
			return geom[0][1], true
		}
	case orb.Polygon:
		if len(geom) > 0 && len(geom[0]) > 0 {
			return geom[0][0][1], true
		}
	}
	return 0, false
}
