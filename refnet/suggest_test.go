package refnet

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

// 伦敦附近的小数据集，0.001度经度约70米
const testLat = 51.5

func lineFeature(label string, pts ...orb.Point) Feature {
	return Feature{Geom: orb.LineString(pts), Label: label}
}

func TestSuggestDesignation(t *testing.T) {
	t.Run("空网络返回空串", func(t *testing.T) {
		net := NewNetwork(nil, testLat)
		assert.Equal(t, "", net.SuggestDesignation(orb.LineString{{-0.1, 51.5}, {-0.11, 51.5}}))
	})

	t.Run("完全重合的线按重叠占比命中", func(t *testing.T) {
		route := orb.LineString{{-0.10, 51.5}, {-0.14, 51.5}} // 约2.8公里
		net := NewNetwork([]Feature{lineFeature("C27", route...)}, testLat)
		assert.Equal(t, "C27", net.SuggestDesignation(route))
	})

	t.Run("部分重合且占比足够", func(t *testing.T) {
		// 参考线覆盖线路一半，占比0.5 > 0.3
		cand := orb.LineString{{-0.10, 51.5}, {-0.12, 51.5}}
		route := orb.LineString{{-0.10, 51.5}, {-0.14, 51.5}}
		net := NewNetwork([]Feature{lineFeature("Q1", cand...)}, testLat)
		assert.Equal(t, "Q1", net.SuggestDesignation(route))
	})

	t.Run("远离的参考线不命中", func(t *testing.T) {
		// 纬度偏移0.01度约1.1公里，远超40米兜底距离
		cand := orb.LineString{{-0.10, 51.51}, {-0.14, 51.51}}
		route := orb.LineString{{-0.10, 51.5}, {-0.14, 51.5}}
		net := NewNetwork([]Feature{lineFeature("Q9", cand...)}, testLat)
		assert.Equal(t, "", net.SuggestDesignation(route))
	})

	t.Run("无重叠但近距离走兜底", func(t *testing.T) {
		// 平行线纬度偏移0.0002度约22米，在40米以内
		cand := orb.LineString{{-0.10, 51.5002}, {-0.14, 51.5002}}
		route := orb.LineString{{-0.10, 51.5}, {-0.14, 51.5}}
		net := NewNetwork([]Feature{lineFeature("CS3", cand...)}, testLat)
		assert.Equal(t, "CS3", net.SuggestDesignation(route))
	})

	t.Run("多候选取占比最高", func(t *testing.T) {
		route := orb.LineString{{-0.10, 51.5}, {-0.14, 51.5}}
		half := orb.LineString{{-0.10, 51.5}, {-0.12, 51.5}}
		full := orb.LineString{{-0.10, 51.5}, {-0.14, 51.5}}
		net := NewNetwork([]Feature{
			lineFeature("HALF", half...),
			lineFeature("FULL", full...),
		}, testLat)
		assert.Equal(t, "FULL", net.SuggestDesignation(route))
	})
}

func TestSuggestOwnership(t *testing.T) {
	t.Run("空网络返回false", func(t *testing.T) {
		net := NewNetwork(nil, testLat)
		assert.False(t, net.SuggestOwnership(orb.LineString{{-0.1, 51.5}, {-0.11, 51.5}}))
	})

	t.Run("贴近参考网络返回true", func(t *testing.T) {
		cand := orb.LineString{{-0.10, 51.5003}, {-0.14, 51.5003}} // 约33米
		route := orb.LineString{{-0.10, 51.5}, {-0.14, 51.5}}
		net := NewNetwork([]Feature{lineFeature("", cand...)}, testLat)
		assert.True(t, net.SuggestOwnership(route))
	})

	t.Run("超出距离阈值返回false", func(t *testing.T) {
		cand := orb.LineString{{-0.10, 51.501}, {-0.14, 51.501}} // 约110米
		route := orb.LineString{{-0.10, 51.5}, {-0.14, 51.5}}
		net := NewNetwork([]Feature{lineFeature("", cand...)}, testLat)
		assert.False(t, net.SuggestOwnership(route))
	})
}

func TestBBoxIndex(t *testing.T) {
	idx := NewBBoxIndex(500)
	a := idx.Insert(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{100, 100}})
	b := idx.Insert(orb.Bound{Min: orb.Point{5000, 5000}, Max: orb.Point{5100, 5100}})
	assert.Equal(t, 2, idx.Len())

	hits := idx.Search(orb.Bound{Min: orb.Point{50, 50}, Max: orb.Point{60, 60}})
	assert.Contains(t, hits, a)
	assert.NotContains(t, hits, b)

	// 查询窗口覆盖两者
	all := idx.Search(orb.Bound{Min: orb.Point{-100, -100}, Max: orb.Point{6000, 6000}})
	assert.Len(t, all, 2)
}
