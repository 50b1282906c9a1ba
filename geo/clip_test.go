package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 单位正方形边界，平面坐标直接当经纬度用即可验证逻辑
func unitSquare() orb.Polygon {
	return orb.Polygon{orb.Ring{
		{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0},
	}}
}

func TestClip(t *testing.T) {
	t.Run("无边界时原样返回", func(t *testing.T) {
		line := orb.LineString{{0, 0}, {2, 2}}
		out, clipped := Clip(line, nil)
		assert.False(t, clipped)
		assert.Equal(t, line, out)
	})

	t.Run("空线返回空", func(t *testing.T) {
		out, clipped := Clip(nil, unitSquare())
		assert.False(t, clipped)
		assert.Empty(t, out)
	})

	t.Run("完全在内部不裁剪", func(t *testing.T) {
		line := orb.LineString{{0.2, 0.2}, {0.8, 0.8}}
		out, clipped := Clip(line, unitSquare())
		assert.False(t, clipped)
		assert.Equal(t, line, out)
	})

	t.Run("完全在外部返回空且标记裁剪", func(t *testing.T) {
		line := orb.LineString{{2, 2}, {3, 3}}
		out, clipped := Clip(line, unitSquare())
		assert.True(t, clipped)
		assert.Empty(t, out)
	})

	t.Run("越界段截断到边界", func(t *testing.T) {
		line := orb.LineString{{0.5, 0.5}, {1.5, 0.5}}
		out, clipped := Clip(line, unitSquare())
		require.True(t, clipped)
		require.Len(t, out, 2)
		assert.InDelta(t, 0.5, out[0][0], 1e-9)
		assert.InDelta(t, 1.0, out[1][0], 1e-9)
		assert.InDelta(t, 0.5, out[1][1], 1e-9)
	})

	t.Run("穿越边界时保留最长段", func(t *testing.T) {
		// 先在内部走一长段，出界后再折回一小段
		line := orb.LineString{
			{0.1, 0.5}, {0.9, 0.5}, // 内部长段
			{1.5, 0.5},             // 出界
			{1.5, 0.6}, {1.05, 0.6}, // 外部折返
		}
		out, clipped := Clip(line, unitSquare())
		require.True(t, clipped)
		require.GreaterOrEqual(t, len(out), 2)
		// 最长的保留段应从0.1开始
		assert.InDelta(t, 0.1, out[0][0], 1e-9)
		assert.InDelta(t, 1.0, out[len(out)-1][0], 1e-9)
	})

	t.Run("相邻内部段合并", func(t *testing.T) {
		// 多个顶点都在内部，结果应是一条连续线
		line := orb.LineString{{0.1, 0.1}, {0.4, 0.4}, {0.6, 0.6}, {0.9, 0.9}}
		out, clipped := Clip(line, unitSquare())
		assert.False(t, clipped)
		assert.Equal(t, line, out)
	})
}
