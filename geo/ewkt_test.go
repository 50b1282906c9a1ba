package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEWKTLine(t *testing.T) {
	t.Run("带SRID前缀", func(t *testing.T) {
		line, err := ParseEWKTLine("SRID=4326;LINESTRING(-0.1 51.5, -0.2 51.6)")
		require.NoError(t, err)
		require.Len(t, line, 2)
		assert.InDelta(t, -0.1, line[0][0], 1e-9)
		assert.InDelta(t, 51.5, line[0][1], 1e-9)
	})

	t.Run("不带SRID前缀", func(t *testing.T) {
		line, err := ParseEWKTLine("LINESTRING(0 0, 1 1)")
		require.NoError(t, err)
		assert.Len(t, line, 2)
	})

	t.Run("空串返回空线", func(t *testing.T) {
		line, err := ParseEWKTLine("")
		require.NoError(t, err)
		assert.Nil(t, line)
	})

	t.Run("非法文本报错", func(t *testing.T) {
		_, err := ParseEWKTLine("POINT(1)")
		assert.Error(t, err)
	})
}

func TestToEWKT(t *testing.T) {
	t.Run("往返一致", func(t *testing.T) {
		line := orb.LineString{{-0.1, 51.5}, {-0.2, 51.6}}
		text := ToEWKT(line)
		assert.Contains(t, text, "SRID=4326;")
		parsed, err := ParseEWKTLine(text)
		require.NoError(t, err)
		assert.Equal(t, line, parsed)
	})

	t.Run("空线输出空串", func(t *testing.T) {
		assert.Equal(t, "", ToEWKT(nil))
	})
}

func TestLatLonConversion(t *testing.T) {
	pairs := [][2]float64{{51.5, -0.1}, {51.6, -0.2}}
	line := LatLonToCoords(pairs)
	require.Len(t, line, 2)
	// 内部为(经度,纬度)
	assert.InDelta(t, -0.1, line[0][0], 1e-9)
	assert.InDelta(t, 51.5, line[0][1], 1e-9)
	assert.Equal(t, pairs, CoordsToLatLon(line))
}

func TestLineLengthM(t *testing.T) {
	// 赤道上1度经度约111公里
	line := orb.LineString{{0, 0}, {1, 0}}
	length := LineLengthM(line)
	assert.InDelta(t, 111195, length, 300)
}
