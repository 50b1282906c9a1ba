package services

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestContentHash(t *testing.T) {
	coords := orb.LineString{{-0.1, 51.5}, {-0.2, 51.6}}

	t.Run("同内容同哈希", func(t *testing.T) {
		assert.Equal(t, ContentHash("camden", coords), ContentHash("camden", coords))
	})

	t.Run("区域不同哈希不同", func(t *testing.T) {
		assert.NotEqual(t, ContentHash("camden", coords), ContentHash("hackney", coords))
	})

	t.Run("坐标微差哈希不同", func(t *testing.T) {
		moved := orb.LineString{{-0.1, 51.5}, {-0.2, 51.6000001}}
		assert.NotEqual(t, ContentHash("camden", coords), ContentHash("camden", moved))
	})
}

func TestCreationResolver(t *testing.T) {
	coords := orb.LineString{{-0.1, 51.5}, {-0.2, 51.6}}
	hash := ContentHash("camden", coords)

	t.Run("重复提交幂等返回首次guid", func(t *testing.T) {
		r := NewCreationResolver()
		_, ok := r.Resolved(hash)
		assert.False(t, ok)

		r.Track("tmp-1", "guid-1")
		r.Commit("tmp-1", hash, "guid-1")

		guid, ok := r.Resolved(hash)
		assert.True(t, ok)
		assert.Equal(t, "guid-1", guid)
	})

	t.Run("废弃后不留痕", func(t *testing.T) {
		r := NewCreationResolver()
		r.Track("tmp-2", "guid-2")
		r.Discard("tmp-2")
		_, ok := r.Resolved(hash)
		assert.False(t, ok)
	})

	t.Run("重置清空对账状态", func(t *testing.T) {
		r := NewCreationResolver()
		r.Track("tmp-3", "guid-3")
		r.Commit("tmp-3", hash, "guid-3")
		r.Reset()
		_, ok := r.Resolved(hash)
		assert.False(t, ok)
	})
}
