package services

import (
	"testing"

	"github.com/LaneAtlas/CycleMap/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUndoCreate(t *testing.T) {
	baseline := Snapshot(NewFeatureStore(nil))
	store := NewFeatureStore(nil)
	store.Append(makeRecord("x", "New Route"))

	assert.True(t, UndoCreate(store, "x"))
	assert.False(t, store.Has("x"))

	// 幂等：再撤一次为空操作
	assert.False(t, UndoCreate(store, "x"))
	added, removed, changed := Summary(baseline, store)
	assert.Equal(t, [3]int{0, 0, 0}, [3]int{added, removed, changed})
}

func TestUndoRemoveRestoresOrdinal(t *testing.T) {
	a := makeRecord("a", "Route A")
	b := makeRecord("b", "Route B")
	c := makeRecord("c", "Route C")
	baseline := Snapshot(NewFeatureStore([]*models.RouteRecord{a, b, c}))
	store := NewFeatureStore([]*models.RouteRecord{a.Clone(), b.Clone(), c.Clone()})

	require.True(t, store.Remove("b"))
	require.True(t, UndoRemove(store, baseline, "b"))

	// 回到基线位置
	assert.Equal(t, 1, store.IndexOf("b"))
	added, removed, changed := Summary(baseline, store)
	assert.Equal(t, [3]int{0, 0, 0}, [3]int{added, removed, changed})

	// 未删除的记录撤销删除为空操作
	assert.False(t, UndoRemove(store, baseline, "a"))
}

func TestUndoRemoveClampsPosition(t *testing.T) {
	a := makeRecord("a", "Route A")
	b := makeRecord("b", "Route B")
	c := makeRecord("c", "Route C")
	baseline := Snapshot(NewFeatureStore([]*models.RouteRecord{a, b, c}))
	// 工作副本只剩一条，基线位置2超界，应钳到末尾
	store := NewFeatureStore([]*models.RouteRecord{a.Clone()})

	require.True(t, UndoRemove(store, baseline, "c"))
	assert.Equal(t, 1, store.IndexOf("c"))
}

func TestUndoEdit(t *testing.T) {
	a := makeRecord("a", "Route A")
	baseline := Snapshot(NewFeatureStore([]*models.RouteRecord{a}))
	store := NewFeatureStore([]*models.RouteRecord{a.Clone()})

	rec := store.Get("a")
	rec.Name = "Renamed"
	rec.Designation = "Cycleway"

	require.True(t, UndoEdit(store, baseline, "a"))
	assert.Equal(t, "Route A", store.Get("a").Name)
	assert.Equal(t, "", store.Get("a").Designation)

	statuses := Status(baseline, store)
	assert.Equal(t, StatusUnchanged, statuses["a"])

	// 基线没有的记录撤销编辑为空操作
	store.Append(makeRecord("z", "Z"))
	assert.False(t, UndoEdit(store, baseline, "z"))
}
