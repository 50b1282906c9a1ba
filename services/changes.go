package services

import (
	"github.com/LaneAtlas/CycleMap/models"
)

// ChangeStatus 派生的逐记录变更状态，每次重算、不落盘
type ChangeStatus string

const (
	StatusUnchanged ChangeStatus = "unchanged"
	StatusCreated   ChangeStatus = "created"
	StatusEdited    ChangeStatus = "edited"
	StatusRemoved   ChangeStatus = "removed"
)

// Status 对比基线与工作副本，得到逐guid的变更状态
// 共有记录逐字段比较，首个差异即记为edited，不再比较后续字段
func Status(baseline *BaselineSnapshot, current *FeatureStore) map[string]ChangeStatus {
	out := make(map[string]ChangeStatus)
	for _, rec := range current.Records() {
		base := baseline.Get(rec.GUID)
		if base == nil {
			out[rec.GUID] = StatusCreated
			continue
		}
		if models.FieldsEqual(base, rec) {
			out[rec.GUID] = StatusUnchanged
		} else {
			out[rec.GUID] = StatusEdited
		}
	}
	for _, rec := range baseline.Records() {
		if !current.Has(rec.GUID) {
			out[rec.GUID] = StatusRemoved
		}
	}
	return out
}

// Summary 返回(新增, 删除, 修改)数量
func Summary(baseline *BaselineSnapshot, current *FeatureStore) (added, removed, changed int) {
	for _, status := range Status(baseline, current) {
		switch status {
		case StatusCreated:
			added++
		case StatusRemoved:
			removed++
		case StatusEdited:
			changed++
		}
	}
	return added, removed, changed
}

// FieldDiff 单个字段的前后对照，用于变更清单展示
type FieldDiff struct {
	Label   string `json:"label"`
	Before  string `json:"before"`
	After   string `json:"after"`
	Changed bool   `json:"changed"`
}

// DiffFields 按固定字段顺序列出前后差异
func DiffFields(before, after *models.RouteRecord) []FieldDiff {
	diffs := make([]FieldDiff, 0, len(models.ChangeFields)+1)
	for _, f := range models.ChangeFields {
		b, a := "", ""
		if before != nil {
			b = f.Get(before)
		}
		if after != nil {
			a = f.Get(after)
		}
		diffs = append(diffs, FieldDiff{
			Label:   f.Label,
			Before:  b,
			After:   a,
			Changed: !models.CellEqual(b, a),
		})
	}
	geomChanged := false
	if before != nil && after != nil {
		geomChanged = !models.GeometryEqual(before.Coords, after.Coords)
	} else if before != nil || after != nil {
		geomChanged = true
	}
	if geomChanged {
		diffs = append(diffs, FieldDiff{Label: "Route", Changed: true})
	}
	return diffs
}
