package models

import (
	"strings"

	"github.com/paulmach/orb"
)

// RouteRecord 一条线路要素的工作副本
// GUID 分配后不再变化；History/LastEdited/WhenCreated 属于溯源字段，不参与变更比较
type RouteRecord struct {
	GUID string `json:"guid"`

	Name        string `json:"name"`
	RouteID     string `json:"id"`
	Description string `json:"description"`

	Designation string `json:"Designation"`
	OneWay      string `json:"OneWay"`
	Flow        string `json:"Flow"`
	Protection  string `json:"Protection"`
	Ownership   string `json:"Ownership"`

	YearBuiltBefore bool   `json:"YearBuildBeforeFlag"`
	YearBuilt       string `json:"YearBuilt"`
	AuditedOnline   bool   `json:"AuditedStreetView"`
	AuditedInPerson bool   `json:"AuditedInPerson"`
	Rejected        bool   `json:"Rejected"`

	History     string `json:"History"`
	LastEdited  string `json:"LastEdited"`
	WhenCreated string `json:"WhenCreated"`

	// 经度在前，纬度在后（orb 约定）
	Coords orb.LineString `json:"-"`
}

// ChangeField 参与变更比较的单个属性字段
type ChangeField struct {
	Key   string
	Label string
	Get   func(*RouteRecord) string
}

func boolText(v bool) string {
	if v {
		return "true"
	}
	return ""
}

// ChangeFields 比较字段的固定顺序，用于字段级差异展示
// 变更判定本身与顺序无关
var ChangeFields = []ChangeField{
	{"name", "Name", func(r *RouteRecord) string { return r.Name }},
	{"description", "Comments", func(r *RouteRecord) string { return r.Description }},
	{"id", "Id", func(r *RouteRecord) string { return r.RouteID }},
	{"Designation", "Designation", func(r *RouteRecord) string { return r.Designation }},
	{"OneWay", "Direction", func(r *RouteRecord) string { return r.OneWay }},
	{"Flow", "Flow", func(r *RouteRecord) string { return r.Flow }},
	{"Protection", "Protection", func(r *RouteRecord) string { return r.Protection }},
	{"Ownership", "Ownership", func(r *RouteRecord) string { return r.Ownership }},
	{"YearBuildBeforeFlag", "Built", func(r *RouteRecord) string { return boolText(r.YearBuiltBefore) }},
	{"YearBuilt", "Year", func(r *RouteRecord) string { return r.YearBuilt }},
	{"AuditedStreetView", "Audited StreetView", func(r *RouteRecord) string { return boolText(r.AuditedOnline) }},
	{"AuditedInPerson", "Audited In Person", func(r *RouteRecord) string { return boolText(r.AuditedInPerson) }},
	{"Rejected", "Rejected", func(r *RouteRecord) string { return boolText(r.Rejected) }},
}

// CellEqual 空值自反的单元格比较：两侧都缺失视为相等
func CellEqual(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" && b == "" {
		return true
	}
	return a == b
}

// GeometryEqual 逐点比较几何
func GeometryEqual(a, b orb.LineString) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// FieldsEqual 比较全部可比字段（含几何），任一差异即返回false
func FieldsEqual(a, b *RouteRecord) bool {
	for _, f := range ChangeFields {
		if !CellEqual(f.Get(a), f.Get(b)) {
			return false
		}
	}
	return GeometryEqual(a.Coords, b.Coords)
}

// Clone 深拷贝一条记录
func (r *RouteRecord) Clone() *RouteRecord {
	out := *r
	out.Coords = make(orb.LineString, len(r.Coords))
	copy(out.Coords, r.Coords)
	return &out
}

// CopyAttributesFrom 用基线值覆盖全部属性字段（含几何与溯源字段），GUID保持不变
func (r *RouteRecord) CopyAttributesFrom(src *RouteRecord) {
	guid := r.GUID
	*r = *src.Clone()
	r.GUID = guid
}
