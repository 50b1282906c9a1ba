package sheetstore

import (
	"fmt"
	"strings"

	"github.com/LaneAtlas/CycleMap/geo"
	"github.com/LaneAtlas/CycleMap/models"
	"github.com/google/uuid"
)

// 远端表格是弱类型的：单元格可能缺失、为空或类型不定
// 全部宽松取值在本文件入口处收敛为固定的RouteRecord，后续代码不再做零散判断

func cellString(row map[string]interface{}, keys ...string) (string, bool) {
	for _, key := range keys {
		v, ok := row[key]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			return strings.TrimSpace(val), true
		case float64:
			return strings.TrimSpace(fmt.Sprintf("%v", val)), true
		case bool:
			if val {
				return "true", true
			}
			return "false", true
		}
	}
	return "", false
}

// normalizeLinebreaks 统一换行：远端单元格里混有\r\n和HTML换行
func normalizeLinebreaks(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	for _, br := range []string{"<br />", "<br/>", "<br>"} {
		text = strings.ReplaceAll(text, br, "\n")
	}
	return text
}

// cellBool 宽松布尔解析，缺失与空串视为false
func cellBool(row map[string]interface{}, key string) bool {
	v, ok := row[key]
	if !ok || v == nil {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "t", "yes", "y", "1":
			return true
		}
	}
	return false
}

// DecodeRow 在摄入边界校验并归一化一行数据
// 缺失guid的行在此分配；几何字段非法视为校验失败
func DecodeRow(row map[string]interface{}) (*models.RouteRecord, error) {
	rec := &models.RouteRecord{}
	rec.GUID, _ = cellString(row, "guid")
	if rec.GUID == "" {
		rec.GUID = uuid.New().String()
	}
	rec.Name, _ = cellString(row, "name")
	rec.RouteID, _ = cellString(row, "id")
	desc, _ := cellString(row, "description")
	rec.Description = normalizeLinebreaks(desc)
	rec.Designation, _ = cellString(row, "Designation")
	rec.OneWay, _ = cellString(row, "OneWay")
	if rec.OneWay == "" {
		rec.OneWay = "TwoWay"
	}
	rec.Flow, _ = cellString(row, "Flow")
	rec.Protection, _ = cellString(row, "Protection")
	rec.Ownership, _ = cellString(row, "Ownership")
	rec.YearBuilt, _ = cellString(row, "YearBuilt")
	rec.YearBuiltBefore = cellBool(row, "YearBuildBeforeFlag")
	rec.AuditedOnline = cellBool(row, "AuditedStreetView")
	rec.AuditedInPerson = cellBool(row, "AuditedInPerson")
	rec.Rejected = cellBool(row, "Rejected")
	history, _ := cellString(row, "History")
	rec.History = normalizeLinebreaks(history)
	rec.LastEdited, _ = cellString(row, "LastEdited")
	rec.WhenCreated, _ = cellString(row, "WhenCreated")

	if text, ok := cellString(row, "text_coords", "geometry", "Geometry"); ok && text != "" {
		coords, err := geo.ParseEWKTLine(text)
		if err != nil {
			return nil, fmt.Errorf("行 %s 几何非法: %v", rec.GUID, err)
		}
		rec.Coords = coords
	}
	return rec, nil
}

// DecodeRows 批量归一化
func DecodeRows(rows []map[string]interface{}) ([]*models.RouteRecord, error) {
	out := make([]*models.RouteRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := DecodeRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// EncodeRow 序列化为远端行，几何写回EWKT
func EncodeRow(rec *models.RouteRecord) map[string]interface{} {
	return map[string]interface{}{
		"guid":                rec.GUID,
		"name":                rec.Name,
		"id":                  rec.RouteID,
		"description":         rec.Description,
		"Designation":         rec.Designation,
		"OneWay":              rec.OneWay,
		"Flow":                rec.Flow,
		"Protection":          rec.Protection,
		"Ownership":           rec.Ownership,
		"YearBuildBeforeFlag": rec.YearBuiltBefore,
		"YearBuilt":           rec.YearBuilt,
		"AuditedStreetView":   rec.AuditedOnline,
		"AuditedInPerson":     rec.AuditedInPerson,
		"Rejected":            rec.Rejected,
		"History":             rec.History,
		"LastEdited":          rec.LastEdited,
		"WhenCreated":         rec.WhenCreated,
		"text_coords":         geo.ToEWKT(rec.Coords),
	}
}

// EncodeRows 批量序列化
func EncodeRows(recs []*models.RouteRecord) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(recs))
	for _, rec := range recs {
		out = append(out, EncodeRow(rec))
	}
	return out
}
