package models

import "gorm.io/datatypes"

// RegionBackup 保存提交前的区域快照，用于人工恢复
type RegionBackup struct {
	ID       int64          `gorm:"primary_key;autoIncrement"`
	Region   string         `gorm:"type:varchar(255);index"`
	Username string         `gorm:"type:varchar(255)"`
	Date     string         `gorm:"type:varchar(255)"`
	Rows     datatypes.JSON `gorm:"type:jsonb"`
}

// RouteEditLog 记录每次线路变更
type RouteEditLog struct {
	ID       int64          `gorm:"primary_key;autoIncrement"`
	Region   string         `gorm:"type:varchar(255);index"`
	GUID     string         `gorm:"type:varchar(255);index"`
	Username string         `gorm:"type:varchar(255)"`
	Type     string         `gorm:"type:varchar(50)"` // create / edit / remove / undo
	Date     string         `gorm:"type:varchar(255)"`
	OldRow   datatypes.JSON `gorm:"type:jsonb"`
	NewRow   datatypes.JSON `gorm:"type:jsonb"`
}
