package model

import (
	"time"

	"gorm.io/datatypes"
)

// VTCollection 文档集合表：每个逻辑数据集恰好对应一行，整份文档存于jsonb列。
// 集合名即原文档库的collection名（hololive_data、hololive_ignored等）。
type VTCollection struct {
	Name      string         `gorm:"column:name;primaryKey;type:varchar(64);comment:集合名"`
	Doc       datatypes.JSON `gorm:"column:doc;type:jsonb;not null;comment:整份文档"`
	UpdatedAt time.Time      `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

// TableName 指定集合表名
func (VTCollection) TableName() string {
	return "vt_collections"
}
