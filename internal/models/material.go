package models

import (
	"time"

	"gorm.io/gorm"
)

// Material 花材/资材表
type Material struct {
	ID           uint           `gorm:"primarykey" json:"id"`                         // 主键
	Name         string         `gorm:"type:varchar(200);not null;index" json:"name"` // 名称
	MainCategory string         `gorm:"type:varchar(100);index" json:"main_category"` // 大类
	MidCategory  string         `gorm:"type:varchar(100)" json:"mid_category"`        // 中类
	Price        int64          `gorm:"not null;default:0" json:"price"`              // 单价
	Supplier     string         `gorm:"type:varchar(200)" json:"supplier"`            // 供应商
	Size         string         `gorm:"type:varchar(100)" json:"size"`                // 规格
	Color        string         `gorm:"type:varchar(100)" json:"color"`               // 颜色
	Branch       string         `gorm:"type:varchar(100);index" json:"branch"`        // 门店
	Stock        int            `gorm:"not null;default:0" json:"stock"`              // 库存
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                      // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                      // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                               // 软删除时间
}

// TableName 指定表名
func (Material) TableName() string {
	return "materials"
}
