package models

import "time"

// DeliveryFee 地区配送费表（地区名不做唯一约束，重复在读取时修正）
type DeliveryFee struct {
	ID        uint      `gorm:"primarykey" json:"id"`                             // 主键
	District  string    `gorm:"type:varchar(100);not null;index" json:"district"` // 地区名
	Fee       int64     `gorm:"not null;default:0" json:"fee"`                    // 配送费（韩元）
	CreatedAt time.Time `gorm:"index" json:"created_at"`                          // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                          // 更新时间
}

// TableName 指定表名
func (DeliveryFee) TableName() string {
	return "delivery_fees"
}
