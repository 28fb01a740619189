package models

import (
	"time"

	"gorm.io/gorm"
)

// Partner 合作商/供应商表
type Partner struct {
	ID             uint           `gorm:"primarykey" json:"id"`                         // 主键
	Name           string         `gorm:"type:varchar(200);not null;index" json:"name"` // 商号
	Type           string         `gorm:"type:varchar(50)" json:"type"`                 // 类型
	Contact        string         `gorm:"type:varchar(50)" json:"contact"`              // 联系电话
	ContactPerson  string         `gorm:"type:varchar(100)" json:"contact_person"`      // 联系人
	Email          string         `gorm:"type:varchar(200)" json:"email"`               // 邮箱
	Address        string         `gorm:"type:varchar(500)" json:"address"`             // 地址
	BusinessNumber string         `gorm:"type:varchar(50)" json:"business_number"`      // 营业执照号
	Memo           string         `gorm:"type:text" json:"memo"`                        // 备注
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                      // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                      // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                               // 软删除时间
}

// TableName 指定表名
func (Partner) TableName() string {
	return "partners"
}
