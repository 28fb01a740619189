package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer 客户表（同名且同联系方式视为重复）
type Customer struct {
	ID        uint           `gorm:"primarykey" json:"id"`                         // 主键
	Name      string         `gorm:"type:varchar(100);not null;index" json:"name"` // 姓名
	Contact   string         `gorm:"type:varchar(50);index" json:"contact"`        // 联系方式
	Email     string         `gorm:"type:varchar(200)" json:"email"`               // 邮箱
	Company   string         `gorm:"type:varchar(200)" json:"company"`             // 公司
	Address   string         `gorm:"type:varchar(500)" json:"address"`             // 地址
	Grade     string         `gorm:"type:varchar(20)" json:"grade"`                // 等级
	Branch    string         `gorm:"type:varchar(100);index" json:"branch"`        // 所属门店
	Memo      string         `gorm:"type:text" json:"memo"`                        // 备注
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                      // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                      // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                               // 软删除时间
}

// TableName 指定表名
func (Customer) TableName() string {
	return "customers"
}
