package models

import "time"

// Employee 员工档案表（与用户一对一）
type Employee struct {
	ID        uint      `gorm:"primarykey" json:"id"`                   // 主键
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`    // 用户ID
	Name      string    `gorm:"type:varchar(100);not null" json:"name"` // 姓名
	Position  string    `gorm:"type:varchar(100)" json:"position"`      // 职位
	Contact   string    `gorm:"type:varchar(50)" json:"contact"`        // 联系方式
	CreatedAt time.Time `gorm:"index" json:"created_at"`                // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                // 更新时间
}

// TableName 指定表名
func (Employee) TableName() string {
	return "employees"
}
