package models

import (
	"time"

	"gorm.io/gorm"
)

// User 后台用户表（登录主体）
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                            // 主键
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`               // 邮箱
	PasswordHash string         `gorm:"not null" json:"-"`                               // 密码哈希（不返回给前端）
	Role         string         `gorm:"type:varchar(20);not null;index" json:"role"`     // 角色 admin/manager/employee
	Franchise    string         `gorm:"type:varchar(100);index" json:"franchise"`        // 所属加盟店
	Status       string         `gorm:"type:varchar(20);default:'active'" json:"status"` // 账号状态
	TokenVersion uint64         `gorm:"not null;default:0" json:"-"`                     // Token 版本（用于全量失效）
	LastLoginAt  *time.Time     `json:"last_login_at"`                                   // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                         // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                  // 软删除时间

	Employee *Employee `gorm:"foreignKey:UserID" json:"employee,omitempty"` // 员工档案
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
