package models

import "time"

// AuthzAuditLog 员工账号与角色变更审计
type AuthzAuditLog struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                         // 主键
	OperatorID    uint      `gorm:"index;not null" json:"operator_id"`                            // 操作人
	OperatorEmail string    `gorm:"type:varchar(200);not null;default:''" json:"operator_email"`  // 操作人邮箱
	TargetUserID  uint      `gorm:"index;not null" json:"target_user_id"`                         // 目标用户
	TargetEmail   string    `gorm:"type:varchar(200);not null;default:''" json:"target_email"`    // 目标用户邮箱
	Action        string    `gorm:"type:varchar(50);index;not null" json:"action"`                // user_create / policy_grant 等
	Role          string    `gorm:"type:varchar(50);index;not null;default:''" json:"role"`       // 变更后角色或被调整的角色
	Object        string    `gorm:"type:varchar(200);not null;default:''" json:"object"`          // 策略资源
	Method        string    `gorm:"type:varchar(20);not null;default:''" json:"method"`           // 策略动作
	Franchise     string    `gorm:"type:varchar(100);not null;default:''" json:"franchise"`       // 变更后门店
	RequestID     string    `gorm:"type:varchar(64);index;not null;default:''" json:"request_id"` // 请求ID
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                                      // 创建时间
}

// TableName 指定表名
func (AuthzAuditLog) TableName() string {
	return "authz_audit_logs"
}
