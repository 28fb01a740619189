package models

import "time"

// PrintJob 留言卡打印任务表
type PrintJob struct {
	ID         uint       `gorm:"primarykey" json:"id"`                          // 主键
	JobNo      string     `gorm:"uniqueIndex;not null" json:"job_no"`            // 任务编号
	OrderID    uint       `gorm:"index;not null" json:"order_id"`                // 订单ID
	LabelType  string     `gorm:"type:varchar(50);not null" json:"label_type"`   // 标签纸规格
	Payload    JSON       `gorm:"type:json" json:"payload"`                      // 打印数据
	Status     string     `gorm:"type:varchar(20);index;not null" json:"status"` // 状态 queued/rendered/failed
	SheetHTML  string     `gorm:"type:text" json:"-"`                            // 渲染后的整页 HTML
	Error      string     `gorm:"type:text" json:"error,omitempty"`              // 失败原因
	CreatedBy  uint       `gorm:"index" json:"created_by"`                       // 提交人
	RenderedAt *time.Time `json:"rendered_at"`                                   // 渲染完成时间
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt  time.Time  `gorm:"index" json:"updated_at"`                       // 更新时间
}

// TableName 指定表名
func (PrintJob) TableName() string {
	return "print_jobs"
}
