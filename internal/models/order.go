package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 花店订单表
type Order struct {
	ID               uint           `gorm:"primarykey" json:"id"`                           // 主键
	OrderNo          string         `gorm:"uniqueIndex;not null" json:"order_no"`           // 订单编号
	CustomerID       *uint          `gorm:"index" json:"customer_id,omitempty"`             // 客户ID
	OrdererName      string         `gorm:"type:varchar(100);not null" json:"orderer_name"` // 下单人
	OrdererContact   string         `gorm:"type:varchar(50)" json:"orderer_contact"`        // 下单人联系方式
	Branch           string         `gorm:"type:varchar(100);index" json:"branch"`          // 门店
	ReceiptType      string         `gorm:"type:varchar(20);not null" json:"receipt_type"`  // 取货方式 pickup/delivery
	RecipientName    string         `gorm:"type:varchar(100)" json:"recipient_name"`        // 收货人
	RecipientContact string         `gorm:"type:varchar(50)" json:"recipient_contact"`      // 收货人联系方式
	District         string         `gorm:"type:varchar(100);index" json:"district"`        // 配送地区
	Address          string         `gorm:"type:varchar(500)" json:"address"`               // 配送地址
	ProductSummary   string         `gorm:"type:varchar(500)" json:"product_summary"`       // 商品摘要
	Subtotal         int64          `gorm:"not null;default:0" json:"subtotal"`             // 商品金额
	DeliveryFee      int64          `gorm:"not null;default:0" json:"delivery_fee"`         // 配送费
	Total            int64          `gorm:"not null;default:0" json:"total"`                // 合计
	MessageContent   string         `gorm:"type:text" json:"message_content"`               // 留言卡内容（正文 + 分隔行 + 署名）
	Status           string         `gorm:"type:varchar(20);index;not null" json:"status"`  // 订单状态
	DeliveryAt       *time.Time     `gorm:"index" json:"delivery_at"`                       // 配送/取货时间
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                        // 创建时间
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`                        // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                 // 软删除时间
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
