package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/florist-erp/internal/apperr"
	"github.com/florist-erp/internal/constants"
	"github.com/florist-erp/internal/label"
	"github.com/florist-erp/internal/logger"
	"github.com/florist-erp/internal/models"
	"github.com/florist-erp/internal/repository"

	"github.com/google/uuid"
)

// CreateOrderInput 下单表单
type CreateOrderInput struct {
	CustomerID       *uint      `json:"customer_id"`
	OrdererName      string     `json:"orderer_name" validate:"required,max=100"`
	OrdererContact   string     `json:"orderer_contact" validate:"max=50"`
	Branch           string     `json:"branch" validate:"max=100"`
	ReceiptType      string     `json:"receipt_type" validate:"required,oneof=pickup delivery"`
	RecipientName    string     `json:"recipient_name" validate:"max=100"`
	RecipientContact string     `json:"recipient_contact" validate:"max=50"`
	District         string     `json:"district" validate:"max=100"`
	Address          string     `json:"address" validate:"max=500"`
	ProductSummary   string     `json:"product_summary" validate:"max=500"`
	Subtotal         int64      `json:"subtotal" validate:"gte=0"`
	Message          string     `json:"message"`
	Sender           string     `json:"sender" validate:"max=100"`
	DeliveryAt       *time.Time `json:"delivery_at"`
}

// OrderService 订单服务
type OrderService struct {
	repo repository.OrderRepository
	fees *DeliveryFeeService
}

// NewOrderService 创建订单服务
func NewOrderService(repo repository.OrderRepository, fees *DeliveryFeeService) *OrderService {
	return &OrderService{repo: repo, fees: fees}
}

// List 订单列表
func (s *OrderService) List(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	orders, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, apperr.Backend("order.list", err)
	}
	return orders, total, nil
}

// Get 获取订单
func (s *OrderService) Get(id uint) (*models.Order, error) {
	order, err := s.repo.GetByID(id)
	if err != nil {
		return nil, apperr.Backend("order.get", err)
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

// Create 下单：配送单按地区报价配送费，留言正文与署名合并保存
func (s *OrderService) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	input.OrdererName = strings.TrimSpace(input.OrdererName)
	input.ReceiptType = strings.TrimSpace(input.ReceiptType)
	input.District = strings.TrimSpace(input.District)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var fee int64
	if input.ReceiptType == constants.OrderReceiptDelivery {
		if input.District == "" {
			return nil, apperr.Validation("district", "district is required for delivery")
		}
		quote, err := s.fees.QuoteFee(ctx, input.District, input.Subtotal)
		if err != nil {
			return nil, err
		}
		fee = quote.Fee
	}

	sender := strings.TrimSpace(input.Sender)
	order := &models.Order{
		OrderNo:          generateOrderNo(time.Now()),
		CustomerID:       input.CustomerID,
		OrdererName:      input.OrdererName,
		OrdererContact:   strings.TrimSpace(input.OrdererContact),
		Branch:           strings.TrimSpace(input.Branch),
		ReceiptType:      input.ReceiptType,
		RecipientName:    strings.TrimSpace(input.RecipientName),
		RecipientContact: strings.TrimSpace(input.RecipientContact),
		District:         input.District,
		Address:          strings.TrimSpace(input.Address),
		ProductSummary:   strings.TrimSpace(input.ProductSummary),
		Subtotal:         input.Subtotal,
		DeliveryFee:      fee,
		Total:            input.Subtotal + fee,
		MessageContent:   label.JoinMessage(input.Message, sender),
		Status:           constants.OrderStatusReceived,
		DeliveryAt:       input.DeliveryAt,
	}
	if err := s.repo.Create(order); err != nil {
		logger.Errorw("order_create_failed", "orderer_name", order.OrdererName, "error", err)
		return nil, apperr.Backend("order.create", err)
	}
	logger.Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"district", order.District,
		"delivery_fee", order.DeliveryFee,
	)
	return order, nil
}

// UpdateMessage 回写留言卡正文与署名
func (s *OrderService) UpdateMessage(id uint, message, sender string) (*models.Order, error) {
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	content := label.JoinMessage(message, strings.TrimSpace(sender))
	if err := s.repo.UpdateMessage(id, content); err != nil {
		logger.Errorw("order_update_message_failed", "order_id", id, "error", err)
		return nil, apperr.Backend("order.update_message", err)
	}
	order.MessageContent = content
	return order, nil
}

// UpdateStatus 修改订单状态
func (s *OrderService) UpdateStatus(id uint, status string) (*models.Order, error) {
	status = strings.TrimSpace(status)
	if !isOrderStatus(status) {
		return nil, apperr.Validation("status", fmt.Sprintf("unsupported order status %q", status))
	}
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(id, status); err != nil {
		logger.Errorw("order_update_status_failed", "order_id", id, "status", status, "error", err)
		return nil, apperr.Backend("order.update_status", err)
	}
	order.Status = status
	return order, nil
}

func isOrderStatus(status string) bool {
	switch status {
	case constants.OrderStatusReceived,
		constants.OrderStatusPreparing,
		constants.OrderStatusDelivering,
		constants.OrderStatusCompleted,
		constants.OrderStatusCanceled:
		return true
	}
	return false
}

// generateOrderNo 订单号：FL + 时间 + 随机后缀
func generateOrderNo(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("FL%s%s", now.Format("060102150405"), suffix)
}
