package admin

import (
	"strings"

	"github.com/florist-erp/internal/http/response"
	"github.com/florist-erp/internal/label"
	"github.com/florist-erp/internal/models"
	"github.com/florist-erp/internal/repository"
	"github.com/florist-erp/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderDetail 订单详情（附拆分后的留言正文与署名）
type OrderDetail struct {
	models.Order
	Message string `json:"message"`
	Sender  string `json:"sender"`
}

// UpdateOrderMessageRequest 修改留言
type UpdateOrderMessageRequest struct {
	Message string `json:"message"`
	Sender  string `json:"sender"`
}

// UpdateOrderStatusRequest 修改订单状态
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func buildOrderDetail(order *models.Order) OrderDetail {
	message, sender := label.SplitMessage(order.MessageContent, order.OrdererName)
	return OrderDetail{Order: *order, Message: message, Sender: sender}
}

// ListOrders 订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	page, pageSize := pageParams(c)
	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	orders, total, err := h.OrderService.List(repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		Status:      strings.TrimSpace(c.Query("status")),
		Branch:      strings.TrimSpace(c.Query("branch")),
		District:    strings.TrimSpace(c.Query("district")),
		Keyword:     strings.TrimSpace(c.Query("keyword")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondServiceError(c, err, orderErrorRules, "error.internal")
		return
	}
	response.SuccessWithPage(c, orders, buildPagination(page, pageSize, total))
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.Get(id)
	if err != nil {
		respondServiceError(c, err, orderErrorRules, "error.internal")
		return
	}
	response.Success(c, buildOrderDetail(order))
}

// CreateOrder 下单
func (h *Handler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	order, err := h.OrderService.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, orderErrorRules, "error.save_failed")
		return
	}
	response.Success(c, buildOrderDetail(order))
}

// UpdateOrderMessage 修改留言卡正文与署名
func (h *Handler) UpdateOrderMessage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	order, err := h.OrderService.UpdateMessage(id, req.Message, req.Sender)
	if err != nil {
		respondServiceError(c, err, orderErrorRules, "error.save_failed")
		return
	}
	response.Success(c, buildOrderDetail(order))
}

// UpdateOrderStatus 修改订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	order, err := h.OrderService.UpdateStatus(id, req.Status)
	if err != nil {
		respondServiceError(c, err, orderErrorRules, "error.save_failed")
		return
	}
	response.Success(c, buildOrderDetail(order))
}
