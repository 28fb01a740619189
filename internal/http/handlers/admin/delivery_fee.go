package admin

import (
	"strconv"
	"strings"

	"github.com/florist-erp/internal/apperr"
	"github.com/florist-erp/internal/constants"
	"github.com/florist-erp/internal/http/response"
	"github.com/florist-erp/internal/i18n"
	"github.com/florist-erp/internal/models"
	"github.com/florist-erp/internal/service"

	"github.com/gin-gonic/gin"
)

// DeliveryFeeListResponse 配送费列表页数据
type DeliveryFeeListResponse struct {
	Items      []models.DeliveryFee     `json:"items"`
	Duplicates []service.DuplicateGroup `json:"duplicates"`
	Stats      service.FeeStats         `json:"stats"`
}

// CreateDeliveryFeeRequest 新增地区
type CreateDeliveryFeeRequest struct {
	District string `json:"district"`
	Fee      *int64 `json:"fee"`
}

// UpdateDeliveryFeeRequest 修改费用
type UpdateDeliveryFeeRequest struct {
	Fee *int64 `json:"fee"`
}

// MergeDuplicatesRequest 重复整理
type MergeDuplicatesRequest struct {
	Policy string `json:"policy"`
}

func buildDeliveryFeeList(items []models.DeliveryFee) DeliveryFeeListResponse {
	return DeliveryFeeListResponse{
		Items:      items,
		Duplicates: service.DetectDuplicates(items),
		Stats:      service.Stats(items),
	}
}

// ListDeliveryFees 配送费列表（含重复分组与统计）
func (h *Handler) ListDeliveryFees(c *gin.Context) {
	items, err := h.DeliveryFeeService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, deliveryFeeErrorRules, "error.internal")
		return
	}
	response.Success(c, buildDeliveryFeeList(items))
}

// CreateDeliveryFee 新增地区配送费
func (h *Handler) CreateDeliveryFee(c *gin.Context) {
	var req CreateDeliveryFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if req.Fee == nil {
		respondError(c, response.CodeBadRequest, "error.delivery_fee_required", nil)
		return
	}
	id, items, err := h.DeliveryFeeService.AddDistrict(c.Request.Context(), req.District, *req.Fee)
	if err != nil {
		respondServiceError(c, err, deliveryFeeErrorRules, "error.save_failed")
		return
	}
	response.Success(c, gin.H{
		"id":   id,
		"list": buildDeliveryFeeList(items),
	})
}

// UpdateDeliveryFee 修改地区配送费
func (h *Handler) UpdateDeliveryFee(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateDeliveryFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Fee == nil {
		respondError(c, response.CodeBadRequest, "error.delivery_fee_required", nil)
		return
	}
	items, err := h.DeliveryFeeService.UpdateFee(c.Request.Context(), id, *req.Fee)
	if err != nil {
		respondServiceError(c, err, deliveryFeeErrorRules, "error.save_failed")
		return
	}
	response.Success(c, buildDeliveryFeeList(items))
}

// DeleteDeliveryFee 删除地区配送费，需回传地区名确认
func (h *Handler) DeleteDeliveryFee(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	items, err := h.DeliveryFeeService.DeleteDistrict(c.Request.Context(), id, c.Query("confirm_district"))
	if err != nil {
		respondServiceError(c, err, deliveryFeeErrorRules, "error.save_failed")
		return
	}
	response.Success(c, buildDeliveryFeeList(items))
}

// GetDeliveryFeeDuplicates 重复地区分组
func (h *Handler) GetDeliveryFeeDuplicates(c *gin.Context) {
	items, err := h.DeliveryFeeService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, deliveryFeeErrorRules, "error.internal")
		return
	}
	groups := service.DetectDuplicates(items)
	response.Success(c, gin.H{
		"groups": groups,
		"clean":  len(groups) == 0,
	})
}

// MergeDeliveryFeeDuplicates 整理重复地区
func (h *Handler) MergeDeliveryFeeDuplicates(c *gin.Context) {
	var req MergeDuplicatesRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
	}
	result, err := h.DeliveryFeeService.MergeDuplicates(c.Request.Context(), req.Policy)
	if err != nil {
		if result != nil && apperr.IsBackend(err) {
			// 部分分组已处理，连同已完成的部分一起返回
			requestLog(c).Warnw("delivery_fee_merge_partial",
				"kept", result.Kept,
				"removed", result.Removed,
				"error", err,
			)
			msg := i18n.T(i18n.ResolveLocale(c), "error.delivery_fee_merge_partial")
			response.ErrorWithData(c, response.CodeServiceUnavailable, msg, gin.H{"result": result})
			return
		}
		respondServiceError(c, err, deliveryFeeErrorRules, "error.save_failed")
		return
	}
	requestLog(c).Infow("delivery_fee_merge_done",
		"policy", result.Policy,
		"groups", result.Groups,
		"removed", len(result.Removed),
	)
	response.Success(c, result)
}

// QuoteDeliveryFee 按地区与商品金额报价
func (h *Handler) QuoteDeliveryFee(c *gin.Context) {
	district := strings.TrimSpace(c.Query("district"))
	var subtotal int64
	if raw := strings.TrimSpace(c.Query("subtotal")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		subtotal = parsed
	}
	quote, err := h.DeliveryFeeService.QuoteFee(c.Request.Context(), district, subtotal)
	if err != nil {
		respondServiceError(c, err, deliveryFeeErrorRules, "error.internal")
		return
	}
	response.Success(c, quote)
}

// ExportDeliveryFees 导出配送费 Excel
func (h *Handler) ExportDeliveryFees(c *gin.Context) {
	buf, filename, err := h.DeliveryFeeService.Export(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, deliveryFeeErrorRules, "error.export_failed")
		return
	}
	response.Attachment(c, constants.ExportContentTypeXLSX, filename, buf.Bytes())
}
