package admin

import (
	"errors"
	"fmt"

	"github.com/florist-erp/internal/http/response"
	"github.com/florist-erp/internal/i18n"
	"github.com/florist-erp/internal/service"

	"github.com/gin-gonic/gin"
)

// ListLabelTypes 标签纸规格目录
func (h *Handler) ListLabelTypes(c *gin.Context) {
	response.Success(c, h.PrintService.LabelTypes())
}

// PreviewMessagePrint 预览留言卡排版
func (h *Handler) PreviewMessagePrint(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.PrintRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
	}
	sheet, err := h.PrintService.Preview(c.Request.Context(), orderID, req)
	if err != nil {
		respondServiceError(c, err, printErrorRules, "error.internal")
		return
	}
	response.Success(c, sheet)
}

// SubmitMessagePrint 提交留言卡打印
func (h *Handler) SubmitMessagePrint(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.PrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	job, err := h.PrintService.Submit(c.Request.Context(), orderID, req, userID)
	if err != nil {
		if job != nil && errors.Is(err, service.ErrPrintQueueUnavailable) {
			// 任务已落库并标记失败，返回任务便于重试
			msg := i18n.T(i18n.ResolveLocale(c), "error.print_queue_unavailable")
			response.ErrorWithData(c, response.CodeServiceUnavailable, msg, gin.H{"job": job})
			return
		}
		respondServiceError(c, err, printErrorRules, "error.internal")
		return
	}
	response.Success(c, job)
}

// ListOrderPrintJobs 订单下的打印任务
func (h *Handler) ListOrderPrintJobs(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	jobs, err := h.PrintService.ListJobs(c.Request.Context(), orderID)
	if err != nil {
		respondServiceError(c, err, printJobErrorRules, "error.internal")
		return
	}
	response.Success(c, jobs)
}

// GetPrintJob 打印任务状态
func (h *Handler) GetPrintJob(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	job, err := h.PrintService.GetJob(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, printJobErrorRules, "error.internal")
		return
	}
	response.Success(c, job)
}

// GetPrintJobSheet 已渲染的整页 HTML，浏览器直接打印
func (h *Handler) GetPrintJobSheet(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	html, err := h.PrintService.Sheet(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, printJobErrorRules, "error.internal")
		return
	}
	if c.Query("download") == "1" {
		response.Attachment(c, response.ContentTypeHTML, fmt.Sprintf("print_job_%d.html", id), html)
		return
	}
	c.Data(200, response.ContentTypeHTML, html)
}
