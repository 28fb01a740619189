package admin

import (
	"strings"

	"github.com/florist-erp/internal/http/response"
	"github.com/florist-erp/internal/repository"
	"github.com/florist-erp/internal/service"

	"github.com/gin-gonic/gin"
)

// ListCustomers 客户列表，支持按姓名前缀（含初声）检索
func (h *Handler) ListCustomers(c *gin.Context) {
	page, pageSize := pageParams(c)
	items, total, err := h.CustomerService.Search(repository.CustomerListFilter{
		Page:       page,
		PageSize:   pageSize,
		NamePrefix: strings.TrimSpace(c.Query("name_prefix")),
		Branch:     strings.TrimSpace(c.Query("branch")),
	})
	if err != nil {
		respondServiceError(c, err, customerErrorRules, "error.internal")
		return
	}
	response.SuccessWithPage(c, items, buildPagination(page, pageSize, total))
}

// GetCustomer 客户详情
func (h *Handler) GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	item, err := h.CustomerService.Get(id)
	if err != nil {
		respondServiceError(c, err, customerErrorRules, "error.internal")
		return
	}
	response.Success(c, item)
}

// CreateCustomer 新建客户
func (h *Handler) CreateCustomer(c *gin.Context) {
	var req service.CustomerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	item, err := h.CustomerService.Create(req)
	if err != nil {
		respondServiceError(c, err, customerErrorRules, "error.save_failed")
		return
	}
	response.Success(c, item)
}

// UpdateCustomer 修改客户
func (h *Handler) UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.CustomerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	item, err := h.CustomerService.Update(id, req)
	if err != nil {
		respondServiceError(c, err, customerErrorRules, "error.save_failed")
		return
	}
	response.Success(c, item)
}

// DeleteCustomer 删除客户
func (h *Handler) DeleteCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.CustomerService.Delete(id); err != nil {
		respondServiceError(c, err, customerErrorRules, "error.delete_failed")
		return
	}
	response.Success(c, nil)
}
