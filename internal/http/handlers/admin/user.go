package admin

import (
	"strings"

	"github.com/florist-erp/internal/http/response"
	"github.com/florist-erp/internal/repository"
	"github.com/florist-erp/internal/service"

	"github.com/gin-gonic/gin"
)

// ListUsers 用户列表
func (h *Handler) ListUsers(c *gin.Context) {
	page, pageSize := pageParams(c)
	users, total, err := h.UserService.List(repository.UserListFilter{
		Page:      page,
		PageSize:  pageSize,
		Role:      strings.TrimSpace(c.Query("role")),
		Franchise: strings.TrimSpace(c.Query("franchise")),
		Keyword:   strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		respondServiceError(c, err, userErrorRules, "error.internal")
		return
	}
	response.SuccessWithPage(c, users, buildPagination(page, pageSize, total))
}

// GetUser 用户详情
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, err := h.UserService.Get(id)
	if err != nil {
		respondServiceError(c, err, userErrorRules, "error.internal")
		return
	}
	response.Success(c, user)
}

// CreateUser 新建用户
func (h *Handler) CreateUser(c *gin.Context) {
	var req service.CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	user, err := h.UserService.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, userErrorRules, "error.save_failed")
		return
	}
	h.recordUserAudit(c, service.AuditActionUserCreate, user, user.ID)
	response.Success(c, user)
}

// UpdateUser 修改用户
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.UpdateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	user, err := h.UserService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, userErrorRules, "error.save_failed")
		return
	}
	h.recordUserAudit(c, service.AuditActionUserUpdate, user, user.ID)
	response.Success(c, user)
}

// DeleteUser 删除用户
func (h *Handler) DeleteUser(c *gin.Context) {
	actorID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	target, _ := h.UserService.Get(id)
	if err := h.UserService.Delete(c.Request.Context(), id, actorID); err != nil {
		respondServiceError(c, err, userErrorRules, "error.delete_failed")
		return
	}
	h.recordUserAudit(c, service.AuditActionUserDelete, target, id)
	response.Success(c, nil)
}
