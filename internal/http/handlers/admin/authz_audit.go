package admin

import (
	"strconv"
	"strings"

	"github.com/florist-erp/internal/http/response"
	"github.com/florist-erp/internal/models"
	"github.com/florist-erp/internal/repository"
	"github.com/florist-erp/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) recordUserAudit(c *gin.Context, action string, target *models.User, targetID uint) {
	operatorID, _ := c.Get("user_id")
	id, _ := operatorID.(uint)
	h.AuditService.Record(service.AuthzAuditRecordInput{
		OperatorID:    id,
		OperatorEmail: c.GetString("user_email"),
		Target:        target,
		TargetUserID:  targetID,
		Action:        action,
		RequestID:     c.GetString("request_id"),
	})
}

// ListAuthzAuditLogs 员工账号与角色变更审计
func (h *Handler) ListAuthzAuditLogs(c *gin.Context) {
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
	operatorID, _ := strconv.ParseUint(c.Query("operator_id"), 10, 64)
	targetUserID, _ := strconv.ParseUint(c.Query("target_user_id"), 10, 64)

	logs, total, err := h.AuditService.List(repository.AuthzAuditLogListFilter{
		Page:         page,
		PageSize:     pageSize,
		OperatorID:   uint(operatorID),
		TargetUserID: uint(targetUserID),
		Action:       strings.TrimSpace(c.Query("action")),
		CreatedFrom:  createdFrom,
		CreatedTo:    createdTo,
	})
	if err != nil {
		respondServiceError(c, err, nil, "error.internal")
		return
	}
	response.SuccessWithPage(c, logs, buildPagination(page, pageSize, total))
}
