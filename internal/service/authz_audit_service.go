package service

import (
	"strings"
	"time"

	"github.com/florist-erp/internal/apperr"
	"github.com/florist-erp/internal/logger"
	"github.com/florist-erp/internal/models"
	"github.com/florist-erp/internal/repository"
)

// 审计动作
const (
	AuditActionUserCreate = "user_create"
	AuditActionUserUpdate = "user_update"
	AuditActionUserDelete = "user_delete"

	AuditActionPolicyGrant  = "policy_grant"
	AuditActionPolicyRevoke = "policy_revoke"
	AuditActionPolicyReload = "policy_reload"
)

// AuthzAuditRecordInput 审计记录输入
type AuthzAuditRecordInput struct {
	OperatorID    uint
	OperatorEmail string
	Target        *models.User
	TargetUserID  uint
	Action        string
	Role          string
	Object        string
	Method        string
	RequestID     string
}

// AuthzAuditService 员工角色变更审计
type AuthzAuditService struct {
	repo repository.AuthzAuditLogRepository
}

// NewAuthzAuditService 创建审计服务
func NewAuthzAuditService(repo repository.AuthzAuditLogRepository) *AuthzAuditService {
	return &AuthzAuditService{repo: repo}
}

// Record 写入审计日志，失败只记日志不影响主流程
func (s *AuthzAuditService) Record(input AuthzAuditRecordInput) {
	if s == nil || s.repo == nil || input.OperatorID == 0 || strings.TrimSpace(input.Action) == "" {
		return
	}
	item := &models.AuthzAuditLog{
		OperatorID:    input.OperatorID,
		OperatorEmail: strings.TrimSpace(input.OperatorEmail),
		TargetUserID:  input.TargetUserID,
		Action:        strings.TrimSpace(input.Action),
		Role:          strings.TrimSpace(input.Role),
		Object:        strings.TrimSpace(input.Object),
		Method:        strings.ToUpper(strings.TrimSpace(input.Method)),
		RequestID:     strings.TrimSpace(input.RequestID),
		CreatedAt:     time.Now(),
	}
	if input.Target != nil {
		item.TargetUserID = input.Target.ID
		item.TargetEmail = input.Target.Email
		item.Role = input.Target.Role
		item.Franchise = input.Target.Franchise
	}
	if err := s.repo.Create(item); err != nil {
		logger.Warnw("authz_audit_record_failed",
			"action", item.Action,
			"operator_id", item.OperatorID,
			"target_user_id", item.TargetUserID,
			"error", err,
		)
	}
}

// List 审计日志列表
func (s *AuthzAuditService) List(filter repository.AuthzAuditLogListFilter) ([]models.AuthzAuditLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.AuthzAuditLog{}, 0, nil
	}
	logs, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, apperr.Backend("authz_audit.list", err)
	}
	return logs, total, nil
}
