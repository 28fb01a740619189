package admin

import (
	"strings"

	"github.com/florist-erp/internal/authz"
	"github.com/florist-erp/internal/http/response"
	"github.com/florist-erp/internal/logger"
	"github.com/florist-erp/internal/service"

	"github.com/gin-gonic/gin"
)

type authzPolicyPayload struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

// GetAuthzRolePolicies 获取角色策略
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role, err := h.AuthzService.ExistingRole(strings.TrimSpace(c.Param("role")))
	if err != nil {
		respondServiceError(c, err, authzErrorRules, "error.internal")
		return
	}
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{
		"role":     role,
		"policies": policies,
	})
}

// GrantAuthzPolicy 为店长或店员开放后台接口
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	policy, err := h.AuthzService.CheckManagedPolicy(req.Role, req.Object, req.Action)
	if err != nil {
		respondServiceError(c, err, authzErrorRules, "error.save_failed")
		return
	}
	if err := h.AuthzService.GrantRolePolicy(policy.Subject, policy.Object, policy.Action); err != nil {
		respondError(c, response.CodeInternal, "error.save_failed", err)
		return
	}

	h.recordPolicyAudit(c, service.AuditActionPolicyGrant, policy)
	logger.Infow("admin_authz_policy_granted",
		"operator_id", c.GetUint("user_id"),
		"role", policy.Subject,
		"object", policy.Object,
		"action", policy.Action,
	)
	response.Success(c, policy)
}

// RevokeAuthzPolicy 撤销后台追加的角色策略，预置策略不可撤销
func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	policy, err := h.AuthzService.CheckManagedPolicy(req.Role, req.Object, req.Action)
	if err != nil {
		respondServiceError(c, err, authzErrorRules, "error.save_failed")
		return
	}
	if authz.IsBuiltinPolicy(policy) {
		respondServiceError(c, authz.ErrBuiltinPolicy, authzErrorRules, "error.save_failed")
		return
	}
	if err := h.AuthzService.RevokeRolePolicy(policy.Subject, policy.Object, policy.Action); err != nil {
		respondError(c, response.CodeInternal, "error.save_failed", err)
		return
	}

	h.recordPolicyAudit(c, service.AuditActionPolicyRevoke, policy)
	logger.Infow("admin_authz_policy_revoked",
		"operator_id", c.GetUint("user_id"),
		"role", policy.Subject,
		"object", policy.Object,
		"action", policy.Action,
	)
	response.Success(c, policy)
}

// ReloadAuthzPolicy 重新加载策略，多实例部署时同步其他实例的授权变更
func (h *Handler) ReloadAuthzPolicy(c *gin.Context) {
	if err := h.AuthzService.ReloadPolicy(); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	h.recordPolicyAudit(c, service.AuditActionPolicyReload, authz.Policy{})
	response.Success(c, nil)
}

func (h *Handler) recordPolicyAudit(c *gin.Context, action string, policy authz.Policy) {
	h.AuditService.Record(service.AuthzAuditRecordInput{
		OperatorID:    c.GetUint("user_id"),
		OperatorEmail: c.GetString("user_email"),
		Action:        action,
		Role:          policy.Subject,
		Object:        policy.Object,
		Method:        policy.Action,
		RequestID:     c.GetString("request_id"),
	})
}
