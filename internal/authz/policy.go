package authz

import (
	"errors"
	"strings"
)

var (
	ErrRoleNotFound  = errors.New("authz role not found")
	ErrInvalidPolicy = errors.New("authz policy invalid")
	ErrBuiltinPolicy = errors.New("authz builtin policy is immutable")
)

const adminObjectPrefix = "/admin/"

var managedActions = map[string]struct{}{
	"GET":    {},
	"POST":   {},
	"PUT":    {},
	"PATCH":  {},
	"DELETE": {},
	"*":      {},
}

// ExistingRole 返回已存在角色的规范名称
func (s *Service) ExistingRole(role string) (string, error) {
	normalizedRole, err := NormalizeRole(role)
	if err != nil {
		return "", ErrRoleNotFound
	}
	roles, err := s.ListRoles()
	if err != nil {
		return "", err
	}
	for _, item := range roles {
		if item == normalizedRole {
			return normalizedRole, nil
		}
	}
	return "", ErrRoleNotFound
}

// CheckManagedPolicy 校验可在后台调整的角色策略：角色须已存在，资源须为后台接口
func (s *Service) CheckManagedPolicy(role, object, action string) (Policy, error) {
	normalizedRole, err := s.ExistingRole(role)
	if err != nil {
		return Policy{}, err
	}

	normalizedObject := NormalizeObject(object)
	if !strings.HasPrefix(normalizedObject, adminObjectPrefix) || normalizedObject == adminObjectPrefix+"login" {
		return Policy{}, ErrInvalidPolicy
	}
	normalizedAction := NormalizeAction(action)
	if _, ok := managedActions[normalizedAction]; !ok {
		return Policy{}, ErrInvalidPolicy
	}
	return Policy{Subject: normalizedRole, Object: normalizedObject, Action: normalizedAction}, nil
}

// IsBuiltinPolicy 预置角色的基础策略启动时会重新补齐，不可撤销
func IsBuiltinPolicy(policy Policy) bool {
	for _, seed := range BuiltinRoleSeeds() {
		if !seed.Immutable {
			continue
		}
		role, err := NormalizeRole(seed.Role)
		if err != nil || role != policy.Subject {
			continue
		}
		for _, item := range seed.Policies {
			if NormalizeObject(item.Object) == policy.Object && NormalizeAction(item.Action) == policy.Action {
				return true
			}
		}
	}
	return false
}
