package authz

import (
	"fmt"

	"github.com/florist-erp/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role      string
	Inherits  []string
	Policies  []Policy
	Immutable bool
}

// BuiltinRoleSeeds 花店预置角色矩阵：employee < manager < admin
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.UserRoleEmployee,
			Policies: []Policy{
				{Object: "/admin/me", Action: "GET"},
				{Object: "/admin/password", Action: "PUT"},
				{Object: "/admin/delivery-fees", Action: "GET"},
				{Object: "/admin/delivery-fees/duplicates", Action: "GET"},
				{Object: "/admin/delivery-fees/quote", Action: "GET"},
				{Object: "/admin/label-types", Action: "GET"},
				{Object: "/admin/orders", Action: "GET"},
				{Object: "/admin/orders", Action: "POST"},
				{Object: "/admin/orders/:id", Action: "GET"},
				{Object: "/admin/orders/:id/message", Action: "PUT"},
				{Object: "/admin/orders/:id/message-print/preview", Action: "POST"},
				{Object: "/admin/orders/:id/message-print", Action: "POST"},
				{Object: "/admin/orders/:id/print-jobs", Action: "GET"},
				{Object: "/admin/print-jobs/:id", Action: "GET"},
				{Object: "/admin/print-jobs/:id/sheet", Action: "GET"},
				{Object: "/admin/materials", Action: "GET"},
				{Object: "/admin/materials/:id", Action: "GET"},
				{Object: "/admin/materials/:id/barcode", Action: "GET"},
				{Object: "/admin/customers", Action: "GET"},
				{Object: "/admin/customers", Action: "POST"},
				{Object: "/admin/customers/search", Action: "GET"},
				{Object: "/admin/customers/:id", Action: "GET"},
				{Object: "/admin/partners", Action: "GET"},
				{Object: "/admin/partners/:id", Action: "GET"},
				{Object: "/admin/settings", Action: "GET"},
			},
			Immutable: true,
		},
		{
			Role:     constants.UserRoleManager,
			Inherits: []string{constants.UserRoleEmployee},
			Policies: []Policy{
				{Object: "/admin/delivery-fees", Action: "*"},
				{Object: "/admin/delivery-fees/:id", Action: "*"},
				{Object: "/admin/delivery-fees/merge-duplicates", Action: "POST"},
				{Object: "/admin/delivery-fees/export", Action: "GET"},
				{Object: "/admin/orders/:id", Action: "*"},
				{Object: "/admin/materials", Action: "*"},
				{Object: "/admin/materials/:id", Action: "*"},
				{Object: "/admin/materials/export", Action: "GET"},
				{Object: "/admin/customers/:id", Action: "*"},
				{Object: "/admin/partners", Action: "*"},
				{Object: "/admin/partners/:id", Action: "*"},
				{Object: "/admin/partners/import", Action: "POST"},
				{Object: "/admin/partners/template", Action: "GET"},
				{Object: "/admin/users", Action: "GET"},
			},
			Immutable: true,
		},
		{
			Role:     constants.UserRoleAdmin,
			Inherits: []string{constants.UserRoleManager},
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
			},
			Immutable: true,
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	changed := false
	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		exists, err := s.enforcer.HasNamedGroupingPolicy("g", role, roleAnchor)
		if err != nil {
			return fmt.Errorf("check builtin role failed: %w", err)
		}
		if !exists {
			added, err := s.enforcer.AddNamedGroupingPolicy("g", role, roleAnchor)
			if err != nil {
				return fmt.Errorf("create builtin role failed: %w", err)
			}
			if added {
				changed = true
			}
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			added, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole)
			if err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
			if added {
				changed = true
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			added, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action)
			if err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
			if added {
				changed = true
			}
		}
	}

	if changed {
		return s.saveAndReload()
	}
	return nil
}
