package service

import (
	"context"
	"strings"

	"github.com/florist-erp/internal/apperr"
	"github.com/florist-erp/internal/constants"
	"github.com/florist-erp/internal/logger"
	"github.com/florist-erp/internal/models"
	"github.com/florist-erp/internal/repository"
)

// RoleBinder 用户与授权角色的绑定
type RoleBinder interface {
	SetUserRole(userID uint, role string) error
	GetUserRoles(userID uint) ([]string, error)
	RemoveUser(userID uint) error
}

// CreateUserInput 新建用户（含员工档案）
type CreateUserInput struct {
	Email     string `json:"email" validate:"required,email,max=200"`
	Password  string `json:"password" validate:"required"`
	Role      string `json:"role" validate:"required,oneof=admin manager employee"`
	Franchise string `json:"franchise" validate:"max=100"`
	Name      string `json:"name" validate:"required,max=100"`
	Position  string `json:"position" validate:"max=100"`
	Contact   string `json:"contact" validate:"max=50"`
}

// UpdateUserInput 修改用户
type UpdateUserInput struct {
	Role      string `json:"role" validate:"required,oneof=admin manager employee"`
	Franchise string `json:"franchise" validate:"max=100"`
	Status    string `json:"status" validate:"omitempty,oneof=active disabled"`
	Name      string `json:"name" validate:"required,max=100"`
	Position  string `json:"position" validate:"max=100"`
	Contact   string `json:"contact" validate:"max=50"`
}

// UserService 用户与员工管理
type UserService struct {
	repo  repository.UserRepository
	auth  *AuthService
	roles RoleBinder
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository, auth *AuthService, roles RoleBinder) *UserService {
	return &UserService{repo: repo, auth: auth, roles: roles}
}

// List 用户列表
func (s *UserService) List(filter repository.UserListFilter) ([]models.User, int64, error) {
	users, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, apperr.Backend("user.list", err)
	}
	return users, total, nil
}

// Get 获取用户
func (s *UserService) Get(id uint) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, apperr.Backend("user.get", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// Create 新建用户，邮箱不可重复
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	input.Email = normalizeEmail(input.Email)
	input.Role = strings.TrimSpace(input.Role)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByEmail(input.Email)
	if err != nil {
		return nil, apperr.Backend("user.get", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}
	if err := s.auth.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	hash, err := s.auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		Franchise:    strings.TrimSpace(input.Franchise),
		Status:       constants.UserStatusActive,
		Employee: &models.Employee{
			Name:     strings.TrimSpace(input.Name),
			Position: strings.TrimSpace(input.Position),
			Contact:  strings.TrimSpace(input.Contact),
		},
	}
	if err := s.repo.Create(user); err != nil {
		logger.Errorw("user_create_failed", "email", user.Email, "error", err)
		return nil, apperr.Backend("user.create", err)
	}
	if err := s.bindRole(user.ID, user.Role); err != nil {
		return nil, err
	}
	logger.Infow("user_created", "user_id", user.ID, "role", user.Role, "franchise", user.Franchise)
	return user, nil
}

// Update 修改用户角色、状态与员工档案
func (s *UserService) Update(ctx context.Context, id uint, input UpdateUserInput) (*models.User, error) {
	input.Role = strings.TrimSpace(input.Role)
	input.Status = strings.TrimSpace(input.Status)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	user.Role = input.Role
	user.Franchise = strings.TrimSpace(input.Franchise)
	if input.Status != "" {
		user.Status = input.Status
	}
	if user.Employee == nil {
		user.Employee = &models.Employee{UserID: user.ID}
	}
	user.Employee.Name = strings.TrimSpace(input.Name)
	user.Employee.Position = strings.TrimSpace(input.Position)
	user.Employee.Contact = strings.TrimSpace(input.Contact)

	if err := s.repo.Update(user); err != nil {
		logger.Errorw("user_update_failed", "user_id", id, "error", err)
		return nil, apperr.Backend("user.update", err)
	}
	if err := s.bindRole(user.ID, user.Role); err != nil {
		return nil, err
	}
	s.auth.InvalidateAuthState(ctx, user.ID)
	return user, nil
}

// Delete 删除用户，不允许删除自己
func (s *UserService) Delete(ctx context.Context, id, actorID uint) error {
	if id == actorID {
		return apperr.Validation("id", "cannot delete the signed-in user")
	}
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		logger.Errorw("user_delete_failed", "user_id", id, "error", err)
		return apperr.Backend("user.delete", err)
	}
	if s.roles != nil {
		if err := s.roles.RemoveUser(id); err != nil {
			logger.Warnw("user_role_unbind_failed", "user_id", id, "error", err)
		}
	}
	s.auth.InvalidateAuthState(ctx, id)
	logger.Infow("user_deleted", "user_id", id, "actor_id", actorID)
	return nil
}

// SyncRoleBindings 为尚未绑定授权角色的用户补齐绑定（如初始化脚本直接写库的管理员）
func (s *UserService) SyncRoleBindings() (int, error) {
	if s.roles == nil {
		return 0, nil
	}
	bound := 0
	for page := 1; ; page++ {
		users, total, err := s.repo.List(repository.UserListFilter{Page: page, PageSize: 100})
		if err != nil {
			return bound, apperr.Backend("user.list", err)
		}
		for i := range users {
			roles, err := s.roles.GetUserRoles(users[i].ID)
			if err != nil {
				return bound, apperr.Backend("authz.get_roles", err)
			}
			if len(roles) > 0 {
				continue
			}
			if err := s.bindRole(users[i].ID, users[i].Role); err != nil {
				return bound, err
			}
			bound++
		}
		if len(users) == 0 || int64(page*100) >= total {
			break
		}
	}
	if bound > 0 {
		logger.Infow("user_role_bindings_synced", "bound", bound)
	}
	return bound, nil
}

func (s *UserService) bindRole(userID uint, role string) error {
	if s.roles == nil {
		return nil
	}
	if err := s.roles.SetUserRole(userID, role); err != nil {
		logger.Errorw("user_role_bind_failed", "user_id", userID, "role", role, "error", err)
		return apperr.Backend("authz.set_role", err)
	}
	return nil
}
