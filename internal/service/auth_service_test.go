package service

import (
	"context"
	"errors"
	"testing"

	"github.com/florist-erp/internal/constants"
	"github.com/florist-erp/internal/models"
	"github.com/florist-erp/internal/repository"
)

func newAuthFixture(t *testing.T) (*AuthService, *UserService, repository.UserRepository) {
	t.Helper()
	db := openServiceTestDB(t)
	userRepo := repository.NewUserRepository(db)
	auth := NewAuthService(testConfig(), userRepo, nil)
	users := NewUserService(userRepo, auth, newFakeRoleBinder())
	return auth, users, userRepo
}

func TestAuthServiceLoginAndVerify(t *testing.T) {
	auth, users, _ := newAuthFixture(t)
	ctx := context.Background()
	created, err := users.Create(ctx, CreateUserInput{
		Email:    "Kim@Florist.kr ",
		Password: "rose12345",
		Role:     constants.UserRoleManager,
		Name:     "김매니저",
	})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	user, token, _, err := auth.Login(ctx, "kim@florist.kr", "rose12345")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != created.ID || token == "" {
		t.Fatalf("unexpected login result: user=%+v token=%q", user, token)
	}

	claims, err := auth.VerifyToken(ctx, token)
	if err != nil {
		t.Fatalf("verify token failed: %v", err)
	}
	if claims.UserID != created.ID || claims.Role != constants.UserRoleManager {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, _, _, err := auth.Login(ctx, "kim@florist.kr", "wrong-pass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := auth.Login(ctx, "nobody@florist.kr", "rose12345"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthServiceChangePasswordRevokesTokens(t *testing.T) {
	auth, users, _ := newAuthFixture(t)
	ctx := context.Background()
	created, err := users.Create(ctx, CreateUserInput{
		Email: "lee@florist.kr", Password: "tulip1234", Role: constants.UserRoleEmployee, Name: "이직원",
	})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	_, token, _, err := auth.Login(ctx, "lee@florist.kr", "tulip1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := auth.ChangePassword(ctx, created.ID, "bad-old-1", "lily56789"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if err := auth.ChangePassword(ctx, created.ID, "tulip1234", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := auth.ChangePassword(ctx, created.ID, "tulip1234", "lily56789"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	if _, err := auth.VerifyToken(ctx, token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked for old token, got %v", err)
	}
	if _, _, _, err := auth.Login(ctx, "lee@florist.kr", "lily56789"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestAuthServiceDisabledUser(t *testing.T) {
	auth, users, _ := newAuthFixture(t)
	ctx := context.Background()
	created, err := users.Create(ctx, CreateUserInput{
		Email: "park@florist.kr", Password: "peony1234", Role: constants.UserRoleEmployee, Name: "박직원",
	})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	_, token, _, err := auth.Login(ctx, "park@florist.kr", "peony1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := users.Update(ctx, created.ID, UpdateUserInput{
		Role: constants.UserRoleEmployee, Status: constants.UserStatusDisabled, Name: "박직원",
	}); err != nil {
		t.Fatalf("disable user failed: %v", err)
	}

	if _, err := auth.VerifyToken(ctx, token); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled from token, got %v", err)
	}
	if _, _, _, err := auth.Login(ctx, "park@florist.kr", "peony1234"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled from login, got %v", err)
	}
}

func TestAuthServiceRejectsForeignSignature(t *testing.T) {
	auth, _, _ := newAuthFixture(t)
	other := NewAuthService(testConfig(), nil, nil)
	other.cfg.JWT.SecretKey = "another-secret-value-987654321"
	token, _, err := other.GenerateJWT(&models.User{ID: 1, Email: "x@florist.kr", Role: constants.UserRoleAdmin})
	if err != nil {
		t.Fatalf("generate jwt failed: %v", err)
	}
	if _, err := auth.ParseJWT(token); err == nil {
		t.Fatalf("expected signature error")
	}
}
