package authz

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func mustEnforce(t *testing.T, svc *Service, userID uint, obj, act string) bool {
	t.Helper()
	allow, err := svc.EnforceUser(userID, obj, act)
	if err != nil {
		t.Fatalf("enforce %s %s failed: %v", act, obj, err)
	}
	return allow
}

func TestEnforceUserWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("florist", "/admin/materials/:id", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}
	if err := svc.SetUserRoles(1, []string{"florist"}); err != nil {
		t.Fatalf("set user roles failed: %v", err)
	}

	if !mustEnforce(t, svc, 1, "/api/v1/admin/materials/42", "get") {
		t.Fatalf("expected allow=true")
	}
	if mustEnforce(t, svc, 1, "/api/v1/admin/materials/42", "POST") {
		t.Fatalf("expected allow=false")
	}
}

func TestBuiltinRolesHierarchy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	if err := svc.SetUserRole(1, "employee"); err != nil {
		t.Fatalf("set employee role failed: %v", err)
	}
	if err := svc.SetUserRole(2, "manager"); err != nil {
		t.Fatalf("set manager role failed: %v", err)
	}
	if err := svc.SetUserRole(3, "admin"); err != nil {
		t.Fatalf("set admin role failed: %v", err)
	}

	cases := []struct {
		user  uint
		obj   string
		act   string
		allow bool
	}{
		{1, "/api/v1/admin/delivery-fees", "GET", true},
		{1, "/api/v1/admin/delivery-fees/3", "PATCH", false},
		{1, "/api/v1/admin/orders/9/message-print", "POST", true},
		{1, "/api/v1/admin/users", "GET", false},
		{2, "/api/v1/admin/delivery-fees/3", "PATCH", true},
		{2, "/api/v1/admin/delivery-fees/merge-duplicates", "POST", true},
		{2, "/api/v1/admin/orders/9/message-print", "POST", true},
		{2, "/api/v1/admin/users", "POST", false},
		{2, "/api/v1/admin/settings", "PUT", false},
		{3, "/api/v1/admin/users", "POST", true},
		{3, "/api/v1/admin/settings", "PUT", true},
	}
	for _, tc := range cases {
		if got := mustEnforce(t, svc, tc.user, tc.obj, tc.act); got != tc.allow {
			t.Fatalf("user %d %s %s: want allow=%v got %v", tc.user, tc.act, tc.obj, tc.allow, got)
		}
	}
}

func TestSetUserRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.SetUserRole(2, "employee"); err != nil {
		t.Fatalf("set first role failed: %v", err)
	}
	roles, err := svc.GetUserRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:employee" {
		t.Fatalf("roles want [role:employee], got=%v", roles)
	}

	if err := svc.SetUserRole(2, "manager"); err != nil {
		t.Fatalf("set second role failed: %v", err)
	}
	roles, err = svc.GetUserRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:manager" {
		t.Fatalf("roles want [role:manager], got=%v", roles)
	}

	if err := svc.RemoveUser(2); err != nil {
		t.Fatalf("remove user failed: %v", err)
	}
	roles, err = svc.GetUserRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 0 {
		t.Fatalf("expected no roles after removal, got=%v", roles)
	}
}

func TestGetUserPoliciesMergesRoleAndDirect(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("employee", "/admin/orders", "GET"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if err := svc.SetUserRole(5, "employee"); err != nil {
		t.Fatalf("set role failed: %v", err)
	}
	policies, err := svc.GetUserPolicies(5)
	if err != nil {
		t.Fatalf("get policies failed: %v", err)
	}
	if len(policies) != 1 || policies[0].Object != "/admin/orders" || policies[0].Subject != "role:employee" {
		t.Fatalf("unexpected policies: %+v", policies)
	}

	if err := svc.RevokeRolePolicy("employee", "/admin/orders", "GET"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	policies, err = svc.GetUserPolicies(5)
	if err != nil {
		t.Fatalf("get policies failed: %v", err)
	}
	if len(policies) != 0 {
		t.Fatalf("expected no policies after revoke, got %+v", policies)
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := map[string]string{
		"":                       "/",
		"admin/orders":           "/admin/orders",
		"/api/v1/admin/orders/1": "/admin/orders/1",
		"/api/v1":                "/",
		" /admin/delivery-fees ": "/admin/delivery-fees",
	}
	for in, want := range cases {
		if got := NormalizeObject(in); got != want {
			t.Fatalf("NormalizeObject(%q) want %q got %q", in, want, got)
		}
	}
}

func TestListRolesAfterBootstrap(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	want := []string{"role:admin", "role:employee", "role:manager"}
	if strings.Join(roles, ",") != strings.Join(want, ",") {
		t.Fatalf("roles want %v got %v", want, roles)
	}
}

func TestCheckManagedPolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}

	policy, err := svc.CheckManagedPolicy("employee", "/api/v1/admin/materials/export", "get")
	if err != nil {
		t.Fatalf("check managed policy failed: %v", err)
	}
	if policy.Subject != "role:employee" || policy.Object != "/admin/materials/export" || policy.Action != "GET" {
		t.Fatalf("unexpected normalized policy: %+v", policy)
	}

	if _, err := svc.CheckManagedPolicy("courier", "/admin/orders", "GET"); !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("unknown role want ErrRoleNotFound got %v", err)
	}
	if _, err := svc.CheckManagedPolicy("employee", "/metrics", "GET"); !errors.Is(err, ErrInvalidPolicy) {
		t.Fatalf("non admin object want ErrInvalidPolicy got %v", err)
	}
	if _, err := svc.CheckManagedPolicy("employee", "/admin/login", "POST"); !errors.Is(err, ErrInvalidPolicy) {
		t.Fatalf("login object want ErrInvalidPolicy got %v", err)
	}
	if _, err := svc.CheckManagedPolicy("employee", "/admin/orders", "TRACE"); !errors.Is(err, ErrInvalidPolicy) {
		t.Fatalf("unknown action want ErrInvalidPolicy got %v", err)
	}
}

func TestIsBuiltinPolicy(t *testing.T) {
	if !IsBuiltinPolicy(Policy{Subject: "role:employee", Object: "/admin/orders", Action: "GET"}) {
		t.Fatalf("seeded employee policy should be builtin")
	}
	if IsBuiltinPolicy(Policy{Subject: "role:employee", Object: "/admin/materials/export", Action: "GET"}) {
		t.Fatalf("granted policy should not be builtin")
	}
	if IsBuiltinPolicy(Policy{Subject: "role:manager", Object: "/admin/orders", Action: "GET"}) {
		t.Fatalf("inherited policy belongs to employee seed only")
	}
}

func TestReloadPolicyKeepsGrants(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	if err := svc.GrantRolePolicy("employee", "/admin/materials/export", "GET"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if err := svc.ReloadPolicy(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	policies, err := svc.GetRolePolicies("employee")
	if err != nil {
		t.Fatalf("get role policies failed: %v", err)
	}
	found := false
	for _, item := range policies {
		if item.Object == "/admin/materials/export" && item.Action == "GET" {
			found = true
		}
	}
	if !found {
		t.Fatalf("granted policy should survive reload: %+v", policies)
	}
}
