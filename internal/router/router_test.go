package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/florist-erp/internal/cache"
	"github.com/florist-erp/internal/config"
	"github.com/florist-erp/internal/constants"
	"github.com/florist-erp/internal/models"
	"github.com/florist-erp/internal/provider"
	"github.com/florist-erp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func newRouterFixture(t *testing.T) (*gin.Engine, *provider.Container) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	cfg := &config.Config{}
	cfg.Server.Mode = "debug"
	cfg.JWT.SecretKey = "router-test-secret"
	cfg.JWT.ExpireHours = 1
	cfg.Delivery.DefaultFee = constants.DefaultDeliveryFee
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/metrics"
	cfg.Metrics.Namespace = "florist_test"

	c := provider.NewContainerWithDB(cfg, db)
	t.Cleanup(c.Close)
	return SetupRouter(cfg, c), c
}

func createUser(t *testing.T, c *provider.Container, email, role string) {
	t.Helper()
	_, err := c.UserService.Create(context.Background(), service.CreateUserInput{
		Email:    email,
		Password: "Florist#2024",
		Role:     role,
		Name:     "테스트",
	})
	require.NoError(t, err)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func login(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	resp := doJSON(t, r, http.MethodPost, "/api/v1/admin/login", "", gin.H{
		"email":    email,
		"password": "Florist#2024",
	})
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestAdminLoginAndDeliveryFeeFlow(t *testing.T) {
	r, c := newRouterFixture(t)
	createUser(t, c, "manager@florist.test", constants.UserRoleManager)
	token := login(t, r, "manager@florist.test")

	created := doJSON(t, r, http.MethodPost, "/api/v1/admin/delivery-fees", token, gin.H{
		"district": "강남구",
		"fee":      5000,
	})
	require.Equal(t, 0, created.StatusCode, created.Msg)

	list := doJSON(t, r, http.MethodGet, "/api/v1/admin/delivery-fees", token, nil)
	require.Equal(t, 0, list.StatusCode, list.Msg)
	var payload struct {
		Items []models.DeliveryFee `json:"items"`
	}
	require.NoError(t, json.Unmarshal(list.Data, &payload))
	require.Len(t, payload.Items, 1)
	require.Equal(t, "강남구", payload.Items[0].District)
	require.Equal(t, int64(5000), payload.Items[0].Fee)

	quote := doJSON(t, r, http.MethodGet, "/api/v1/admin/delivery-fees/quote?district=%EA%B0%95%EB%82%A8%EA%B5%AC&subtotal=10000", token, nil)
	require.Equal(t, 0, quote.StatusCode, quote.Msg)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	r, _ := newRouterFixture(t)

	resp := doJSON(t, r, http.MethodGet, "/api/v1/admin/orders", "", nil)
	require.Equal(t, 401, resp.StatusCode)

	resp = doJSON(t, r, http.MethodGet, "/api/v1/admin/orders", "not-a-jwt", nil)
	require.Equal(t, 401, resp.StatusCode)
}

func TestEmployeeCannotManageUsers(t *testing.T) {
	r, c := newRouterFixture(t)
	createUser(t, c, "staff@florist.test", constants.UserRoleEmployee)
	token := login(t, r, "staff@florist.test")

	resp := doJSON(t, r, http.MethodGet, "/api/v1/admin/users", token, nil)
	require.Equal(t, 403, resp.StatusCode)

	resp = doJSON(t, r, http.MethodGet, "/api/v1/admin/label-types", token, nil)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	r, c := newRouterFixture(t)
	createUser(t, c, "owner@florist.test", constants.UserRoleAdmin)

	resp := doJSON(t, r, http.MethodPost, "/api/v1/admin/login", "", gin.H{
		"email":    "owner@florist.test",
		"password": "wrong-password",
	})
	require.Equal(t, 401, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newRouterFixture(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "florist_test_http_requests_total")
}

func TestHealthReportsRedisOutage(t *testing.T) {
	r, c := newRouterFixture(t)
	c.Cache = cache.NewStoreWithClient(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	}), "florist_test")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "degraded", body["status"])
	require.Equal(t, "unavailable", body["redis"])
}

func TestPermissionCatalogModules(t *testing.T) {
	r, _ := newRouterFixture(t)
	items := buildAdminPermissionCatalog(r)
	require.NotEmpty(t, items)

	modules := make(map[string]bool)
	for _, item := range items {
		require.NotEqual(t, "/admin/login", item.Object)
		modules[item.Module] = true
	}
	require.True(t, modules["delivery-fees"])
	require.True(t, modules["orders"])
	require.True(t, modules["account"])
	require.Equal(t, "delivery-fees", deriveAdminPermissionModule("/admin/delivery-fees/:id"))
	require.Equal(t, "orders", deriveAdminPermissionModule("/admin/print-jobs/:id/sheet"))
}

func TestAdminUserChangesAreAudited(t *testing.T) {
	r, c := newRouterFixture(t)
	createUser(t, c, "owner@florist.test", constants.UserRoleAdmin)
	token := login(t, r, "owner@florist.test")

	created := doJSON(t, r, http.MethodPost, "/api/v1/admin/users", token, gin.H{
		"email":     "florist@florist.test",
		"password":  "Florist#2024",
		"role":      constants.UserRoleEmployee,
		"franchise": "서초점",
		"name":      "한플로",
	})
	require.Equal(t, 0, created.StatusCode, created.Msg)

	resp := doJSON(t, r, http.MethodGet, "/api/v1/admin/authz/audit-logs", token, nil)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var logs []models.AuthzAuditLog
	require.NoError(t, json.Unmarshal(resp.Data, &logs))
	require.Len(t, logs, 1)
	require.Equal(t, "user_create", logs[0].Action)
	require.Equal(t, "florist@florist.test", logs[0].TargetEmail)
	require.Equal(t, "owner@florist.test", logs[0].OperatorEmail)
	require.Equal(t, "서초점", logs[0].Franchise)
}
