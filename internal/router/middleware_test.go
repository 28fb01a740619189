package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/florist-erp/internal/service"

	"github.com/gin-gonic/gin"
)

type stubVerifier struct {
	claims *service.JWTClaims
	err    error
}

func (s stubVerifier) VerifyToken(_ context.Context, _ string) (*service.JWTClaims, error) {
	return s.claims, s.err
}

type stubEnforcer struct {
	allowed map[string]bool
	err     error
}

func (s stubEnforcer) EnforceUser(_ uint, obj, act string) (bool, error) {
	return s.allowed[act+" "+obj], s.err
}

func envelopeCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("http status want 200 got %d", w.Code)
	}
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp.StatusCode
}

func TestResolveAllowedOrigin(t *testing.T) {
	cases := []struct {
		origin      string
		allowed     []string
		credentials bool
		want        string
	}{
		{"https://shop.florist.kr", []string{"*"}, false, "*"},
		{"https://shop.florist.kr", []string{"*"}, true, "https://shop.florist.kr"},
		{"https://gangnam.florist.kr", []string{"https://gangnam.florist.kr", "https://seocho.florist.kr"}, false, "https://gangnam.florist.kr"},
		{"https://evil.example.com", []string{"https://gangnam.florist.kr"}, false, ""},
	}
	for _, tc := range cases {
		if got := resolveAllowedOrigin(tc.origin, tc.allowed, tc.credentials); got != tc.want {
			t.Fatalf("origin %s want %q got %q", tc.origin, tc.want, got)
		}
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "order-desk-7")
	r.ServeHTTP(w, req)

	if w.Header().Get(requestIDHeader) != "order-desk-7" {
		t.Fatalf("response request id want order-desk-7 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "order-desk-7" {
		t.Fatalf("context request id want order-desk-7 got %s", resp["request_id"])
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatalf("generated request id should not be empty")
	}
}

func TestJWTAuthMiddlewareMissingVerifier(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(JWTAuthMiddleware(nil))
	r.GET("/admin/orders", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/orders", nil))
	if code := envelopeCode(t, w); code != 401 {
		t.Fatalf("status_code want 401 got %d", code)
	}
}

func TestJWTAuthMiddlewareHeaderAndClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name     string
		header   string
		verifier stubVerifier
		want     int
	}{
		{"missing header", "", stubVerifier{}, 401},
		{"not bearer", "Basic abc", stubVerifier{}, 401},
		{"revoked", "Bearer tok", stubVerifier{err: service.ErrTokenRevoked}, 401},
		{"disabled", "Bearer tok", stubVerifier{err: service.ErrUserDisabled}, 401},
		{"broken", "Bearer tok", stubVerifier{err: errors.New("signature is invalid")}, 401},
		{"zero user", "Bearer tok", stubVerifier{claims: &service.JWTClaims{}}, 401},
		{"valid", "Bearer tok", stubVerifier{claims: &service.JWTClaims{UserID: 3, Email: "staff@florist.local", Role: "employee"}}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(JWTAuthMiddleware(tc.verifier))
			r.GET("/admin/me", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{
					"status_code": 0,
					"data":        gin.H{"email": c.GetString(contextEmailKey)},
				})
			})
			req := httptest.NewRequest(http.MethodGet, "/admin/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if code := envelopeCode(t, w); code != tc.want {
				t.Fatalf("status_code want %d got %d", tc.want, code)
			}
		})
	}
}

func TestRBACMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	enforcer := stubEnforcer{allowed: map[string]bool{"GET /admin/orders/:id": true}}
	newEngine := func(e PermissionEnforcer, userID uint) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			if userID > 0 {
				c.Set(contextUserIDKey, userID)
			}
			c.Next()
		}, RBACMiddleware(e))
		r.GET("/admin/orders/:id", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status_code": 0})
		})
		r.DELETE("/admin/orders/:id", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status_code": 0})
		})
		return r
	}

	w := httptest.NewRecorder()
	newEngine(enforcer, 5).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/orders/12", nil))
	if code := envelopeCode(t, w); code != 0 {
		t.Fatalf("route pattern should be enforced, got %d", code)
	}

	w = httptest.NewRecorder()
	newEngine(enforcer, 5).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/orders/12", nil))
	if code := envelopeCode(t, w); code != 403 {
		t.Fatalf("denied action want 403 got %d", code)
	}

	w = httptest.NewRecorder()
	newEngine(enforcer, 0).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/orders/12", nil))
	if code := envelopeCode(t, w); code != 401 {
		t.Fatalf("missing user want 401 got %d", code)
	}

	w = httptest.NewRecorder()
	newEngine(stubEnforcer{err: errors.New("adapter closed")}, 5).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/orders/12", nil))
	if code := envelopeCode(t, w); code != 401 {
		t.Fatalf("enforcer failure want 401 got %d", code)
	}
}
