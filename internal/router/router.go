package router

import (
	"sort"
	"strings"

	"github.com/florist-erp/internal/authz"
	"github.com/florist-erp/internal/config"
	adminhandlers "github.com/florist-erp/internal/http/handlers/admin"
	"github.com/florist-erp/internal/http/response"
	"github.com/florist-erp/internal/logger"
	"github.com/florist-erp/internal/provider"

	"github.com/gin-gonic/gin"
)

const adminLoginPath = "/api/v1/admin/login"

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	adminHandler := adminhandlers.New(c)
	loginRule := RateLimitRule{
		Prefix:        "admin_login",
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	var metrics *HTTPMetrics
	if cfg.Metrics.Enabled {
		metrics = NewHTTPMetrics(cfg.Metrics.Namespace)
		r.Use(metrics.Middleware())
	}

	apiV1 := r.Group("/api/v1")
	{
		admin := apiV1.Group("/admin")
		{
			admin.POST("/login", RateLimitMiddleware(c.Cache, loginRule, KeyByIPAndJSONField("email")), adminHandler.Login)

			authorized := admin.Group("")
			authorized.Use(JWTAuthMiddleware(c.AuthService), RBACMiddleware(c.AuthzService))
			{
				authorized.GET("/me", adminHandler.GetMe)
				authorized.PUT("/password", adminHandler.ChangePassword)

				// 授权
				authorized.GET("/authz/roles", adminHandler.ListRoles)
				authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
				authorized.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
				authorized.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
				authorized.POST("/authz/policies/reload", adminHandler.ReloadAuthzPolicy)
				authorized.GET("/authz/audit-logs", adminHandler.ListAuthzAuditLogs)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})

				// 配送费
				authorized.GET("/delivery-fees", adminHandler.ListDeliveryFees)
				authorized.POST("/delivery-fees", adminHandler.CreateDeliveryFee)
				authorized.GET("/delivery-fees/duplicates", adminHandler.GetDeliveryFeeDuplicates)
				authorized.POST("/delivery-fees/merge-duplicates", adminHandler.MergeDeliveryFeeDuplicates)
				authorized.GET("/delivery-fees/quote", adminHandler.QuoteDeliveryFee)
				authorized.GET("/delivery-fees/export", adminHandler.ExportDeliveryFees)
				authorized.PATCH("/delivery-fees/:id", adminHandler.UpdateDeliveryFee)
				authorized.DELETE("/delivery-fees/:id", adminHandler.DeleteDeliveryFee)

				// 订单与留言卡
				authorized.GET("/orders", adminHandler.ListOrders)
				authorized.POST("/orders", adminHandler.CreateOrder)
				authorized.GET("/orders/:id", adminHandler.GetOrder)
				authorized.PATCH("/orders/:id", adminHandler.UpdateOrderStatus)
				authorized.PUT("/orders/:id/message", adminHandler.UpdateOrderMessage)
				authorized.POST("/orders/:id/message-print/preview", adminHandler.PreviewMessagePrint)
				authorized.POST("/orders/:id/message-print", adminHandler.SubmitMessagePrint)
				authorized.GET("/orders/:id/print-jobs", adminHandler.ListOrderPrintJobs)
				authorized.GET("/label-types", adminHandler.ListLabelTypes)
				authorized.GET("/print-jobs/:id", adminHandler.GetPrintJob)
				authorized.GET("/print-jobs/:id/sheet", adminHandler.GetPrintJobSheet)

				// 资材
				authorized.GET("/materials", adminHandler.ListMaterials)
				authorized.POST("/materials", adminHandler.CreateMaterial)
				authorized.GET("/materials/export", adminHandler.ExportMaterials)
				authorized.GET("/materials/:id", adminHandler.GetMaterial)
				authorized.PUT("/materials/:id", adminHandler.UpdateMaterial)
				authorized.DELETE("/materials/:id", adminHandler.DeleteMaterial)
				authorized.GET("/materials/:id/barcode", adminHandler.GetMaterialBarcode)

				// 客户
				authorized.GET("/customers", adminHandler.ListCustomers)
				authorized.GET("/customers/search", adminHandler.ListCustomers)
				authorized.POST("/customers", adminHandler.CreateCustomer)
				authorized.GET("/customers/:id", adminHandler.GetCustomer)
				authorized.PUT("/customers/:id", adminHandler.UpdateCustomer)
				authorized.DELETE("/customers/:id", adminHandler.DeleteCustomer)

				// 合作商
				authorized.GET("/partners", adminHandler.ListPartners)
				authorized.POST("/partners", adminHandler.CreatePartner)
				authorized.POST("/partners/import", adminHandler.ImportPartners)
				authorized.GET("/partners/template", adminHandler.GetPartnerImportTemplate)
				authorized.GET("/partners/:id", adminHandler.GetPartner)
				authorized.PUT("/partners/:id", adminHandler.UpdatePartner)
				authorized.DELETE("/partners/:id", adminHandler.DeletePartner)

				// 用户与员工
				authorized.GET("/users", adminHandler.ListUsers)
				authorized.POST("/users", adminHandler.CreateUser)
				authorized.GET("/users/:id", adminHandler.GetUser)
				authorized.PUT("/users/:id", adminHandler.UpdateUser)
				authorized.DELETE("/users/:id", adminHandler.DeleteUser)

				// 系统设置
				authorized.GET("/settings", adminHandler.GetSettings)
				authorized.PUT("/settings", adminHandler.UpdateSettings)
			}
		}
	}

	if metrics != nil {
		path := strings.TrimSpace(cfg.Metrics.Path)
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, metrics.Handler())
	}

	// 健康检查
	r.GET("/health", func(ctx *gin.Context) {
		status := gin.H{"status": "ok"}
		if c.Cache.Enabled() {
			status["redis"] = "ok"
			if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
				logger.Warnw("health_redis_ping_failed", "error", err)
				status["status"] = "degraded"
				status["redis"] = "unavailable"
			}
		}
		ctx.JSON(200, status)
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildAdminPermissionCatalog 由已注册路由生成可授权的权限目录
func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") || item.Path == adminLoginPath {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

// deriveAdminPermissionModule /admin/delivery-fees/:id -> delivery-fees
func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 || segments[0] != "admin" {
		return segments[0]
	}
	switch segments[1] {
	case "me", "password", "authz":
		return "account"
	case "label-types", "print-jobs":
		return "orders"
	}
	return segments[1]
}
