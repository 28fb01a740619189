package provider

import (
	"github.com/florist-erp/internal/authz"
	"github.com/florist-erp/internal/cache"
	"github.com/florist-erp/internal/config"
	"github.com/florist-erp/internal/logger"
	"github.com/florist-erp/internal/models"
	"github.com/florist-erp/internal/queue"
	"github.com/florist-erp/internal/repository"
	"github.com/florist-erp/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	Cache       *cache.Store
	QueueClient *queue.Client

	// Repositories
	UserRepo        repository.UserRepository
	DeliveryFeeRepo repository.DeliveryFeeRepository
	OrderRepo       repository.OrderRepository
	PrintJobRepo    repository.PrintJobRepository
	MaterialRepo    repository.MaterialRepository
	CustomerRepo    repository.CustomerRepository
	PartnerRepo     repository.PartnerRepository
	SettingRepo     repository.SettingRepository
	AuditRepo       repository.AuthzAuditLogRepository

	// Services
	AuthzService       *authz.Service
	AuditService       *service.AuthzAuditService
	AuthService        *service.AuthService
	UserService        *service.UserService
	SettingService     *service.SettingService
	DeliveryFeeService *service.DeliveryFeeService
	OrderService       *service.OrderService
	PrintService       *service.PrintService
	MaterialService    *service.MaterialService
	CustomerService    *service.CustomerService
	PartnerService     *service.PartnerService
}

// NewContainer 初始化容器（使用全局数据库连接）
func NewContainer(cfg *config.Config) *Container {
	return NewContainerWithDB(cfg, models.DB)
}

// NewContainerWithDB 在指定数据库连接上初始化容器
func NewContainerWithDB(cfg *config.Config, db *gorm.DB) *Container {
	// 初始化缓存，未启用时为 nil（所有操作空转）
	store := cache.NewStore(&cfg.Redis)

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		DB:          db,
		Cache:       store,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := c.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.DeliveryFeeRepo = repository.NewDeliveryFeeRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PrintJobRepo = repository.NewPrintJobRepository(db)
	c.MaterialRepo = repository.NewMaterialRepository(db)
	c.CustomerRepo = repository.NewCustomerRepository(db)
	c.PartnerRepo = repository.NewPartnerRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
	c.AuditRepo = repository.NewAuthzAuditLogRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AuditService = service.NewAuthzAuditService(c.AuditRepo)
	c.SettingService = service.NewSettingService(c.SettingRepo, c.Cache, service.SystemDefaultsFromConfig(c.Config))
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo, c.Cache)
	c.UserService = service.NewUserService(c.UserRepo, c.AuthService, c.AuthzService)
	if _, err := c.UserService.SyncRoleBindings(); err != nil {
		logger.Errorw("provider_sync_role_bindings_failed", "error", err)
	}
	c.DeliveryFeeService = service.NewDeliveryFeeService(c.DeliveryFeeRepo, c.SettingService, service.DeliveryFeeOptions{
		RejectDuplicateDistrict: c.Config.Delivery.RejectDuplicateDistrict,
		MergePolicy:             c.Config.Delivery.MergePolicy,
	})
	c.OrderService = service.NewOrderService(c.OrderRepo, c.DeliveryFeeService)

	// 队列未启用时不注入，提交打印直接返回队列不可用
	var printQueue service.PrintJobQueue
	if c.QueueClient != nil {
		printQueue = c.QueueClient
	}
	c.PrintService = service.NewPrintService(c.OrderRepo, c.PrintJobRepo, c.SettingService, printQueue)
	c.MaterialService = service.NewMaterialService(c.MaterialRepo)
	c.CustomerService = service.NewCustomerService(c.CustomerRepo)
	c.PartnerService = service.NewPartnerService(c.PartnerRepo)
}

// Close 释放缓存与队列连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if err := c.Cache.Close(); err != nil {
		logger.Warnw("provider_close_cache_failed", "error", err)
	}
}
