package constants

// 订单状态常量
const (
	OrderStatusReceived   = "received"
	OrderStatusPreparing  = "preparing"
	OrderStatusDelivering = "delivering"
	OrderStatusCompleted  = "completed"
	OrderStatusCanceled   = "canceled"
)

// 订单收货方式常量
const (
	OrderReceiptPickup   = "pickup"
	OrderReceiptDelivery = "delivery"
)

// 打印任务状态常量
const (
	PrintJobStatusQueued   = "queued"
	PrintJobStatusRendered = "rendered"
	PrintJobStatusFailed   = "failed"
)

// 重复地区保留策略常量
const (
	RetainPolicyFirst         = "first"
	RetainPolicyLatestUpdated = "latest_updated"
	RetainPolicyLowestFee     = "lowest_fee"
)

// 用户角色常量
const (
	UserRoleAdmin    = "admin"
	UserRoleManager  = "manager"
	UserRoleEmployee = "employee"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 队列常量
const (
	QueueDefault   = "default"
	QueueCritical  = "critical"
	TaskLabelPrint = "label:print"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "florist"
)

// 设置键常量
const (
	SettingKeySystemConfig = "system_config"
	DefaultBrandName       = "florist"
)

// 配送费默认值（韩元）
const (
	DefaultDeliveryFee           int64 = 3000
	DefaultFreeDeliveryThreshold int64 = 50000
)

// 导出文件常量
const (
	ExportContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ExportSheetName       = "Sheet1"
)
