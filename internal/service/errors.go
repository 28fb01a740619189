package service

import "errors"

// 业务错误定义
var (
	ErrNotFound              = errors.New("资源不存在")
	ErrDistrictExists        = errors.New("地区已存在")
	ErrEmailExists           = errors.New("邮箱已被使用")
	ErrCustomerExists        = errors.New("客户已存在")
	ErrInvalidCredentials    = errors.New("邮箱或密码错误")
	ErrInvalidPassword       = errors.New("原密码错误")
	ErrWeakPassword          = errors.New("密码不符合安全策略")
	ErrUserDisabled          = errors.New("账号已停用")
	ErrTokenRevoked          = errors.New("登录状态已失效")
	ErrPrintQueueUnavailable = errors.New("打印队列不可用")
	ErrPrintJobNotReady      = errors.New("打印任务尚未渲染完成")
	ErrImportInvalid         = errors.New("导入文件无法解析")
)
