package repository

import "time"

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	Status      string
	Branch      string
	District    string
	Keyword     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// MaterialListFilter 查询资材列表的过滤条件
type MaterialListFilter struct {
	Page         int
	PageSize     int
	MainCategory string
	Branch       string
	Keyword      string
}

// CustomerListFilter 查询客户列表的过滤条件
type CustomerListFilter struct {
	Page       int
	PageSize   int
	NamePrefix string
	Branch     string
}

// PartnerListFilter 查询合作商列表的过滤条件
type PartnerListFilter struct {
	Page     int
	PageSize int
	Type     string
	Keyword  string
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page      int
	PageSize  int
	Role      string
	Franchise string
	Keyword   string
}

// AuthzAuditLogListFilter 查询角色变更审计的过滤条件
type AuthzAuditLogListFilter struct {
	Page         int
	PageSize     int
	OperatorID   uint
	TargetUserID uint
	Action       string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
}
