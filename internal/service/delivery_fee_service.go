package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/florist-erp/internal/apperr"
	"github.com/florist-erp/internal/logger"
	"github.com/florist-erp/internal/models"
	"github.com/florist-erp/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DeliveryPolicy 订单配送费规则（默认费用与包邮门槛）
type DeliveryPolicy struct {
	DefaultFee    int64 `json:"default_fee"`
	FreeThreshold int64 `json:"free_threshold"`
}

// DeliveryPolicySource 配送费规则来源（系统设置）
type DeliveryPolicySource interface {
	DeliveryPolicy(ctx context.Context) (DeliveryPolicy, error)
}

// DeliveryFeeOptions 配送费登记选项
type DeliveryFeeOptions struct {
	RejectDuplicateDistrict bool
	MergePolicy             string
}

// DeliveryFeeService 地区配送费登记服务
// 写操作与随后的重新读取在实例内串行，快照只保存最近一次确认写入之后读到的列表
type DeliveryFeeService struct {
	repo             repository.DeliveryFeeRepository
	policy           DeliveryPolicySource
	rejectDuplicates bool
	defaultRetain    RetainPolicy

	writeMu sync.Mutex

	snapMu   sync.RWMutex
	snapshot []models.DeliveryFee
	writeSeq uint64
}

// NewDeliveryFeeService 创建配送费服务
func NewDeliveryFeeService(repo repository.DeliveryFeeRepository, policy DeliveryPolicySource, opts DeliveryFeeOptions) *DeliveryFeeService {
	retain, err := ParseRetainPolicy(opts.MergePolicy)
	if err != nil {
		logger.Warnw("delivery_fee_merge_policy_invalid", "policy", opts.MergePolicy, "fallback", RetainFirst)
		retain = RetainFirst
	}
	return &DeliveryFeeService{
		repo:             repo,
		policy:           policy,
		rejectDuplicates: opts.RejectDuplicateDistrict,
		defaultRetain:    retain,
	}
}

// List 读取全部记录并按韩文排序，结果整体替换快照
func (s *DeliveryFeeService) List(ctx context.Context) ([]models.DeliveryFee, error) {
	s.snapMu.RLock()
	seq := s.writeSeq
	s.snapMu.RUnlock()

	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		logger.Errorw("delivery_fee_list_failed", "error", err)
		return nil, apperr.Backend("delivery_fee.list", err)
	}
	sortByDistrict(rows)

	s.snapMu.Lock()
	// 读取期间若有写入确认，以写入后的重新读取为准
	if s.writeSeq == seq {
		s.snapshot = rows
	}
	s.snapMu.Unlock()
	return cloneFees(rows), nil
}

// Snapshot 最近一次确认的列表（副本）
func (s *DeliveryFeeService) Snapshot() []models.DeliveryFee {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return cloneFees(s.snapshot)
}

// UpdateFee 修改配送费，成功后重新读取
func (s *DeliveryFeeService) UpdateFee(ctx context.Context, id uint, fee int64) ([]models.DeliveryFee, error) {
	if fee < 0 {
		return nil, apperr.Validation("fee", "fee must be zero or greater")
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	found, err := s.repo.UpdateFields(ctx, id, map[string]interface{}{"fee": fee})
	if err != nil {
		logger.Errorw("delivery_fee_update_failed", "id", id, "fee", fee, "error", err)
		return nil, apperr.Backend("delivery_fee.update", err)
	}
	if !found {
		return nil, ErrNotFound
	}
	logger.Infow("delivery_fee_updated", "id", id, "fee", fee)
	return s.refetchLocked(ctx)
}

// AddDistrict 新增地区，默认不做重复校验（由重复合并处理）
func (s *DeliveryFeeService) AddDistrict(ctx context.Context, district string, fee int64) (uint, []models.DeliveryFee, error) {
	district = strings.TrimSpace(district)
	if district == "" {
		return 0, nil, apperr.Validation("district", "district is required")
	}
	if fee < 0 {
		return 0, nil, apperr.Validation("fee", "fee must be zero or greater")
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.rejectDuplicates {
		existing, err := s.repo.FindByDistrict(ctx, district)
		if err != nil {
			logger.Errorw("delivery_fee_find_failed", "district", district, "error", err)
			return 0, nil, apperr.Backend("delivery_fee.find", err)
		}
		if len(existing) > 0 {
			return 0, nil, ErrDistrictExists
		}
	}

	id, err := s.repo.Insert(ctx, district, fee)
	if err != nil {
		logger.Errorw("delivery_fee_insert_failed", "district", district, "error", err)
		return 0, nil, apperr.Backend("delivery_fee.insert", err)
	}
	logger.Infow("delivery_fee_added", "id", id, "district", district, "fee", fee)
	rows, err := s.refetchLocked(ctx)
	if err != nil {
		return id, nil, err
	}
	return id, rows, nil
}

// DeleteDistrict 删除记录，调用方需回传地区名确认
func (s *DeliveryFeeService) DeleteDistrict(ctx context.Context, id uint, confirmDistrict string) ([]models.DeliveryFee, error) {
	confirmDistrict = strings.TrimSpace(confirmDistrict)
	if confirmDistrict == "" {
		return nil, apperr.Validation("confirm_district", "district confirmation is required")
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logger.Errorw("delivery_fee_get_failed", "id", id, "error", err)
		return nil, apperr.Backend("delivery_fee.get", err)
	}
	if row == nil {
		return nil, ErrNotFound
	}
	if row.District != confirmDistrict {
		return nil, apperr.Validation("confirm_district", "district confirmation does not match")
	}

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		logger.Errorw("delivery_fee_delete_failed", "id", id, "error", err)
		return nil, apperr.Backend("delivery_fee.delete", err)
	}
	if !deleted {
		return nil, ErrNotFound
	}
	logger.Infow("delivery_fee_deleted", "id", id, "district", row.District)
	return s.refetchLocked(ctx)
}

// QuoteFee 订单配送费：登记地区取登记费用，否则取默认费用，满额包邮
func (s *DeliveryFeeService) QuoteFee(ctx context.Context, district string, subtotal int64) (FeeQuote, error) {
	if subtotal < 0 {
		return FeeQuote{}, apperr.Validation("subtotal", "subtotal must be zero or greater")
	}
	policy := DeliveryPolicy{}
	if s.policy != nil {
		p, err := s.policy.DeliveryPolicy(ctx)
		if err != nil {
			return FeeQuote{}, err
		}
		policy = p
	}

	quote := FeeQuote{District: strings.TrimSpace(district), Subtotal: subtotal, Fee: policy.DefaultFee, Source: FeeSourceDefault}
	if quote.District != "" {
		rows, err := s.repo.FindByDistrict(ctx, quote.District)
		if err != nil {
			logger.Errorw("delivery_fee_find_failed", "district", quote.District, "error", err)
			return FeeQuote{}, apperr.Backend("delivery_fee.find", err)
		}
		if len(rows) > 0 {
			quote.Fee = rows[0].Fee
			quote.Source = FeeSourceRegistry
			quote.Duplicated = len(rows) > 1
		}
	}
	if policy.FreeThreshold > 0 && subtotal >= policy.FreeThreshold {
		quote.Fee = 0
		quote.Source = FeeSourceFreeThreshold
	}
	return quote, nil
}

// 报价来源
const (
	FeeSourceRegistry      = "registry"
	FeeSourceDefault       = "default"
	FeeSourceFreeThreshold = "free_threshold"
)

// FeeQuote 配送费报价
type FeeQuote struct {
	District   string `json:"district"`
	Subtotal   int64  `json:"subtotal"`
	Fee        int64  `json:"fee"`
	Source     string `json:"source"`
	Duplicated bool   `json:"duplicated"`
}

// FeeStats 列表统计
type FeeStats struct {
	RecordCount        int   `json:"record_count"`
	AverageFee         int64 `json:"average_fee"`
	DuplicateDistricts int   `json:"duplicate_districts"`
	DuplicateItems     int   `json:"duplicate_items"`
}

// Stats 统计记录数、平均费用（四舍五入到韩元）与重复情况
func Stats(rows []models.DeliveryFee) FeeStats {
	stats := FeeStats{RecordCount: len(rows)}
	if len(rows) == 0 {
		return stats
	}
	sum := decimal.Zero
	for _, row := range rows {
		sum = sum.Add(decimal.NewFromInt(row.Fee))
	}
	stats.AverageFee = sum.Div(decimal.NewFromInt(int64(len(rows)))).Round(0).IntPart()
	for _, group := range DetectDuplicates(rows) {
		stats.DuplicateDistricts++
		stats.DuplicateItems += group.Count
	}
	return stats
}

// refetchLocked 写入确认后重新读取，调用方需持有 writeMu
func (s *DeliveryFeeService) refetchLocked(ctx context.Context) ([]models.DeliveryFee, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		logger.Errorw("delivery_fee_refetch_failed", "error", err)
		s.snapMu.Lock()
		s.writeSeq++
		s.snapMu.Unlock()
		return nil, apperr.Backend("delivery_fee.list", err)
	}
	sortByDistrict(rows)

	s.snapMu.Lock()
	s.writeSeq++
	s.snapshot = rows
	s.snapMu.Unlock()
	return cloneFees(rows), nil
}

// sortByDistrict 按韩文排序规则升序，同名按 ID
func sortByDistrict(rows []models.DeliveryFee) {
	col := collate.New(language.Korean)
	sort.SliceStable(rows, func(i, j int) bool {
		if c := col.CompareString(rows[i].District, rows[j].District); c != 0 {
			return c < 0
		}
		return rows[i].ID < rows[j].ID
	})
}

func cloneFees(rows []models.DeliveryFee) []models.DeliveryFee {
	if rows == nil {
		return []models.DeliveryFee{}
	}
	out := make([]models.DeliveryFee, len(rows))
	copy(out, rows)
	return out
}
