package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/florist-erp/internal/apperr"
	"github.com/florist-erp/internal/constants"
	"github.com/florist-erp/internal/logger"
	"github.com/florist-erp/internal/models"
)

// DuplicateGroup 同名地区分组（只读派生数据，不落库不缓存）
type DuplicateGroup struct {
	District string               `json:"district"`
	Count    int                  `json:"count"`
	Items    []models.DeliveryFee `json:"items"`
}

// DetectDuplicates 按地区名精确分组，只返回数量大于 1 的分组，分组按首次出现顺序
func DetectDuplicates(rows []models.DeliveryFee) []DuplicateGroup {
	index := make(map[string]int, len(rows))
	groups := make([]DuplicateGroup, 0)
	for _, row := range rows {
		pos, ok := index[row.District]
		if !ok {
			pos = len(groups)
			index[row.District] = pos
			groups = append(groups, DuplicateGroup{District: row.District})
		}
		groups[pos].Items = append(groups[pos].Items, row)
		groups[pos].Count++
	}

	out := make([]DuplicateGroup, 0)
	for _, group := range groups {
		if group.Count > 1 {
			out = append(out, group)
		}
	}
	return out
}

// RetainPolicy 重复合并时保留哪一条
type RetainPolicy string

// 保留策略
const (
	RetainFirst         RetainPolicy = constants.RetainPolicyFirst
	RetainLatestUpdated RetainPolicy = constants.RetainPolicyLatestUpdated
	RetainLowestFee     RetainPolicy = constants.RetainPolicyLowestFee
)

// ParseRetainPolicy 解析保留策略，空值为 first
func ParseRetainPolicy(raw string) (RetainPolicy, error) {
	switch RetainPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", RetainFirst:
		return RetainFirst, nil
	case RetainLatestUpdated:
		return RetainLatestUpdated, nil
	case RetainLowestFee:
		return RetainLowestFee, nil
	default:
		return "", apperr.Validation("policy", fmt.Sprintf("unsupported retain policy %q", raw))
	}
}

// Keep 在分组内选出保留记录的下标
func (p RetainPolicy) Keep(items []models.DeliveryFee) int {
	if len(items) == 0 {
		return -1
	}
	keep := 0
	switch p {
	case RetainLatestUpdated:
		for i := 1; i < len(items); i++ {
			if items[i].UpdatedAt.After(items[keep].UpdatedAt) {
				keep = i
			}
		}
	case RetainLowestFee:
		for i := 1; i < len(items); i++ {
			if items[i].Fee < items[keep].Fee {
				keep = i
			}
		}
	}
	return keep
}

// MergeResult 重复合并结果
type MergeResult struct {
	Policy  RetainPolicy         `json:"policy"`
	Groups  int                  `json:"groups"`
	Kept    []uint               `json:"kept"`
	Removed []uint               `json:"removed"`
	Records []models.DeliveryFee `json:"records"`
}

// MergeDuplicates 每个重复分组按策略保留一条，其余逐条删除（无事务），最后重新读取一次
func (s *DeliveryFeeService) MergeDuplicates(ctx context.Context, policy string) (*MergeResult, error) {
	retain := s.defaultRetain
	if strings.TrimSpace(policy) != "" {
		parsed, err := ParseRetainPolicy(policy)
		if err != nil {
			return nil, err
		}
		retain = parsed
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		logger.Errorw("delivery_fee_list_failed", "error", err)
		return nil, apperr.Backend("delivery_fee.list", err)
	}
	sortByDistrict(rows)

	result := &MergeResult{Policy: retain, Kept: []uint{}, Removed: []uint{}}
	groups := DetectDuplicates(rows)
	result.Groups = len(groups)
	if len(groups) == 0 {
		s.snapMu.Lock()
		s.writeSeq++
		s.snapshot = rows
		s.snapMu.Unlock()
		result.Records = cloneFees(rows)
		return result, nil
	}

	for _, group := range groups {
		keep := retain.Keep(group.Items)
		result.Kept = append(result.Kept, group.Items[keep].ID)
		for i, item := range group.Items {
			if i == keep {
				continue
			}
			if _, err := s.repo.DeleteByID(ctx, item.ID); err != nil {
				logger.Errorw("delivery_fee_merge_delete_failed",
					"district", group.District,
					"id", item.ID,
					"removed", len(result.Removed),
					"error", err,
				)
				return result, apperr.Backend("delivery_fee.delete", err)
			}
			result.Removed = append(result.Removed, item.ID)
		}
	}
	logger.Infow("delivery_fee_duplicates_merged",
		"policy", retain,
		"groups", result.Groups,
		"removed", len(result.Removed),
	)

	records, err := s.refetchLocked(ctx)
	if err != nil {
		return result, err
	}
	result.Records = records
	return result, nil
}
