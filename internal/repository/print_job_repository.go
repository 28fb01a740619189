package repository

import (
	"context"
	"errors"
	"time"

	"github.com/florist-erp/internal/constants"
	"github.com/florist-erp/internal/models"

	"gorm.io/gorm"
)

// PrintJobRepository 打印任务数据访问接口
type PrintJobRepository interface {
	Create(ctx context.Context, job *models.PrintJob) error
	GetByID(ctx context.Context, id uint) (*models.PrintJob, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	ListByOrder(ctx context.Context, orderID uint) ([]models.PrintJob, error)
	ListStaleQueued(ctx context.Context, before time.Time, limit int) ([]models.PrintJob, error)
}

// GormPrintJobRepository GORM 实现
type GormPrintJobRepository struct {
	db *gorm.DB
}

// NewPrintJobRepository 创建打印任务仓库
func NewPrintJobRepository(db *gorm.DB) *GormPrintJobRepository {
	return &GormPrintJobRepository{db: db}
}

// Create 创建打印任务
func (r *GormPrintJobRepository) Create(ctx context.Context, job *models.PrintJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// GetByID 根据 ID 获取打印任务
func (r *GormPrintJobRepository) GetByID(ctx context.Context, id uint) (*models.PrintJob, error) {
	var job models.PrintJob
	if err := r.db.WithContext(ctx).First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// UpdateFields 局部更新打印任务
func (r *GormPrintJobRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.PrintJob{}).Where("id = ?", id).Updates(fields).Error
}

// ListByOrder 订单下的打印任务（新到旧）
func (r *GormPrintJobRepository) ListByOrder(ctx context.Context, orderID uint) ([]models.PrintJob, error) {
	var jobs []models.PrintJob
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id desc").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// ListStaleQueued 创建时间早于 before 仍处于排队状态的任务
func (r *GormPrintJobRepository) ListStaleQueued(ctx context.Context, before time.Time, limit int) ([]models.PrintJob, error) {
	if limit <= 0 {
		limit = 100
	}
	var jobs []models.PrintJob
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", constants.PrintJobStatusQueued, before).
		Order("id asc").
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}
