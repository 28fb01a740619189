package repository

import (
	"context"
	"errors"

	"github.com/florist-erp/internal/models"

	"gorm.io/gorm"
)

// DeliveryFeeRepository 地区配送费数据访问接口
type DeliveryFeeRepository interface {
	ListAll(ctx context.Context) ([]models.DeliveryFee, error)
	GetByID(ctx context.Context, id uint) (*models.DeliveryFee, error)
	FindByDistrict(ctx context.Context, district string) ([]models.DeliveryFee, error)
	Insert(ctx context.Context, district string, fee int64) (uint, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (bool, error)
	DeleteByID(ctx context.Context, id uint) (bool, error)
}

// GormDeliveryFeeRepository GORM 实现
type GormDeliveryFeeRepository struct {
	db *gorm.DB
}

// NewDeliveryFeeRepository 创建配送费仓库
func NewDeliveryFeeRepository(db *gorm.DB) *GormDeliveryFeeRepository {
	return &GormDeliveryFeeRepository{db: db}
}

// ListAll 读取全部记录（按 ID 升序，排序规则由业务层决定）
func (r *GormDeliveryFeeRepository) ListAll(ctx context.Context) ([]models.DeliveryFee, error) {
	var rows []models.DeliveryFee
	if err := r.db.WithContext(ctx).Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByID 根据 ID 获取记录
func (r *GormDeliveryFeeRepository) GetByID(ctx context.Context, id uint) (*models.DeliveryFee, error) {
	var row models.DeliveryFee
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// FindByDistrict 按地区名等值查询
func (r *GormDeliveryFeeRepository) FindByDistrict(ctx context.Context, district string) ([]models.DeliveryFee, error) {
	var rows []models.DeliveryFee
	if err := r.db.WithContext(ctx).Where("district = ?", district).Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Insert 新增记录并返回 ID
func (r *GormDeliveryFeeRepository) Insert(ctx context.Context, district string, fee int64) (uint, error) {
	row := models.DeliveryFee{District: district, Fee: fee}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

// UpdateFields 局部更新，返回记录是否存在
func (r *GormDeliveryFeeRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (bool, error) {
	if len(fields) == 0 {
		row, err := r.GetByID(ctx, id)
		return row != nil, err
	}
	result := r.db.WithContext(ctx).Model(&models.DeliveryFee{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteByID 删除记录，返回记录是否存在
func (r *GormDeliveryFeeRepository) DeleteByID(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.DeliveryFee{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
