package repository

import (
	"errors"

	"github.com/florist-erp/internal/models"

	"gorm.io/gorm"
)

// PartnerRepository 合作商数据访问接口
type PartnerRepository interface {
	Create(partner *models.Partner) error
	CreateBatch(partners []models.Partner) error
	Update(partner *models.Partner) error
	Delete(id uint) error
	GetByID(id uint) (*models.Partner, error)
	ListAll() ([]models.Partner, error)
	List(filter PartnerListFilter) ([]models.Partner, int64, error)
}

// GormPartnerRepository GORM 实现
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewPartnerRepository 创建合作商仓库
func NewPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// Create 创建合作商
func (r *GormPartnerRepository) Create(partner *models.Partner) error {
	return r.db.Create(partner).Error
}

// CreateBatch 批量创建合作商
func (r *GormPartnerRepository) CreateBatch(partners []models.Partner) error {
	if len(partners) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(partners, 100).Error
	})
}

// Update 更新合作商
func (r *GormPartnerRepository) Update(partner *models.Partner) error {
	return r.db.Save(partner).Error
}

// Delete 删除合作商
func (r *GormPartnerRepository) Delete(id uint) error {
	return r.db.Delete(&models.Partner{}, id).Error
}

// GetByID 根据 ID 获取合作商
func (r *GormPartnerRepository) GetByID(id uint) (*models.Partner, error) {
	var partner models.Partner
	if err := r.db.First(&partner, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &partner, nil
}

// ListAll 全部合作商（用于批量导入查重）
func (r *GormPartnerRepository) ListAll() ([]models.Partner, error) {
	var partners []models.Partner
	if err := r.db.Order("id asc").Find(&partners).Error; err != nil {
		return nil, err
	}
	return partners, nil
}

// List 合作商列表
func (r *GormPartnerRepository) List(filter PartnerListFilter) ([]models.Partner, int64, error) {
	query := r.db.Model(&models.Partner{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Keyword != "" {
		condition, count := buildLikeCondition(r.db, "name", "contact_person", "contact")
		query = query.Where(condition, repeatLikeArgs(containsPattern(filter.Keyword), count)...)
	}

	var partners []models.Partner
	total, err := findPage(query, filter.Page, filter.PageSize, "name ASC, id ASC", &partners)
	if err != nil {
		return nil, 0, err
	}
	return partners, total, nil
}
