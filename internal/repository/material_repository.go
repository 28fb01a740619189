package repository

import (
	"errors"

	"github.com/florist-erp/internal/models"

	"gorm.io/gorm"
)

// MaterialRepository 资材数据访问接口
type MaterialRepository interface {
	Create(material *models.Material) error
	Update(material *models.Material) error
	Delete(id uint) error
	GetByID(id uint) (*models.Material, error)
	List(filter MaterialListFilter) ([]models.Material, int64, error)
	ListAll() ([]models.Material, error)
}

// GormMaterialRepository GORM 实现
type GormMaterialRepository struct {
	db *gorm.DB
}

// NewMaterialRepository 创建资材仓库
func NewMaterialRepository(db *gorm.DB) *GormMaterialRepository {
	return &GormMaterialRepository{db: db}
}

// Create 创建资材
func (r *GormMaterialRepository) Create(material *models.Material) error {
	return r.db.Create(material).Error
}

// Update 更新资材
func (r *GormMaterialRepository) Update(material *models.Material) error {
	return r.db.Save(material).Error
}

// Delete 删除资材
func (r *GormMaterialRepository) Delete(id uint) error {
	return r.db.Delete(&models.Material{}, id).Error
}

// GetByID 根据 ID 获取资材
func (r *GormMaterialRepository) GetByID(id uint) (*models.Material, error) {
	var material models.Material
	if err := r.db.First(&material, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &material, nil
}

// List 资材列表
func (r *GormMaterialRepository) List(filter MaterialListFilter) ([]models.Material, int64, error) {
	query := r.db.Model(&models.Material{})
	if filter.MainCategory != "" {
		query = query.Where("main_category = ?", filter.MainCategory)
	}
	if filter.Branch != "" {
		query = query.Where("branch = ?", filter.Branch)
	}
	if filter.Keyword != "" {
		condition, count := buildLikeCondition(r.db, "name", "supplier", "mid_category")
		query = query.Where(condition, repeatLikeArgs(containsPattern(filter.Keyword), count)...)
	}

	var materials []models.Material
	total, err := findPage(query, filter.Page, filter.PageSize, "id DESC", &materials)
	if err != nil {
		return nil, 0, err
	}
	return materials, total, nil
}

// ListAll 全部资材（用于导出）
func (r *GormMaterialRepository) ListAll() ([]models.Material, error) {
	var materials []models.Material
	if err := r.db.Order("main_category asc, name asc, id asc").Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}
