package repository

import (
	"errors"

	"github.com/florist-erp/internal/models"

	"gorm.io/gorm"
)

// CustomerRepository 客户数据访问接口
type CustomerRepository interface {
	Create(customer *models.Customer) error
	Update(customer *models.Customer) error
	Delete(id uint) error
	GetByID(id uint) (*models.Customer, error)
	FindByNameAndContact(name, contact string) (*models.Customer, error)
	List(filter CustomerListFilter) ([]models.Customer, int64, error)
}

// GormCustomerRepository GORM 实现
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建客户仓库
func NewCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Create 创建客户
func (r *GormCustomerRepository) Create(customer *models.Customer) error {
	return r.db.Create(customer).Error
}

// Update 更新客户
func (r *GormCustomerRepository) Update(customer *models.Customer) error {
	return r.db.Save(customer).Error
}

// Delete 删除客户
func (r *GormCustomerRepository) Delete(id uint) error {
	return r.db.Delete(&models.Customer{}, id).Error
}

// GetByID 根据 ID 获取客户
func (r *GormCustomerRepository) GetByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// FindByNameAndContact 按姓名 + 联系方式查找（重复判定）
func (r *GormCustomerRepository) FindByNameAndContact(name, contact string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.Where("name = ? AND contact = ?", name, contact).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// List 客户列表（姓名前缀搜索）
func (r *GormCustomerRepository) List(filter CustomerListFilter) ([]models.Customer, int64, error) {
	query := r.db.Model(&models.Customer{})
	if filter.NamePrefix != "" {
		condition, count := buildLikeCondition(r.db, "name")
		query = query.Where(condition, repeatLikeArgs(prefixPattern(filter.NamePrefix), count)...)
	}
	if filter.Branch != "" {
		query = query.Where("branch = ?", filter.Branch)
	}

	var customers []models.Customer
	total, err := findPage(query, filter.Page, filter.PageSize, "name ASC, id ASC", &customers)
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}
