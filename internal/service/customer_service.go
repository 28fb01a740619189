package service

import (
	"strings"

	"github.com/florist-erp/internal/apperr"
	"github.com/florist-erp/internal/logger"
	"github.com/florist-erp/internal/models"
	"github.com/florist-erp/internal/repository"
)

// CustomerInput 客户表单
type CustomerInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Contact string `json:"contact" validate:"required,max=50"`
	Email   string `json:"email" validate:"omitempty,email,max=200"`
	Company string `json:"company" validate:"max=200"`
	Address string `json:"address" validate:"max=500"`
	Grade   string `json:"grade" validate:"max=20"`
	Branch  string `json:"branch" validate:"max=100"`
	Memo    string `json:"memo"`
}

// CustomerService 客户管理
type CustomerService struct {
	repo repository.CustomerRepository
}

// NewCustomerService 创建客户服务
func NewCustomerService(repo repository.CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo}
}

// Search 按姓名前缀检索
func (s *CustomerService) Search(filter repository.CustomerListFilter) ([]models.Customer, int64, error) {
	filter.NamePrefix = strings.TrimSpace(filter.NamePrefix)
	items, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, apperr.Backend("customer.list", err)
	}
	return items, total, nil
}

// Get 获取客户
func (s *CustomerService) Get(id uint) (*models.Customer, error) {
	customer, err := s.repo.GetByID(id)
	if err != nil {
		return nil, apperr.Backend("customer.get", err)
	}
	if customer == nil {
		return nil, ErrNotFound
	}
	return customer, nil
}

// Create 新建客户，同名且同联系方式视为重复
func (s *CustomerService) Create(input CustomerInput) (*models.Customer, error) {
	input = trimCustomerInput(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(0, input.Name, input.Contact); err != nil {
		return nil, err
	}
	customer := &models.Customer{}
	applyCustomerInput(customer, input)
	if err := s.repo.Create(customer); err != nil {
		logger.Errorw("customer_create_failed", "name", input.Name, "error", err)
		return nil, apperr.Backend("customer.create", err)
	}
	return customer, nil
}

// Update 修改客户
func (s *CustomerService) Update(id uint, input CustomerInput) (*models.Customer, error) {
	input = trimCustomerInput(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	customer, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnique(id, input.Name, input.Contact); err != nil {
		return nil, err
	}
	applyCustomerInput(customer, input)
	if err := s.repo.Update(customer); err != nil {
		logger.Errorw("customer_update_failed", "customer_id", id, "error", err)
		return nil, apperr.Backend("customer.update", err)
	}
	return customer, nil
}

// Delete 删除客户
func (s *CustomerService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		logger.Errorw("customer_delete_failed", "customer_id", id, "error", err)
		return apperr.Backend("customer.delete", err)
	}
	return nil
}

func (s *CustomerService) ensureUnique(selfID uint, name, contact string) error {
	existing, err := s.repo.FindByNameAndContact(name, contact)
	if err != nil {
		return apperr.Backend("customer.find", err)
	}
	if existing != nil && existing.ID != selfID {
		return ErrCustomerExists
	}
	return nil
}

func trimCustomerInput(input CustomerInput) CustomerInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Contact = strings.TrimSpace(input.Contact)
	input.Email = strings.TrimSpace(input.Email)
	input.Company = strings.TrimSpace(input.Company)
	input.Address = strings.TrimSpace(input.Address)
	input.Grade = strings.TrimSpace(input.Grade)
	input.Branch = strings.TrimSpace(input.Branch)
	return input
}

func applyCustomerInput(customer *models.Customer, input CustomerInput) {
	customer.Name = input.Name
	customer.Contact = input.Contact
	customer.Email = input.Email
	customer.Company = input.Company
	customer.Address = input.Address
	customer.Grade = input.Grade
	customer.Branch = input.Branch
	customer.Memo = input.Memo
}
