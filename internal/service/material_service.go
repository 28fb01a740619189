package service

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/florist-erp/internal/apperr"
	"github.com/florist-erp/internal/logger"
	"github.com/florist-erp/internal/models"
	"github.com/florist-erp/internal/repository"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
)

const (
	barcodeWidth  = 360
	barcodeHeight = 120
)

// MaterialInput 资材表单
type MaterialInput struct {
	Name         string `json:"name" validate:"required,max=200"`
	MainCategory string `json:"main_category" validate:"max=100"`
	MidCategory  string `json:"mid_category" validate:"max=100"`
	Price        int64  `json:"price" validate:"gte=0"`
	Supplier     string `json:"supplier" validate:"max=200"`
	Size         string `json:"size" validate:"max=100"`
	Color        string `json:"color" validate:"max=100"`
	Branch       string `json:"branch" validate:"max=100"`
	Stock        int    `json:"stock" validate:"gte=0"`
}

// MaterialService 资材管理
type MaterialService struct {
	repo repository.MaterialRepository
}

// NewMaterialService 创建资材服务
func NewMaterialService(repo repository.MaterialRepository) *MaterialService {
	return &MaterialService{repo: repo}
}

// List 资材列表
func (s *MaterialService) List(filter repository.MaterialListFilter) ([]models.Material, int64, error) {
	items, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, apperr.Backend("material.list", err)
	}
	return items, total, nil
}

// Get 获取资材
func (s *MaterialService) Get(id uint) (*models.Material, error) {
	material, err := s.repo.GetByID(id)
	if err != nil {
		return nil, apperr.Backend("material.get", err)
	}
	if material == nil {
		return nil, ErrNotFound
	}
	return material, nil
}

// Create 新建资材
func (s *MaterialService) Create(input MaterialInput) (*models.Material, error) {
	input = trimMaterialInput(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	material := &models.Material{}
	applyMaterialInput(material, input)
	if err := s.repo.Create(material); err != nil {
		logger.Errorw("material_create_failed", "name", input.Name, "error", err)
		return nil, apperr.Backend("material.create", err)
	}
	return material, nil
}

// Update 修改资材
func (s *MaterialService) Update(id uint, input MaterialInput) (*models.Material, error) {
	input = trimMaterialInput(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	material, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	applyMaterialInput(material, input)
	if err := s.repo.Update(material); err != nil {
		logger.Errorw("material_update_failed", "material_id", id, "error", err)
		return nil, apperr.Backend("material.update", err)
	}
	return material, nil
}

// Delete 删除资材
func (s *MaterialService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		logger.Errorw("material_delete_failed", "material_id", id, "error", err)
		return apperr.Backend("material.delete", err)
	}
	return nil
}

// BarcodeValue 资材条码内容
func BarcodeValue(material *models.Material) string {
	return fmt.Sprintf("M%06d", material.ID)
}

// Barcode 生成 Code128 条码 PNG
func (s *MaterialService) Barcode(id uint) ([]byte, string, error) {
	material, err := s.Get(id)
	if err != nil {
		return nil, "", err
	}
	value := BarcodeValue(material)
	code, err := code128.Encode(value)
	if err != nil {
		return nil, "", err
	}
	scaled, err := barcode.Scale(code, barcodeWidth, barcodeHeight)
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), value, nil
}

var materialExportHeader = []interface{}{"코드", "이름", "대분류", "중분류", "가격", "공급업체", "크기", "색상", "지점", "재고"}

// Export 导出全部资材
func (s *MaterialService) Export() (*bytes.Buffer, string, error) {
	items, err := s.repo.ListAll()
	if err != nil {
		return nil, "", apperr.Backend("material.list", err)
	}
	rows := make([][]interface{}, 0, len(items))
	for i := range items {
		m := &items[i]
		rows = append(rows, []interface{}{
			BarcodeValue(m), m.Name, m.MainCategory, m.MidCategory, m.Price,
			m.Supplier, m.Size, m.Color, m.Branch, m.Stock,
		})
	}
	buf, err := writeSheet("자재", materialExportHeader, rows)
	if err != nil {
		logger.Errorw("material_export_failed", "error", err)
		return nil, "", err
	}
	return buf, fmt.Sprintf("materials_%s.xlsx", time.Now().Format("20060102")), nil
}

func trimMaterialInput(input MaterialInput) MaterialInput {
	input.Name = strings.TrimSpace(input.Name)
	input.MainCategory = strings.TrimSpace(input.MainCategory)
	input.MidCategory = strings.TrimSpace(input.MidCategory)
	input.Supplier = strings.TrimSpace(input.Supplier)
	input.Size = strings.TrimSpace(input.Size)
	input.Color = strings.TrimSpace(input.Color)
	input.Branch = strings.TrimSpace(input.Branch)
	return input
}

func applyMaterialInput(material *models.Material, input MaterialInput) {
	material.Name = input.Name
	material.MainCategory = input.MainCategory
	material.MidCategory = input.MidCategory
	material.Price = input.Price
	material.Supplier = input.Supplier
	material.Size = input.Size
	material.Color = input.Color
	material.Branch = input.Branch
	material.Stock = input.Stock
}
