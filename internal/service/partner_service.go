package service

import (
	"bytes"
	"io"
	"strings"

	"github.com/florist-erp/internal/apperr"
	"github.com/florist-erp/internal/logger"
	"github.com/florist-erp/internal/models"
	"github.com/florist-erp/internal/repository"

	"github.com/xuri/excelize/v2"
)

// PartnerInput 合作商表单
type PartnerInput struct {
	Name           string `json:"name" validate:"required,max=200"`
	Type           string `json:"type" validate:"required,max=50"`
	Contact        string `json:"contact" validate:"max=50"`
	ContactPerson  string `json:"contact_person" validate:"max=100"`
	Email          string `json:"email" validate:"omitempty,email,max=200"`
	Address        string `json:"address" validate:"max=500"`
	BusinessNumber string `json:"business_number" validate:"max=50"`
	Memo           string `json:"memo"`
}

// PartnerImportRowError 导入失败的行
type PartnerImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// PartnerImportSummary 批量导入结果
type PartnerImportSummary struct {
	Created    int                     `json:"created"`
	Duplicates int                     `json:"duplicates"`
	Errors     int                     `json:"errors"`
	RowErrors  []PartnerImportRowError `json:"row_errors"`
}

// partnerImportColumns 表头别名 -> 字段
var partnerImportColumns = map[string]string{
	"name": "name", "상호": "name", "거래처명": "name",
	"type": "type", "유형": "type", "구분": "type",
	"contact": "contact", "연락처": "contact",
	"contact_person": "contact_person", "contactperson": "contact_person", "담당자": "contact_person",
	"email": "email", "이메일": "email",
	"address": "address", "주소": "address",
	"business_number": "business_number", "사업자번호": "business_number",
	"memo": "memo", "메모": "memo",
}

// PartnerService 合作商管理
type PartnerService struct {
	repo repository.PartnerRepository
}

// NewPartnerService 创建合作商服务
func NewPartnerService(repo repository.PartnerRepository) *PartnerService {
	return &PartnerService{repo: repo}
}

// List 合作商列表
func (s *PartnerService) List(filter repository.PartnerListFilter) ([]models.Partner, int64, error) {
	items, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, apperr.Backend("partner.list", err)
	}
	return items, total, nil
}

// Get 获取合作商
func (s *PartnerService) Get(id uint) (*models.Partner, error) {
	partner, err := s.repo.GetByID(id)
	if err != nil {
		return nil, apperr.Backend("partner.get", err)
	}
	if partner == nil {
		return nil, ErrNotFound
	}
	return partner, nil
}

// Create 新建合作商
func (s *PartnerService) Create(input PartnerInput) (*models.Partner, error) {
	input = trimPartnerInput(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	partner := &models.Partner{}
	applyPartnerInput(partner, input)
	if err := s.repo.Create(partner); err != nil {
		logger.Errorw("partner_create_failed", "name", input.Name, "error", err)
		return nil, apperr.Backend("partner.create", err)
	}
	return partner, nil
}

// Update 修改合作商
func (s *PartnerService) Update(id uint, input PartnerInput) (*models.Partner, error) {
	input = trimPartnerInput(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	partner, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	applyPartnerInput(partner, input)
	if err := s.repo.Update(partner); err != nil {
		logger.Errorw("partner_update_failed", "partner_id", id, "error", err)
		return nil, apperr.Backend("partner.update", err)
	}
	return partner, nil
}

// Delete 删除合作商
func (s *PartnerService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		logger.Errorw("partner_delete_failed", "partner_id", id, "error", err)
		return apperr.Backend("partner.delete", err)
	}
	return nil
}

// Import 从 xlsx 第一个工作表批量导入，重复行跳过
// 重复：同名，或联系电话/联系人非空且与已有记录相同
func (s *PartnerService) Import(r io.Reader) (*PartnerImportSummary, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, ErrImportInvalid
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrImportInvalid
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil || len(rows) == 0 {
		return nil, ErrImportInvalid
	}
	columns := mapPartnerColumns(rows[0])
	if _, ok := columns["name"]; !ok {
		return nil, ErrImportInvalid
	}

	existing, err := s.repo.ListAll()
	if err != nil {
		return nil, apperr.Backend("partner.list", err)
	}
	index := newPartnerIndex(existing)

	summary := &PartnerImportSummary{RowErrors: []PartnerImportRowError{}}
	pending := make([]models.Partner, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNo := i + 2
		if isBlankRow(row) {
			continue
		}
		input := trimPartnerInput(partnerInputFromRow(row, columns))
		if err := validateInput(input); err != nil {
			summary.Errors++
			summary.RowErrors = append(summary.RowErrors, PartnerImportRowError{Row: rowNo, Message: err.Error()})
			continue
		}
		if index.duplicated(input) {
			summary.Duplicates++
			continue
		}
		var partner models.Partner
		applyPartnerInput(&partner, input)
		pending = append(pending, partner)
		index.add(input.Name, input.Contact, input.ContactPerson)
	}

	if len(pending) > 0 {
		if err := s.repo.CreateBatch(pending); err != nil {
			logger.Errorw("partner_import_failed", "rows", len(pending), "error", err)
			return nil, apperr.Backend("partner.import", err)
		}
	}
	summary.Created = len(pending)
	logger.Infow("partner_import_completed",
		"created", summary.Created,
		"duplicates", summary.Duplicates,
		"errors", summary.Errors,
	)
	return summary, nil
}

type partnerIndex struct {
	names          map[string]struct{}
	contacts       map[string]struct{}
	contactPersons map[string]struct{}
}

func newPartnerIndex(items []models.Partner) *partnerIndex {
	idx := &partnerIndex{
		names:          make(map[string]struct{}, len(items)),
		contacts:       make(map[string]struct{}, len(items)),
		contactPersons: make(map[string]struct{}, len(items)),
	}
	for _, item := range items {
		idx.add(item.Name, item.Contact, item.ContactPerson)
	}
	return idx
}

func (idx *partnerIndex) add(name, contact, contactPerson string) {
	idx.names[strings.TrimSpace(name)] = struct{}{}
	if c := strings.TrimSpace(contact); c != "" {
		idx.contacts[c] = struct{}{}
	}
	if p := strings.TrimSpace(contactPerson); p != "" {
		idx.contactPersons[p] = struct{}{}
	}
}

func (idx *partnerIndex) duplicated(input PartnerInput) bool {
	if _, ok := idx.names[input.Name]; ok {
		return true
	}
	if input.Contact != "" {
		if _, ok := idx.contacts[input.Contact]; ok {
			return true
		}
	}
	if input.ContactPerson != "" {
		if _, ok := idx.contactPersons[input.ContactPerson]; ok {
			return true
		}
	}
	return false
}

func mapPartnerColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, cell := range header {
		key := strings.ToLower(strings.TrimSpace(cell))
		if field, ok := partnerImportColumns[key]; ok {
			if _, seen := columns[field]; !seen {
				columns[field] = i
			}
		}
	}
	return columns
}

func partnerInputFromRow(row []string, columns map[string]int) PartnerInput {
	cell := func(field string) string {
		i, ok := columns[field]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}
	return PartnerInput{
		Name:           cell("name"),
		Type:           cell("type"),
		Contact:        cell("contact"),
		ContactPerson:  cell("contact_person"),
		Email:          cell("email"),
		Address:        cell("address"),
		BusinessNumber: cell("business_number"),
		Memo:           cell("memo"),
	}
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func trimPartnerInput(input PartnerInput) PartnerInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Type = strings.TrimSpace(input.Type)
	input.Contact = strings.TrimSpace(input.Contact)
	input.ContactPerson = strings.TrimSpace(input.ContactPerson)
	input.Email = strings.TrimSpace(input.Email)
	input.Address = strings.TrimSpace(input.Address)
	input.BusinessNumber = strings.TrimSpace(input.BusinessNumber)
	return input
}

func applyPartnerInput(partner *models.Partner, input PartnerInput) {
	partner.Name = input.Name
	partner.Type = input.Type
	partner.Contact = input.Contact
	partner.ContactPerson = input.ContactPerson
	partner.Email = input.Email
	partner.Address = input.Address
	partner.BusinessNumber = input.BusinessNumber
	partner.Memo = input.Memo
}

var partnerTemplateHeader = []interface{}{"상호", "유형", "연락처", "담당자", "이메일", "주소", "사업자번호", "메모"}

// ImportTemplate 导入模板
func (s *PartnerService) ImportTemplate() (*bytes.Buffer, string, error) {
	buf, err := writeSheet("거래처", partnerTemplateHeader, nil)
	if err != nil {
		return nil, "", err
	}
	return buf, "partners_template.xlsx", nil
}
