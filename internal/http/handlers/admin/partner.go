package admin

import (
	"strings"

	"github.com/florist-erp/internal/constants"
	"github.com/florist-erp/internal/http/response"
	"github.com/florist-erp/internal/repository"
	"github.com/florist-erp/internal/service"

	"github.com/gin-gonic/gin"
)

// ListPartners 合作商列表
func (h *Handler) ListPartners(c *gin.Context) {
	page, pageSize := pageParams(c)
	items, total, err := h.PartnerService.List(repository.PartnerListFilter{
		Page:     page,
		PageSize: pageSize,
		Type:     strings.TrimSpace(c.Query("type")),
		Keyword:  strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		respondServiceError(c, err, partnerErrorRules, "error.internal")
		return
	}
	response.SuccessWithPage(c, items, buildPagination(page, pageSize, total))
}

// GetPartner 合作商详情
func (h *Handler) GetPartner(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	item, err := h.PartnerService.Get(id)
	if err != nil {
		respondServiceError(c, err, partnerErrorRules, "error.internal")
		return
	}
	response.Success(c, item)
}

// CreatePartner 新建合作商
func (h *Handler) CreatePartner(c *gin.Context) {
	var req service.PartnerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	item, err := h.PartnerService.Create(req)
	if err != nil {
		respondServiceError(c, err, partnerErrorRules, "error.save_failed")
		return
	}
	response.Success(c, item)
}

// UpdatePartner 修改合作商
func (h *Handler) UpdatePartner(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.PartnerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	item, err := h.PartnerService.Update(id, req)
	if err != nil {
		respondServiceError(c, err, partnerErrorRules, "error.save_failed")
		return
	}
	response.Success(c, item)
}

// DeletePartner 删除合作商
func (h *Handler) DeletePartner(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.PartnerService.Delete(id); err != nil {
		respondServiceError(c, err, partnerErrorRules, "error.delete_failed")
		return
	}
	response.Success(c, nil)
}

// ImportPartners 上传 Excel 批量导入合作商
func (h *Handler) ImportPartners(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.file_required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.file_required", err)
		return
	}
	defer file.Close()

	summary, err := h.PartnerService.Import(file)
	if err != nil {
		respondServiceError(c, err, partnerErrorRules, "error.save_failed")
		return
	}
	requestLog(c).Infow("partner_import_done",
		"filename", fileHeader.Filename,
		"created", summary.Created,
		"duplicates", summary.Duplicates,
		"errors", summary.Errors,
	)
	response.Success(c, summary)
}

// GetPartnerImportTemplate 下载导入模板
func (h *Handler) GetPartnerImportTemplate(c *gin.Context) {
	buf, filename, err := h.PartnerService.ImportTemplate()
	if err != nil {
		respondServiceError(c, err, partnerErrorRules, "error.export_failed")
		return
	}
	response.Attachment(c, constants.ExportContentTypeXLSX, filename, buf.Bytes())
}
