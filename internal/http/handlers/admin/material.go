package admin

import (
	"strings"

	"github.com/florist-erp/internal/constants"
	"github.com/florist-erp/internal/http/response"
	"github.com/florist-erp/internal/repository"
	"github.com/florist-erp/internal/service"

	"github.com/gin-gonic/gin"
)

// ListMaterials 资材列表
func (h *Handler) ListMaterials(c *gin.Context) {
	page, pageSize := pageParams(c)
	items, total, err := h.MaterialService.List(repository.MaterialListFilter{
		Page:         page,
		PageSize:     pageSize,
		MainCategory: strings.TrimSpace(c.Query("main_category")),
		Branch:       strings.TrimSpace(c.Query("branch")),
		Keyword:      strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		respondServiceError(c, err, materialErrorRules, "error.internal")
		return
	}
	response.SuccessWithPage(c, items, buildPagination(page, pageSize, total))
}

// GetMaterial 资材详情
func (h *Handler) GetMaterial(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	item, err := h.MaterialService.Get(id)
	if err != nil {
		respondServiceError(c, err, materialErrorRules, "error.internal")
		return
	}
	response.Success(c, item)
}

// CreateMaterial 新建资材
func (h *Handler) CreateMaterial(c *gin.Context) {
	var req service.MaterialInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	item, err := h.MaterialService.Create(req)
	if err != nil {
		respondServiceError(c, err, materialErrorRules, "error.save_failed")
		return
	}
	response.Success(c, item)
}

// UpdateMaterial 修改资材
func (h *Handler) UpdateMaterial(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req service.MaterialInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	item, err := h.MaterialService.Update(id, req)
	if err != nil {
		respondServiceError(c, err, materialErrorRules, "error.save_failed")
		return
	}
	response.Success(c, item)
}

// DeleteMaterial 删除资材
func (h *Handler) DeleteMaterial(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.MaterialService.Delete(id); err != nil {
		respondServiceError(c, err, materialErrorRules, "error.delete_failed")
		return
	}
	response.Success(c, nil)
}

// GetMaterialBarcode 资材条码 PNG
func (h *Handler) GetMaterialBarcode(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	png, value, err := h.MaterialService.Barcode(id)
	if err != nil {
		respondServiceError(c, err, materialErrorRules, "error.internal")
		return
	}
	response.Attachment(c, response.ContentTypePNG, value+".png", png)
}

// ExportMaterials 导出资材 Excel
func (h *Handler) ExportMaterials(c *gin.Context) {
	buf, filename, err := h.MaterialService.Export()
	if err != nil {
		respondServiceError(c, err, materialErrorRules, "error.export_failed")
		return
	}
	response.Attachment(c, constants.ExportContentTypeXLSX, filename, buf.Bytes())
}
