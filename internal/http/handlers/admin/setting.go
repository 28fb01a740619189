package admin

import (
	"github.com/florist-erp/internal/http/response"
	"github.com/florist-erp/internal/service"

	"github.com/gin-gonic/gin"
)

// GetSettings 获取系统设置
func (h *Handler) GetSettings(c *gin.Context) {
	cfg, err := h.SettingService.GetSystemConfig(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, nil, "error.settings_fetch_failed")
		return
	}
	response.Success(c, cfg)
}

// UpdateSettings 保存系统设置
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req service.SystemConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	cfg, err := h.SettingService.UpdateSystemConfig(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, nil, "error.settings_save_failed")
		return
	}
	requestLog(c).Infow("system_settings_updated", "brand_name", cfg.BrandName)
	response.Success(c, cfg)
}
