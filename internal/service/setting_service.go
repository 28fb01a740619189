package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/florist-erp/internal/apperr"
	"github.com/florist-erp/internal/cache"
	"github.com/florist-erp/internal/config"
	"github.com/florist-erp/internal/constants"
	"github.com/florist-erp/internal/label"
	"github.com/florist-erp/internal/logger"
	"github.com/florist-erp/internal/models"
	"github.com/florist-erp/internal/repository"
)

// SystemConfig 系统设置文档
type SystemConfig struct {
	BrandName             string   `json:"brand_name" validate:"max=100"`
	DefaultDeliveryFee    int64    `json:"default_delivery_fee" validate:"gte=0"`
	FreeDeliveryThreshold int64    `json:"free_delivery_threshold" validate:"gte=0"`
	DefaultLabelType      string   `json:"default_label_type"`
	MessageFont           string   `json:"message_font"`
	MessageFontSize       int      `json:"message_font_size" validate:"gte=0"`
	SenderFont            string   `json:"sender_font"`
	SenderFontSize        int      `json:"sender_font_size" validate:"gte=0"`
	AvailableFonts        []string `json:"available_fonts"`
}

// SettingService 设置业务服务
type SettingService struct {
	repo     repository.SettingRepository
	cache    *cache.Store
	defaults SystemConfig
}

// NewSettingService 创建设置服务
func NewSettingService(repo repository.SettingRepository, store *cache.Store, defaults SystemConfig) *SettingService {
	return &SettingService{repo: repo, cache: store, defaults: normalizeSystemConfig(defaults, SystemConfig{})}
}

// SystemDefaultsFromConfig 由配置文件生成系统设置默认值
func SystemDefaultsFromConfig(cfg *config.Config) SystemConfig {
	if cfg == nil {
		return SystemConfig{}
	}
	return SystemConfig{
		BrandName:             constants.DefaultBrandName,
		DefaultDeliveryFee:    cfg.Delivery.DefaultFee,
		FreeDeliveryThreshold: cfg.Delivery.FreeThreshold,
		DefaultLabelType:      cfg.Label.DefaultType,
		MessageFont:           cfg.Label.MessageFont,
		MessageFontSize:       cfg.Label.MessageFontSize,
		SenderFont:            cfg.Label.SenderFont,
		SenderFontSize:        cfg.Label.SenderFontSize,
		AvailableFonts:        append([]string(nil), cfg.Label.AvailableFonts...),
	}
}

// Defaults 配置文件给出的默认设置
func (s *SettingService) Defaults() SystemConfig {
	return s.defaults
}

// GetSystemConfig 获取系统设置（合并默认值）
func (s *SettingService) GetSystemConfig(ctx context.Context) (SystemConfig, error) {
	var cached SystemConfig
	if hit, err := s.cache.GetSetting(ctx, constants.SettingKeySystemConfig, &cached); err != nil {
		logger.Warnw("setting_cache_get_failed", "key", constants.SettingKeySystemConfig, "error", err)
	} else if hit {
		return cached, nil
	}

	setting, err := s.repo.GetByKey(constants.SettingKeySystemConfig)
	if err != nil {
		logger.Errorw("setting_get_failed", "key", constants.SettingKeySystemConfig, "error", err)
		return SystemConfig{}, apperr.Backend("setting.get", err)
	}
	cfg := s.defaults
	if setting != nil {
		var stored SystemConfig
		if err := decodeSettingValue(setting.ValueJSON, &stored); err != nil {
			logger.Warnw("setting_decode_failed", "key", constants.SettingKeySystemConfig, "error", err)
		} else {
			cfg = normalizeSystemConfig(stored, s.defaults)
		}
	}
	if err := s.cache.SetSetting(ctx, constants.SettingKeySystemConfig, cfg); err != nil {
		logger.Warnw("setting_cache_set_failed", "key", constants.SettingKeySystemConfig, "error", err)
	}
	return cfg, nil
}

// UpdateSystemConfig 保存系统设置
func (s *SettingService) UpdateSystemConfig(ctx context.Context, input SystemConfig) (SystemConfig, error) {
	if err := validateInput(input); err != nil {
		return SystemConfig{}, err
	}
	cfg := normalizeSystemConfig(input, s.defaults)
	if _, ok := label.Lookup(cfg.DefaultLabelType); !ok {
		return SystemConfig{}, apperr.Validation("default_label_type", "unknown label type")
	}
	if !containsFont(cfg.AvailableFonts, cfg.MessageFont) {
		return SystemConfig{}, apperr.Validation("message_font", "message font is not in available fonts")
	}
	if !containsFont(cfg.AvailableFonts, cfg.SenderFont) {
		return SystemConfig{}, apperr.Validation("sender_font", "sender font is not in available fonts")
	}

	value, err := encodeJSONMap(cfg)
	if err != nil {
		return SystemConfig{}, err
	}
	if _, err := s.repo.Upsert(constants.SettingKeySystemConfig, value); err != nil {
		logger.Errorw("setting_upsert_failed", "key", constants.SettingKeySystemConfig, "error", err)
		return SystemConfig{}, apperr.Backend("setting.upsert", err)
	}
	if err := s.cache.DelSetting(ctx, constants.SettingKeySystemConfig); err != nil {
		logger.Warnw("setting_cache_del_failed", "key", constants.SettingKeySystemConfig, "error", err)
	}
	logger.Infow("setting_system_config_updated", "brand_name", cfg.BrandName)
	return cfg, nil
}

// DeliveryPolicy 订单配送费规则
func (s *SettingService) DeliveryPolicy(ctx context.Context) (DeliveryPolicy, error) {
	cfg, err := s.GetSystemConfig(ctx)
	if err != nil {
		return DeliveryPolicy{}, err
	}
	return DeliveryPolicy{DefaultFee: cfg.DefaultDeliveryFee, FreeThreshold: cfg.FreeDeliveryThreshold}, nil
}

// LabelOptions 留言卡排版引擎参数
func (s *SettingService) LabelOptions(ctx context.Context) (label.Options, error) {
	cfg, err := s.GetSystemConfig(ctx)
	if err != nil {
		return label.Options{}, err
	}
	return label.Options{
		AvailableFonts:     cfg.AvailableFonts,
		MessageFont:        cfg.MessageFont,
		MessageFontSize:    cfg.MessageFontSize,
		SenderFont:         cfg.SenderFont,
		SenderFontSize:     cfg.SenderFontSize,
		DefaultLabelTypeID: cfg.DefaultLabelType,
	}, nil
}

// normalizeSystemConfig 空字段回落到 fallback，再回落到内置默认值
func normalizeSystemConfig(cfg SystemConfig, fallback SystemConfig) SystemConfig {
	cfg.BrandName = strings.TrimSpace(cfg.BrandName)
	if cfg.BrandName == "" {
		cfg.BrandName = fallback.BrandName
	}
	if cfg.DefaultDeliveryFee < 0 {
		cfg.DefaultDeliveryFee = fallback.DefaultDeliveryFee
	}
	if cfg.FreeDeliveryThreshold < 0 {
		cfg.FreeDeliveryThreshold = fallback.FreeDeliveryThreshold
	}

	fonts := make([]string, 0, len(cfg.AvailableFonts))
	seen := make(map[string]struct{}, len(cfg.AvailableFonts))
	for _, font := range cfg.AvailableFonts {
		font = strings.TrimSpace(font)
		if font == "" {
			continue
		}
		if _, ok := seen[font]; ok {
			continue
		}
		seen[font] = struct{}{}
		fonts = append(fonts, font)
	}
	if len(fonts) == 0 {
		fonts = append(fonts, fallback.AvailableFonts...)
	}
	if len(fonts) == 0 {
		fonts = append(fonts, label.DefaultFonts...)
	}
	cfg.AvailableFonts = fonts

	cfg.DefaultLabelType = strings.TrimSpace(cfg.DefaultLabelType)
	if cfg.DefaultLabelType == "" {
		cfg.DefaultLabelType = fallback.DefaultLabelType
	}
	if cfg.DefaultLabelType == "" {
		cfg.DefaultLabelType = label.DefaultGeometry().ID
	}
	cfg.MessageFont = pickFont(cfg.MessageFont, fallback.MessageFont, fonts)
	cfg.SenderFont = pickFont(cfg.SenderFont, fallback.SenderFont, fonts)
	if cfg.MessageFontSize <= 0 {
		cfg.MessageFontSize = positiveOr(fallback.MessageFontSize, label.DefaultMessageFontSize)
	}
	if cfg.SenderFontSize <= 0 {
		cfg.SenderFontSize = positiveOr(fallback.SenderFontSize, label.DefaultSenderFontSize)
	}
	return cfg
}

func pickFont(value, fallback string, fonts []string) string {
	value = strings.TrimSpace(value)
	if value != "" {
		return value
	}
	if containsFont(fonts, fallback) {
		return fallback
	}
	return fonts[0]
}

func containsFont(fonts []string, font string) bool {
	for _, f := range fonts {
		if f == font {
			return true
		}
	}
	return false
}

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}

func encodeJSONMap(value interface{}) (models.JSON, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	out := models.JSON{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeSettingValue(value models.JSON, dest interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
