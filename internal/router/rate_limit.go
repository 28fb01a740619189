package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/florist-erp/internal/cache"
	"github.com/florist-erp/internal/http/response"
	"github.com/florist-erp/internal/i18n"
	"github.com/florist-erp/internal/logger"

	"github.com/gin-gonic/gin"
)

// RateLimitKeyFunc 生成限流 key 的函数
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	BlockSeconds  int
	MessageKey    string
}

// RateLimitMiddleware Redis 频率限制中间件，缓存未启用时放行
func RateLimitMiddleware(store *cache.Store, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !store.Enabled() || rule.WindowSeconds <= 0 || rule.MaxRequests <= 0 {
			c.Next()
			return
		}

		key := ""
		if keyFunc != nil {
			key = strings.TrimSpace(keyFunc(c))
		}
		if key == "" {
			key = c.ClientIP()
		}
		counterKey := fmt.Sprintf("rate:%s:%s", rule.Prefix, key)
		blockKey := fmt.Sprintf("rate:%s:block:%s", rule.Prefix, key)
		ctx := c.Request.Context()

		var blocked bool
		hit, err := store.GetJSON(ctx, blockKey, &blocked)
		if err != nil {
			logger.Warnw("rate_limit_block_lookup_failed", "key", blockKey, "error", err)
			respondRateLimitUnavailable(c)
			return
		}
		if hit && blocked {
			ttl, _ := store.TTL(ctx, blockKey)
			respondRateLimited(c, rule, ttl)
			return
		}

		count, err := store.Incr(ctx, counterKey, time.Duration(rule.WindowSeconds)*time.Second)
		if err != nil {
			logger.Warnw("rate_limit_incr_failed", "key", counterKey, "error", err)
			respondRateLimitUnavailable(c)
			return
		}
		if count > int64(rule.MaxRequests) {
			wait := time.Duration(rule.WindowSeconds) * time.Second
			if rule.BlockSeconds > 0 {
				wait = time.Duration(rule.BlockSeconds) * time.Second
				if err := store.SetJSON(ctx, blockKey, true, wait); err != nil {
					logger.Warnw("rate_limit_block_set_failed", "key", blockKey, "error", err)
				}
				_ = store.Del(ctx, counterKey)
			} else if ttl, err := store.TTL(ctx, counterKey); err == nil && ttl > 0 {
				wait = ttl
			}
			logger.Warnw("rate_limit_exceeded", "prefix", rule.Prefix, "key", key, "count", count)
			respondRateLimited(c, rule, wait)
			return
		}

		c.Next()
	}
}

func respondRateLimitUnavailable(c *gin.Context) {
	msg := i18n.T(i18n.ResolveLocale(c), "error.rate_limit_unavailable")
	response.Error(c, response.CodeServiceUnavailable, msg)
	c.Abort()
}

func respondRateLimited(c *gin.Context, rule RateLimitRule, wait time.Duration) {
	waitSeconds := int(wait / time.Second)
	if waitSeconds < 1 {
		waitSeconds = rule.WindowSeconds
	}
	if waitSeconds < 1 {
		waitSeconds = 1
	}
	msgKey := strings.TrimSpace(rule.MessageKey)
	if msgKey == "" {
		msgKey = "error.rate_limited"
	}
	msg := i18n.Sprintf(i18n.ResolveLocale(c), msgKey, waitSeconds)
	response.Error(c, response.CodeTooManyRequests, msg)
	c.Abort()
}

// KeyByIPAndJSONField 使用 IP + JSON 字段作为限流 key
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(strings.TrimSpace(readJSONField(c, field)))
		if value == "" {
			return c.ClientIP()
		}
		return fmt.Sprintf("%s|%s", value, c.ClientIP())
	}
}

func readJSONField(c *gin.Context, field string) string {
	if c == nil || c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
	if len(body) == 0 {
		return ""
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	value, ok := payload[field]
	if !ok {
		return ""
	}
	if text, ok := value.(string); ok {
		return strings.TrimSpace(text)
	}
	return ""
}
