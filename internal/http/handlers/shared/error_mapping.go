package shared

import (
	"errors"

	"github.com/florist-erp/internal/apperr"
	"github.com/florist-erp/internal/http/response"
	"github.com/florist-erp/internal/i18n"

	"github.com/gin-gonic/gin"
)

// MappedError 业务错误到接口错误响应的映射
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// localizedError 携带 i18n key 与参数的业务错误（如密码策略）
type localizedError interface {
	Key() string
	Args() []interface{}
}

// RespondServiceError 统一处理 service 层错误：
// 校验错误直接返回字段提示，存储不可用记录日志后返回通用提示，其余按规则映射
func RespondServiceError(c *gin.Context, err error, rules []MappedError, fallbackKey string) {
	var validationErr *apperr.ValidationError
	if errors.As(err, &validationErr) {
		RespondErrorWithMsg(c, response.CodeBadRequest, validationErr.Message, nil)
		return
	}
	var localized localizedError
	if errors.As(err, &localized) {
		msg := i18n.Sprintf(i18n.ResolveLocale(c), localized.Key(), localized.Args()...)
		RespondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	if apperr.IsBackend(err) {
		RespondError(c, response.CodeServiceUnavailable, "error.backend_unavailable", err)
		return
	}
	if fallbackKey == "" {
		fallbackKey = "error.internal"
	}
	RespondError(c, response.CodeInternal, fallbackKey, err)
}
