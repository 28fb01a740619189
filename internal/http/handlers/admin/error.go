package admin

import (
	"github.com/florist-erp/internal/authz"
	handlershared "github.com/florist-erp/internal/http/handlers/shared"
	"github.com/florist-erp/internal/http/response"
	"github.com/florist-erp/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondServiceError(c *gin.Context, err error, rules []handlershared.MappedError, fallbackKey string) {
	handlershared.RespondServiceError(c, err, rules, fallbackKey)
}

func notFoundRule(key string) handlershared.MappedError {
	return handlershared.MappedError{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: key}
}

var deliveryFeeErrorRules = []handlershared.MappedError{
	notFoundRule("error.delivery_fee_not_found"),
	{Target: service.ErrDistrictExists, Code: response.CodeConflict, Key: "error.district_exists"},
}

var orderErrorRules = []handlershared.MappedError{
	notFoundRule("error.order_not_found"),
}

var printErrorRules = []handlershared.MappedError{
	notFoundRule("error.order_not_found"),
	{Target: service.ErrPrintQueueUnavailable, Code: response.CodeServiceUnavailable, Key: "error.print_queue_unavailable"},
}

var printJobErrorRules = []handlershared.MappedError{
	notFoundRule("error.print_job_not_found"),
	{Target: service.ErrPrintJobNotReady, Code: response.CodeConflict, Key: "error.print_job_not_ready"},
}

var materialErrorRules = []handlershared.MappedError{
	notFoundRule("error.material_not_found"),
}

var customerErrorRules = []handlershared.MappedError{
	notFoundRule("error.customer_not_found"),
	{Target: service.ErrCustomerExists, Code: response.CodeConflict, Key: "error.customer_exists"},
}

var partnerErrorRules = []handlershared.MappedError{
	notFoundRule("error.partner_not_found"),
	{Target: service.ErrImportInvalid, Code: response.CodeBadRequest, Key: "error.partner_import_invalid"},
}

var userErrorRules = []handlershared.MappedError{
	notFoundRule("error.user_not_found"),
	{Target: service.ErrEmailExists, Code: response.CodeConflict, Key: "error.email_exists"},
	{Target: service.ErrWeakPassword, Code: response.CodeBadRequest, Key: "error.password_weak"},
}

var authErrorRules = []handlershared.MappedError{
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.invalid_credentials"},
	{Target: service.ErrUserDisabled, Code: response.CodeUnauthorized, Key: "error.user_disabled"},
	{Target: service.ErrInvalidPassword, Code: response.CodeBadRequest, Key: "error.password_old_invalid"},
	{Target: service.ErrWeakPassword, Code: response.CodeBadRequest, Key: "error.password_weak"},
	notFoundRule("error.user_not_found"),
}

var authzErrorRules = []handlershared.MappedError{
	{Target: authz.ErrRoleNotFound, Code: response.CodeNotFound, Key: "error.authz_role_not_found"},
	{Target: authz.ErrInvalidPolicy, Code: response.CodeBadRequest, Key: "error.authz_policy_invalid"},
	{Target: authz.ErrBuiltinPolicy, Code: response.CodeConflict, Key: "error.authz_policy_builtin"},
}
