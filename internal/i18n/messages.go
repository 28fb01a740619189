package i18n

var messages = map[string]map[string]string{
	LocaleKO: {
		"error.bad_request":                "요청 형식이 올바르지 않습니다",
		"error.unauthorized":               "로그인이 필요합니다",
		"error.forbidden":                  "권한이 없습니다",
		"error.not_found":                  "대상을 찾을 수 없습니다",
		"error.internal":                   "서버 오류가 발생했습니다",
		"error.too_many_requests":          "요청이 너무 많습니다. 잠시 후 다시 시도하세요",
		"error.backend_unavailable":        "데이터 저장소에 연결할 수 없습니다. 잠시 후 다시 시도하세요",
		"error.save_failed":                "저장에 실패했습니다",
		"error.export_failed":              "내보내기에 실패했습니다",
		"error.invalid_credentials":        "이메일 또는 비밀번호가 올바르지 않습니다",
		"error.token_invalid":              "유효하지 않은 토큰입니다",
		"error.token_expired":              "토큰이 만료되었습니다",
		"error.user_disabled":              "비활성화된 계정입니다",
		"error.delivery_fee_not_found":     "배송비 정보를 찾을 수 없습니다",
		"error.district_exists":            "이미 등록된 지역입니다",
		"error.district_confirm_mismatch":  "삭제 확인 지역명이 일치하지 않습니다",
		"error.merge_policy_invalid":       "지원하지 않는 중복 정리 방식입니다",
		"error.order_not_found":            "주문을 찾을 수 없습니다",
		"error.print_job_not_found":        "인쇄 작업을 찾을 수 없습니다",
		"error.print_queue_unavailable":    "인쇄 대기열을 사용할 수 없습니다",
		"error.material_not_found":         "자재를 찾을 수 없습니다",
		"error.barcode_failed":             "바코드 생성에 실패했습니다",
		"error.customer_not_found":         "고객을 찾을 수 없습니다",
		"error.customer_exists":            "이미 등록된 고객입니다",
		"error.partner_not_found":          "거래처를 찾을 수 없습니다",
		"error.partner_import_invalid":     "엑셀 파일을 읽을 수 없습니다",
		"error.user_not_found":             "사용자를 찾을 수 없습니다",
		"error.email_exists":               "이미 사용 중인 이메일입니다",
		"error.password_old_invalid":       "현재 비밀번호가 올바르지 않습니다",
		"error.password_weak":              "비밀번호가 보안 정책을 만족하지 않습니다",
		"error.password_min_length":        "비밀번호는 최소 %d자 이상이어야 합니다",
		"error.password_require_upper":     "비밀번호에 대문자를 포함해야 합니다",
		"error.password_require_lower":     "비밀번호에 소문자를 포함해야 합니다",
		"error.password_require_number":    "비밀번호에 숫자를 포함해야 합니다",
		"error.password_require_special":   "비밀번호에 특수문자를 포함해야 합니다",
		"error.settings_invalid":           "설정 값이 올바르지 않습니다",
		"error.delete_failed":              "삭제에 실패했습니다",
		"error.file_required":              "업로드할 파일을 선택하세요",
		"error.auth_header_missing":        "인증 헤더가 없습니다",
		"error.auth_header_invalid":        "인증 헤더 형식이 올바르지 않습니다",
		"error.token_revoked":              "로그인 상태가 만료되었습니다. 다시 로그인하세요",
		"error.user_id_invalid":            "사용자 정보를 확인할 수 없습니다",
		"error.user_id_type_invalid":       "사용자 정보 형식이 올바르지 않습니다",
		"error.rate_limit_unavailable":     "요청 제한 서비스를 사용할 수 없습니다",
		"error.rate_limited":               "요청이 너무 많습니다. %d초 후 다시 시도하세요",
		"error.login_too_many":             "로그인 시도가 너무 많습니다. %d초 후 다시 시도하세요",
		"error.delivery_fee_required":      "배송비를 입력하세요",
		"error.delivery_fee_merge_partial": "중복 지역 일부만 정리되었습니다. 잠시 후 다시 시도하세요",
		"error.print_job_not_ready":        "인쇄 작업이 아직 준비되지 않았습니다",
		"error.settings_fetch_failed":      "설정을 불러오지 못했습니다",
		"error.settings_save_failed":       "설정 저장에 실패했습니다",
		"error.authz_role_not_found":       "역할을 찾을 수 없습니다",
		"error.authz_policy_invalid":       "권한 정책이 올바르지 않습니다",
		"error.authz_policy_builtin":       "기본 권한은 회수할 수 없습니다",
	},
	LocaleEN: {
		"error.bad_request":                "Invalid request",
		"error.unauthorized":               "Login required",
		"error.forbidden":                  "Permission denied",
		"error.not_found":                  "Not found",
		"error.internal":                   "Internal server error",
		"error.too_many_requests":          "Too many requests, please retry later",
		"error.backend_unavailable":        "Data store unavailable, please retry later",
		"error.save_failed":                "Failed to save",
		"error.export_failed":              "Export failed",
		"error.invalid_credentials":        "Invalid email or password",
		"error.token_invalid":              "Invalid token",
		"error.token_expired":              "Token expired",
		"error.user_disabled":              "Account disabled",
		"error.delivery_fee_not_found":     "Delivery fee not found",
		"error.district_exists":            "District already registered",
		"error.district_confirm_mismatch":  "Confirmation district does not match",
		"error.merge_policy_invalid":       "Unsupported duplicate merge policy",
		"error.order_not_found":            "Order not found",
		"error.print_job_not_found":        "Print job not found",
		"error.print_queue_unavailable":    "Print queue unavailable",
		"error.material_not_found":         "Material not found",
		"error.barcode_failed":             "Failed to generate barcode",
		"error.customer_not_found":         "Customer not found",
		"error.customer_exists":            "Customer already registered",
		"error.partner_not_found":          "Partner not found",
		"error.partner_import_invalid":     "Unable to read spreadsheet",
		"error.user_not_found":             "User not found",
		"error.email_exists":               "Email already in use",
		"error.password_old_invalid":       "Current password is incorrect",
		"error.password_weak":              "Password does not meet the policy",
		"error.password_min_length":        "Password must be at least %d characters",
		"error.password_require_upper":     "Password must contain an uppercase letter",
		"error.password_require_lower":     "Password must contain a lowercase letter",
		"error.password_require_number":    "Password must contain a number",
		"error.password_require_special":   "Password must contain a special character",
		"error.settings_invalid":           "Invalid settings",
		"error.delete_failed":              "Failed to delete",
		"error.file_required":              "Please choose a file to upload",
		"error.auth_header_missing":        "Authorization header missing",
		"error.auth_header_invalid":        "Malformed authorization header",
		"error.token_revoked":              "Session expired, please sign in again",
		"error.user_id_invalid":            "Unable to resolve current user",
		"error.user_id_type_invalid":       "Current user has an unexpected type",
		"error.rate_limit_unavailable":     "Rate limiter unavailable",
		"error.rate_limited":               "Too many requests, retry in %d seconds",
		"error.login_too_many":             "Too many login attempts, retry in %d seconds",
		"error.delivery_fee_required":      "Delivery fee is required",
		"error.delivery_fee_merge_partial": "Duplicates were only partially merged, please retry later",
		"error.print_job_not_ready":        "Print job is not rendered yet",
		"error.settings_fetch_failed":      "Failed to load settings",
		"error.settings_save_failed":       "Failed to save settings",
		"error.authz_role_not_found":       "Role not found",
		"error.authz_policy_invalid":       "Invalid permission policy",
		"error.authz_policy_builtin":       "Built-in permissions cannot be revoked",
	},
}
