package apperr

import (
	"errors"
	"fmt"
)

// ValidationError 输入前置校验失败（在任何 I/O 之前返回）
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validation 创建校验错误
func Validation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// BackendError 存储后端调用失败（网络、权限、配额等）
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	if e.Err == nil {
		return "backend unavailable: " + e.Op
	}
	return fmt.Sprintf("backend unavailable: %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Backend 包装后端错误，nil 透传
func Backend(op string, err error) error {
	if err == nil {
		return nil
	}
	var be *BackendError
	if errors.As(err, &be) {
		return err
	}
	return &BackendError{Op: op, Err: err}
}

// IsValidation 判断是否为校验错误
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsBackend 判断是否为后端错误
func IsBackend(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}
