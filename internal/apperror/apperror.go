// Package apperror 定义业务错误码，handler 层据此映射 HTTP 状态码
package apperror

import (
	"errors"
	"fmt"
)

// 错误码
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeSlugTaken     = "SLUG_TAKEN"
	CodeSlugExhausted = "SLUG_EXHAUSTED"
	CodeQuotaExceeded = "IP_LIMIT_EXCEEDED"
	CodeNotFound      = "NOT_FOUND"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeInternal      = "INTERNAL_ERROR"
)

// AppError 业务错误
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，message 不参与
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && (t.Message == "" || e.Message == t.Message)
}

// New 创建业务错误
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap 包装底层错误
func Wrap(err error, code, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

var (
	ErrInvalidURL    = New(CodeValidation, "Invalid URL")
	ErrInvalidSlug   = New(CodeValidation, "Slug may only contain letters, digits, hyphen and underscore")
	ErrSlugTaken     = New(CodeSlugTaken, "Slug already exists")
	ErrSlugExhausted = New(CodeSlugExhausted, "Could not generate a unique slug")
	ErrQuotaExceeded = New(CodeQuotaExceeded, CodeQuotaExceeded)
	ErrNotFound      = New(CodeNotFound, "URL not found")
	ErrUnauthorized  = New(CodeUnauthorized, "Unauthorized")
)

// CodeOf 取出错误链上的错误码，非业务错误返回 CodeInternal
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// MessageOf 取出错误链上的业务提示
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal Server Error"
}
