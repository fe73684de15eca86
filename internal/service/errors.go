package service

import (
	"errors"
	"sort"
	"strings"
)

// 通用错误
var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user disabled")
	ErrEmailExists        = errors.New("email already exists")
	ErrWeakPassword       = errors.New("weak password")
	ErrInvalidEmail       = errors.New("invalid email")
)

// 艺术家相关错误
var (
	ErrArtistProfileMissing  = errors.New("artist profile missing")
	ErrArtistProfileExists   = errors.New("artist profile already exists")
	ErrInvalidBankDetails    = errors.New("invalid bank details")
	ErrSubaccountFailed      = errors.New("failed to create subaccount")
	ErrPaystackRequestFailed = errors.New("paystack request failed")
)

// 作品相关错误
var (
	ErrUploadFailed      = errors.New("upload failed")
	ErrPreviewHashFailed = errors.New("preview hash failed")
	ErrArtworkNotFound   = errors.New("artwork not found")
)

// 订单相关错误
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid shipping status transition")
	ErrInvalidDateRange  = errors.New("invalid date range")
)

// 折扣相关错误
var (
	ErrDiscountCodeExists = errors.New("discount code already exists")
)

// 验证码相关错误
var (
	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")
)

// ValidationError 字段级校验错误，Fields 为字段名到提示信息的映射
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Is 允许 errors.Is(err, ErrValidation)
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// fieldErrors 收集字段错误
type fieldErrors map[string]string

func (f fieldErrors) add(field, message string) {
	if _, exists := f[field]; !exists {
		f[field] = message
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: map[string]string(f)}
}

// InvalidTransitionError 携带当前与目标状态的非法流转错误
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return "cannot change shipping status from " + e.From + " to " + e.To
}

// Is 允许 errors.Is(err, ErrInvalidTransition)
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
