package shared

import (
	"errors"

	"github.com/artmart-next/internal/http/response"
	"github.com/artmart-next/internal/i18n"
	"github.com/artmart-next/internal/logger"
	"github.com/artmart-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	locale := i18n.ResolveLocale(c)
	RespondErrorWithMsg(c, code, i18n.T(locale, key), err)
}

// RespondErrorWithMsg 返回自定义消息错误响应，并在有原始错误时记录日志。
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// MappedError 定义业务错误到接口错误响应的映射关系。
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// CommonErrorRules 各接口共享的错误映射
var CommonErrorRules = []MappedError{
	{Target: service.ErrUnauthenticated, Code: response.CodeUnauthorized, Key: "error.unauthorized"},
	{Target: service.ErrArtistProfileMissing, Code: response.CodeForbidden, Key: "error.artist_profile_missing"},
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Key: "error.forbidden"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
}

// RespondWithMappedError 按映射表返回错误，未命中时使用兜底响应并记录原始错误。
// ValidationError 与 InvalidTransitionError 携带结构化数据，优先处理。
func RespondWithMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		RespondValidationError(c, validationErr)
		return
	}
	if errors.Is(err, service.ErrInvalidTransition) {
		RespondInvalidTransition(c, err)
		return
	}
	if errors.Is(err, service.ErrWeakPassword) {
		if perr, ok := err.(interface {
			Key() string
			Args() []interface{}
		}); ok {
			msg := i18n.Sprintf(i18n.ResolveLocale(c), perr.Key(), perr.Args()...)
			RespondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
			return
		}
	}
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	for _, rule := range CommonErrorRules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

// RespondValidationError 返回字段级校验错误，字段信息位于 data.fields。
func RespondValidationError(c *gin.Context, err *service.ValidationError) {
	msg := i18n.T(i18n.ResolveLocale(c), "error.validation")
	fields := map[string]string{}
	if err != nil && err.Fields != nil {
		fields = err.Fields
	}
	response.ErrorWithData(c, response.CodeBadRequest, msg, gin.H{"fields": fields})
}

// RespondInvalidTransition 返回 {success:false,message} 结构的状态流转错误。
func RespondInvalidTransition(c *gin.Context, err error) {
	msg := i18n.T(i18n.ResolveLocale(c), "error.invalid_transition")
	var transitionErr *service.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		msg = i18n.Sprintf(i18n.ResolveLocale(c), "error.invalid_transition_detail", transitionErr.From, transitionErr.To)
	}
	RequestLog(c).Warnw("shipping_transition_rejected", "error", err)
	response.ErrorWithData(c, response.CodeConflict, msg, gin.H{
		"success": false,
		"message": msg,
	})
}
