package router

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/artmart-next/internal/authz"
	"github.com/artmart-next/internal/config"
	"github.com/artmart-next/internal/constants"
	"github.com/artmart-next/internal/http/handlers/shared"
	"github.com/artmart-next/internal/http/response"
	"github.com/artmart-next/internal/i18n"
	"github.com/artmart-next/internal/logger"
	"github.com/artmart-next/internal/metrics"
	"github.com/artmart-next/internal/models"
	"github.com/artmart-next/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

// SessionResolver 会话解析
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*service.SessionIdentity, error)
}

// ArtistResolver 艺术家身份解析，未创建资料时返回 nil
type ArtistResolver interface {
	ResolveArtist(userID uint) (*models.Artist, error)
}

// PolicyEnforcer 用户级 RBAC 判定
type PolicyEnforcer interface {
	EnforceUser(userID uint, obj, act string) (bool, error)
}

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	return cors.New(buildCORSConfig(cfg))
}

func buildCORSConfig(cfg config.CORSConfig) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     cfg.AllowedHeaders,
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           time.Duration(cfg.MaxAge) * time.Second,
	}
	if len(corsCfg.AllowMethods) == 0 {
		corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	if len(corsCfg.AllowHeaders) == 0 {
		corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", requestIDHeader}
	}

	origins := make([]string, 0, len(cfg.AllowedOrigins))
	wildcard := len(cfg.AllowedOrigins) == 0
	for _, origin := range cfg.AllowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			wildcard = true
			continue
		}
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	switch {
	case wildcard && cfg.AllowCredentials:
		// 携带凭证时不能返回 *，回显请求来源
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	case wildcard:
		corsCfg.AllowAllOrigins = true
	default:
		corsCfg.AllowOrigins = origins
	}
	return corsCfg
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.L()
	}
	sugar := log.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if userID, ok := shared.CurrentUserID(c); ok {
			entry = entry.With("user_id", userID)
		}
		if len(c.Errors) > 0 {
			entry.Errorw("request", "errors", c.Errors.String())
			return
		}
		entry.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// guard 访问守卫的拒绝处理
// 浏览器请求（Accept: text/html）以 303 跳转，API 请求返回带真实状态码的 JSON
type guard struct {
	web     config.WebConfig
	toaster *shared.Toaster
}

func newGuard(web config.WebConfig) *guard {
	return &guard{web: web, toaster: shared.NewToaster(web)}
}

func (g *guard) reject(c *gin.Context, name, reason, redirectPath string, httpStatus int, key string) {
	metrics.GuardRejectionsTotal.WithLabelValues(name, reason).Inc()
	g.toaster.SetKey(c, constants.ToastIntentError, key)
	if wantsHTML(c) && redirectPath != "" {
		c.Redirect(http.StatusSeeOther, redirectPath)
		c.Abort()
		return
	}
	msg := i18n.T(i18n.ResolveLocale(c), key)
	response.ErrorWithStatus(c, httpStatus, httpStatus, msg)
	c.Abort()
}

func wantsHTML(c *gin.Context) bool {
	return strings.Contains(strings.ToLower(c.GetHeader("Accept")), "text/html")
}

// UserAuthMiddleware 用户会话鉴权中间件
func UserAuthMiddleware(sessions SessionResolver, web config.WebConfig) gin.HandlerFunc {
	g := newGuard(web)
	return func(c *gin.Context) {
		if sessions == nil {
			logger.Errorw("user_auth_resolver_unavailable")
			g.reject(c, "user", "unavailable", web.SignInPath, http.StatusUnauthorized, "error.unauthorized")
			return
		}
		token, ok := shared.BearerToken(c)
		if !ok {
			g.reject(c, "user", "missing_token", web.SignInPath, http.StatusUnauthorized, "error.unauthorized")
			return
		}
		identity, err := sessions.ResolveSession(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, service.ErrUnauthenticated) {
				shared.RequestLog(c).Errorw("user_session_resolve_failed", "error", err)
			}
			g.reject(c, "user", "invalid_session", web.SignInPath, http.StatusUnauthorized, "error.session_invalid")
			return
		}
		shared.SetCurrentUser(c, identity.UserID, identity.SessionID)
		c.Next()
	}
}

// ArtistMiddleware 解析当前用户的艺术家身份
// required 为 false 时仅写入可选身份，为 true 时缺少艺术家资料直接拒绝
func ArtistMiddleware(artists ArtistResolver, required bool, web config.WebConfig) gin.HandlerFunc {
	g := newGuard(web)
	return func(c *gin.Context) {
		userID, ok := shared.CurrentUserID(c)
		if !ok {
			g.reject(c, "artist", "unauthenticated", web.SignInPath, http.StatusUnauthorized, "error.unauthorized")
			return
		}
		artist, err := artists.ResolveArtist(userID)
		if err != nil {
			shared.RequestLog(c).Errorw("artist_resolve_failed", "user_id", userID, "error", err)
			shared.RespondError(c, response.CodeInternal, "error.internal", nil)
			c.Abort()
			return
		}
		if artist == nil && required {
			g.reject(c, "artist", "profile_missing", web.ArtistSetupPath, http.StatusForbidden, "error.artist_profile_missing")
			return
		}
		shared.SetCurrentArtist(c, artist)
		c.Next()
	}
}

// RBACMiddleware 艺术家路由 RBAC 鉴权中间件
func RBACMiddleware(enforcer PolicyEnforcer, web config.WebConfig) gin.HandlerFunc {
	g := newGuard(web)
	return func(c *gin.Context) {
		userID, ok := shared.CurrentUserID(c)
		if !ok {
			g.reject(c, "rbac", "unauthenticated", web.SignInPath, http.StatusUnauthorized, "error.unauthorized")
			return
		}
		if enforcer == nil {
			logger.Errorw("rbac_enforcer_unavailable")
			g.reject(c, "rbac", "unavailable", "", http.StatusForbidden, "error.forbidden")
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}
		allowed, err := enforcer.EnforceUser(userID, resource, c.Request.Method)
		if err != nil {
			shared.RequestLog(c).Errorw("rbac_enforce_failed",
				"user_id", userID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			g.reject(c, "rbac", "error", "", http.StatusForbidden, "error.forbidden")
			return
		}
		if !allowed {
			shared.RequestLog(c).Warnw("rbac_permission_denied",
				"user_id", userID,
				"method", c.Request.Method,
				"resource", authz.NormalizeObject(resource),
			)
			g.reject(c, "rbac", "denied", "", http.StatusForbidden, "error.forbidden")
			return
		}
		c.Next()
	}
}
