package shared

import (
	"net/http"
	"strings"
	"time"

	"github.com/artmart-next/internal/config"

	"github.com/gin-gonic/gin"
)

// SessionCookieName 浏览器会话 token cookie 名称
const SessionCookieName = "session_token"

// SetSessionCookie 写入会话 token，过期时间与会话一致
func SetSessionCookie(c *gin.Context, cfg config.WebConfig, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, maxAge, "/", strings.TrimSpace(cfg.CookieDomain), cfg.CookieSecure, true)
}

// ClearSessionCookie 清除会话 token
func ClearSessionCookie(c *gin.Context, cfg config.WebConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", strings.TrimSpace(cfg.CookieDomain), cfg.CookieSecure, true)
}

// BearerToken 读取 Authorization Bearer token，缺失时回退到会话 cookie
func BearerToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", false
		}
		return strings.TrimSpace(parts[1]), true
	}
	if token, err := c.Cookie(SessionCookieName); err == nil && strings.TrimSpace(token) != "" {
		return strings.TrimSpace(token), true
	}
	return "", false
}
