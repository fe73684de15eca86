package shared

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/artmart-next/internal/config"
	"github.com/artmart-next/internal/i18n"

	"github.com/gin-gonic/gin"
)

// ToastCookieName 一次性提示 cookie 名称
const ToastCookieName = "toast"

const toastMaxAgeSeconds = 60

// Toast 一次性提示消息
type Toast struct {
	Intent  string `json:"intent"`
	Message string `json:"message"`
}

// Toaster 写入与读取一次性提示 cookie
type Toaster struct {
	domain string
	secure bool
}

// NewToaster 创建提示通道
func NewToaster(cfg config.WebConfig) *Toaster {
	return &Toaster{domain: strings.TrimSpace(cfg.CookieDomain), secure: cfg.CookieSecure}
}

// Set 写入提示，message 直接作为文案
func (t *Toaster) Set(c *gin.Context, intent, message string) {
	payload, err := json.Marshal(Toast{Intent: intent, Message: message})
	if err != nil {
		RequestLog(c).Warnw("toast_encode_failed", "error", err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ToastCookieName, string(payload), toastMaxAgeSeconds, "/", t.domain, t.secure, true)
}

// SetKey 写入按语言解析后的提示
func (t *Toaster) SetKey(c *gin.Context, intent, key string) {
	t.Set(c, intent, i18n.T(i18n.ResolveLocale(c), key))
}

// Take 读取并清除提示，无提示或内容损坏时返回 nil
func (t *Toaster) Take(c *gin.Context) *Toast {
	raw, err := c.Cookie(ToastCookieName)
	if err != nil || raw == "" {
		return nil
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ToastCookieName, "", -1, "/", t.domain, t.secure, true)

	var toast Toast
	if err := json.Unmarshal([]byte(raw), &toast); err != nil || toast.Message == "" {
		return nil
	}
	return &toast
}
