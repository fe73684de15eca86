package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/artmart-next/internal/config"
	"github.com/artmart-next/internal/http/handlers/shared"
	"github.com/artmart-next/internal/http/response"
	"github.com/artmart-next/internal/i18n"
	"github.com/artmart-next/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 生成限流 key 的函数
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 限流规则
type RateLimitRule struct {
	Name          string
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	MessageKey    string
}

// SignInRateLimitRule 登录限流规则
func SignInRateLimitRule(cfg config.LoginRateLimitConfig, redisPrefix string) RateLimitRule {
	redisPrefix = strings.TrimSpace(redisPrefix)
	if redisPrefix == "" {
		redisPrefix = "am"
	}
	return RateLimitRule{
		Name:          "sign_in",
		Prefix:        fmt.Sprintf("%s:rate:sign_in", redisPrefix),
		WindowSeconds: cfg.WindowSeconds,
		MaxRequests:   cfg.MaxAttempts,
		MessageKey:    "error.rate_limited",
	}
}

// 固定窗口计数，首次命中时设置过期
var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

// RateLimitMiddleware Redis 频率限制中间件，未配置 Redis 时放行
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || rule.WindowSeconds <= 0 || rule.MaxRequests <= 0 {
			c.Next()
			return
		}

		key := ""
		if keyFunc != nil {
			key = strings.TrimSpace(keyFunc(c))
		}
		if key == "" {
			key = c.ClientIP()
		}
		if rule.Prefix != "" {
			key = fmt.Sprintf("%s:%s", rule.Prefix, key)
		}

		count, ttlSeconds, err := runRateLimit(c, client, key, rule.WindowSeconds)
		if err != nil {
			shared.RequestLog(c).Errorw("rate_limit_unavailable", "rule", rule.Name, "error", err)
			shared.RespondError(c, response.CodeInternal, "error.rate_limit_unavailable", nil)
			c.Abort()
			return
		}
		if count > int64(rule.MaxRequests) {
			waitSeconds := int(ttlSeconds)
			if waitSeconds < 1 {
				waitSeconds = rule.WindowSeconds
			}
			msgKey := strings.TrimSpace(rule.MessageKey)
			if msgKey == "" {
				msgKey = "error.rate_limited"
			}
			metrics.RateLimitedTotal.WithLabelValues(rule.Name).Inc()
			c.Header("Retry-After", fmt.Sprintf("%d", waitSeconds))
			msg := i18n.Sprintf(i18n.ResolveLocale(c), msgKey, waitSeconds)
			response.ErrorWithStatus(c, http.StatusTooManyRequests, response.CodeTooManyRequests, msg)
			c.Abort()
			return
		}

		c.Next()
	}
}

func runRateLimit(c *gin.Context, client *redis.Client, key string, windowSeconds int) (int64, int64, error) {
	result, err := rateLimitScript.Run(c.Request.Context(), client, []string{key}, windowSeconds).Result()
	if err != nil {
		return 0, 0, err
	}
	values, ok := result.([]interface{})
	if !ok || len(values) < 2 {
		return 0, 0, fmt.Errorf("unexpected rate limit result %v", result)
	}
	count, ok := values[0].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("unexpected rate limit counter %v", values[0])
	}
	ttl, _ := values[1].(int64)
	return count, ttl, nil
}

// KeyByIP 使用 IP 作为限流 key
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndJSONField 使用 IP + JSON 字段作为限流 key
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(strings.TrimSpace(readJSONField(c, field)))
		if value == "" {
			return c.ClientIP()
		}
		return fmt.Sprintf("%s|%s", value, c.ClientIP())
	}
}

// readJSONField 读取 JSON 字段后恢复请求体
func readJSONField(c *gin.Context, field string) string {
	if c == nil || c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
	if len(body) == 0 {
		return ""
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if text, ok := payload[field].(string); ok {
		return strings.TrimSpace(text)
	}
	return ""
}
