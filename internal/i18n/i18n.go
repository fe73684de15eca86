package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	LocaleEnUS    = "en-US"
	DefaultLocale = LocaleEnUS
)

var messages = map[string]map[string]string{
	LocaleEnUS: enUS,
}

// T 返回指定语言的文案，缺失时回退到默认语言，再缺失时返回 key
func T(locale, key string) string {
	if table, ok := messages[normalizeLocale(locale)]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 返回带格式化参数的文案
func Sprintf(locale, key string, args ...interface{}) string {
	if len(args) == 0 {
		return T(locale, key)
	}
	return fmt.Sprintf(T(locale, key), args...)
}

// ResolveLocale 从查询参数或 Accept-Language 解析语言
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if q := strings.TrimSpace(c.Query("lang")); q != "" {
		return normalizeLocale(q)
	}
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		if locale := normalizeLocale(tag); locale != "" {
			if _, ok := messages[locale]; ok {
				return locale
			}
		}
	}
	return DefaultLocale
}

func normalizeLocale(tag string) string {
	lower := strings.ToLower(strings.TrimSpace(tag))
	switch {
	case lower == "", lower == "*":
		return DefaultLocale
	case strings.HasPrefix(lower, "en"):
		return LocaleEnUS
	}
	return DefaultLocale
}
