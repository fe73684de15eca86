package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// sanitizeText 去除所有 HTML 标签并还原实体，返回首尾去空白的纯文本
func sanitizeText(value string) string {
	cleaned := strictPolicy.Sanitize(value)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}
