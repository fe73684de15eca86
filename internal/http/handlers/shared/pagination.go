package shared

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// 分页默认值
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ParsePageQuery 读取 page/limit 查询参数。
// 仅在参数缺失或无法解析时填充默认值，越界值交由 service 层校验。
func ParsePageQuery(c *gin.Context) (int, int) {
	return queryIntOr(c, "page", DefaultPage), queryIntOr(c, "limit", DefaultLimit)
}

func queryIntOr(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
