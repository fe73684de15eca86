package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

// likeEscapeChar LIKE 转义字符，避开 mysql 字符串字面量对反斜杠的二次转义
const likeEscapeChar = "!"

var likeEscaper = strings.NewReplacer(likeEscapeChar, likeEscapeChar+likeEscapeChar, "%", likeEscapeChar+"%", "_", likeEscapeChar+"_")

func likeOperatorByDialect(dialect string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return "ILIKE"
	default:
		return "LIKE"
	}
}

// buildCaseInsensitiveLike 构建多列 OR 的不区分大小写模糊匹配条件，返回条件与参数数量。
// postgres 使用 ILIKE，其余方言对列取 LOWER 后匹配小写参数。
func buildCaseInsensitiveLike(dialect string, columns []string) (string, int) {
	operator := likeOperatorByDialect(dialect)
	parts := make([]string, 0, len(columns))
	for _, column := range columns {
		column = strings.TrimSpace(column)
		if column == "" {
			continue
		}
		if operator == "ILIKE" {
			parts = append(parts, fmt.Sprintf("%s ILIKE ? ESCAPE '%s'", column, likeEscapeChar))
		} else {
			parts = append(parts, fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '%s'", column, likeEscapeChar))
		}
	}
	if len(parts) == 0 {
		return "", 0
	}
	return "(" + strings.Join(parts, " OR ") + ")", len(parts)
}

// containsPattern 生成小写的包含匹配模式，输入中的通配符按字面匹配。
func containsPattern(search string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
}

// repeatLikeArgs 生成重复的 LIKE 参数列表。
func repeatLikeArgs(like string, count int) []interface{} {
	args := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		args = append(args, like)
	}
	return args
}
