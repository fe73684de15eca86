package artist

import (
	"strings"
	"time"

	"github.com/artmart-next/internal/http/handlers/shared"
	"github.com/artmart-next/internal/http/response"
	"github.com/artmart-next/internal/service"

	"github.com/gin-gonic/gin"
)

const dashboardDateLayout = "2006-01-02"

var dashboardErrorRules = []shared.MappedError{
	{Target: service.ErrInvalidDateRange, Code: response.CodeBadRequest, Key: "error.invalid_date_range"},
}

// GetDashboard 获取艺术家统计指标
// from/to 支持 YYYY-MM-DD 或 RFC3339，日期格式的 to 包含当天全天
func (h *Handler) GetDashboard(c *gin.Context) {
	artist, ok := shared.RequireArtist(c)
	if !ok {
		return
	}
	from, err := parseDashboardTime(c.Query("from"), false)
	if err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.date_invalid", nil)
		return
	}
	to, err := parseDashboardTime(c.Query("to"), true)
	if err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.date_invalid", nil)
		return
	}

	stats, err := h.DashboardService.GetStats(c.Request.Context(), artist.ID, service.DashboardQueryInput{
		From:         from,
		To:           to,
		ForceRefresh: strings.EqualFold(c.Query("refresh"), "true"),
	})
	if err != nil {
		shared.RespondWithMappedError(c, err, dashboardErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, stats)
}

func parseDashboardTime(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.ParseInLocation(dashboardDateLayout, raw, time.Local)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	t = t.UTC()
	return &t, nil
}
