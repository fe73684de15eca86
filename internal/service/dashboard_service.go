package service

import (
	"context"
	"fmt"
	"time"

	"github.com/artmart-next/internal/cache"
	"github.com/artmart-next/internal/logger"
	"github.com/artmart-next/internal/metrics"
	"github.com/artmart-next/internal/repository"

	"golang.org/x/sync/singleflight"
)

const (
	dashboardCacheTTL     = 45 * time.Second
	dashboardDefaultRange = 30 * 24 * time.Hour
)

// DashboardService 艺术家统计服务
// 说明：汇总指定时间窗口内艺术家作品的销售指标。
type DashboardService struct {
	repo  repository.DashboardRepository
	group singleflight.Group
	now   func() time.Time
}

// NewDashboardService 创建统计服务
func NewDashboardService(repo repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo, now: time.Now}
}

// DashboardQueryInput 统计查询输入，From/To 为空时取最近 30 天
type DashboardQueryInput struct {
	From         *time.Time
	To           *time.Time
	ForceRefresh bool
}

// DashboardStats 艺术家统计结果，金额单位为 kobo
// AverageOrderValue 为订单明细行 final_price 的平均值
type DashboardStats struct {
	From              time.Time `json:"from"`
	To                time.Time `json:"to"`
	TotalRevenue      int64     `json:"total_revenue"`
	TotalOrders       int64     `json:"total_orders"`
	AverageOrderValue float64   `json:"average_order_value"`
	TotalArtworksSold int64     `json:"total_artworks_sold"`
}

type dashboardWindow struct {
	startAt  time.Time
	endAt    time.Time
	rangeKey string
}

// GetStats 获取艺术家统计
func (s *DashboardService) GetStats(ctx context.Context, artistID uint, input DashboardQueryInput) (*DashboardStats, error) {
	window, err := resolveDashboardWindow(input, s.now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("dashboard:artist:%d:%s", artistID, window.rangeKey)
	if !input.ForceRefresh {
		var cached DashboardStats
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr != nil {
			logger.Warnw("dashboard_cache_read_failed", "artist_id", artistID, "error", cacheErr)
		}
		if cacheErr == nil && hit {
			metrics.DashboardCacheTotal.WithLabelValues("hit").Inc()
			return &cached, nil
		}
		metrics.DashboardCacheTotal.WithLabelValues("miss").Inc()
	}

	value, err, _ := s.group.Do(cacheKey, func() (interface{}, error) {
		row, err := s.repo.GetArtistStats(artistID, window.startAt, window.endAt)
		if err != nil {
			return nil, err
		}
		stats := &DashboardStats{
			From:              window.startAt,
			To:                window.endAt,
			TotalRevenue:      row.TotalRevenue,
			TotalOrders:       row.TotalOrders,
			AverageOrderValue: row.AverageOrderValue,
			TotalArtworksSold: row.TotalArtworksSold,
		}
		if err := cache.SetJSON(ctx, cacheKey, stats, dashboardCacheTTL); err != nil {
			logger.Warnw("dashboard_cache_write_failed", "artist_id", artistID, "error", err)
		}
		return stats, nil
	})
	if err != nil {
		return nil, err
	}
	stats := *value.(*DashboardStats)
	return &stats, nil
}

// resolveDashboardWindow 计算统计窗口，起止均为闭区间
func resolveDashboardWindow(input DashboardQueryInput, now time.Time) (dashboardWindow, error) {
	if input.From == nil && input.To == nil {
		return dashboardWindow{
			startAt:  now.Add(-dashboardDefaultRange),
			endAt:    now,
			rangeKey: "last30d",
		}, nil
	}
	endAt := now
	if input.To != nil {
		endAt = *input.To
	}
	startAt := endAt.Add(-dashboardDefaultRange)
	if input.From != nil {
		startAt = *input.From
	}
	if startAt.After(endAt) {
		return dashboardWindow{}, ErrInvalidDateRange
	}
	return dashboardWindow{
		startAt:  startAt,
		endAt:    endAt,
		rangeKey: fmt.Sprintf("%d:%d", startAt.Unix(), endAt.Unix()),
	}, nil
}
