package repository

import (
	"time"

	"gorm.io/gorm"
)

// DashboardRepository 艺术家统计聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetArtistStats(artistID uint, startAt, endAt time.Time) (ArtistStatsRow, error)
	ListArtistSummaries(startAt, endAt time.Time) ([]ArtistSummaryRow, error)
}

// ArtistStatsRow 艺术家统计原始结果
type ArtistStatsRow struct {
	TotalRevenue      int64
	TotalOrders       int64
	AverageOrderValue float64
	TotalArtworksSold int64
}

// ArtistSummaryRow 全部艺术家的统计汇总行
type ArtistSummaryRow struct {
	ArtistID          uint
	ArtistName        string
	TotalRevenue      int64
	TotalOrders       int64
	TotalArtworksSold int64
}

// GormDashboardRepository GORM 聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建统计仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

func (r *GormDashboardRepository) artistItemsInWindow(startAt, endAt time.Time) *gorm.DB {
	return r.db.Table("order_items AS oi").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Joins("JOIN artworks aw ON aw.id = oi.artwork_id").
		Where("o.created_at >= ? AND o.created_at <= ?", startAt.UTC(), endAt.UTC())
}

// GetArtistStats 在单条语句中聚合艺术家作品的订单项，窗口两端闭区间
func (r *GormDashboardRepository) GetArtistStats(artistID uint, startAt, endAt time.Time) (ArtistStatsRow, error) {
	var row ArtistStatsRow
	err := r.artistItemsInWindow(startAt, endAt).
		Select(`COALESCE(SUM(oi.final_price), 0) AS total_revenue,
			COUNT(DISTINCT oi.order_id) AS total_orders,
			COALESCE(AVG(oi.final_price), 0) AS average_order_value,
			COALESCE(SUM(oi.quantity), 0) AS total_artworks_sold`).
		Where("aw.artist_id = ?", artistID).
		Scan(&row).Error
	return row, err
}

// ListArtistSummaries 按艺术家汇总窗口内的销售
func (r *GormDashboardRepository) ListArtistSummaries(startAt, endAt time.Time) ([]ArtistSummaryRow, error) {
	var rows []ArtistSummaryRow
	err := r.artistItemsInWindow(startAt, endAt).
		Select(`aw.artist_id AS artist_id,
			ar.name AS artist_name,
			COALESCE(SUM(oi.final_price), 0) AS total_revenue,
			COUNT(DISTINCT oi.order_id) AS total_orders,
			COALESCE(SUM(oi.quantity), 0) AS total_artworks_sold`).
		Joins("JOIN artists ar ON ar.id = aw.artist_id").
		Group("aw.artist_id, ar.name").
		Order("total_revenue DESC").
		Scan(&rows).Error
	return rows, err
}
