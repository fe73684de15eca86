package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/artmart-next/internal/config"
	"github.com/artmart-next/internal/logger"
	"github.com/artmart-next/internal/models"
	"github.com/artmart-next/internal/repository"

	"github.com/olekukonko/tablewriter"
)

func main() {
	var (
		days  = flag.Int("days", 30, "统计最近多少天")
		until = flag.String("until", "", "统计截止日期 (YYYY-MM-DD)，默认当前时间")
	)
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	endAt, err := resolveEnd(*until, time.Now())
	if err != nil {
		stdLog.Fatalf("Invalid -until value: %v", err)
	}
	if *days <= 0 {
		stdLog.Fatalf("-days must be positive")
	}
	startAt := endAt.AddDate(0, 0, -*days)

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	rows, err := repository.NewDashboardRepository(models.DB).ListArtistSummaries(startAt, endAt)
	if err != nil {
		stdLog.Fatalf("Failed to load artist summaries: %v", err)
	}
	if err := renderArtistSummaries(os.Stdout, rows, startAt, endAt); err != nil {
		stdLog.Fatalf("Failed to render report: %v", err)
	}
}

// resolveEnd 解析截止日期，日期格式覆盖当天结束
func resolveEnd(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		return now, nil
	}
	day, err := time.ParseInLocation("2006-01-02", raw, now.Location())
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(24*time.Hour - time.Nanosecond), nil
}

func renderArtistSummaries(w io.Writer, rows []repository.ArtistSummaryRow, startAt, endAt time.Time) error {
	fmt.Fprintf(w, "Artist sales %s -> %s\n", startAt.Format("2006-01-02"), endAt.Format("2006-01-02"))

	table := tablewriter.NewWriter(w)
	table.Header("Artist ID", "Artist", "Orders", "Artworks Sold", "Revenue (NGN)", "Avg Order (NGN)")

	var revenue, orders, sold int64
	for _, row := range rows {
		if err := table.Append([]string{
			fmt.Sprintf("%d", row.ArtistID),
			row.ArtistName,
			fmt.Sprintf("%d", row.TotalOrders),
			fmt.Sprintf("%d", row.TotalArtworksSold),
			models.FormatNaira(row.TotalRevenue),
			models.FormatNaira(averageKobo(row.TotalRevenue, row.TotalOrders)),
		}); err != nil {
			return err
		}
		revenue += row.TotalRevenue
		orders += row.TotalOrders
		sold += row.TotalArtworksSold
	}
	table.Footer("", "Total", fmt.Sprintf("%d", orders), fmt.Sprintf("%d", sold), models.FormatNaira(revenue), models.FormatNaira(averageKobo(revenue, orders)))
	return table.Render()
}

func averageKobo(total, count int64) int64 {
	if count <= 0 {
		return 0
	}
	return total / count
}
