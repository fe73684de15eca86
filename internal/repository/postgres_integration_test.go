//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/artmart-next/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	all := models.AllModels()
	_ = db.Migrator().DropTable(all...)
	if err := db.AutoMigrate(all...); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(all...)
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestPostgresArtworkSearchUsesILike(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewArtworkRepository(db)
	artist := createTestArtist(t, db, "Ada Obi")
	now := time.Now()
	createTestArtwork(t, db, artist.ID, "Sunset Over Lagos", "warm evening colours", now)
	createTestArtwork(t, db, artist.ID, "Harbour", "A SUNSET seen from the port", now)

	items, total, err := repo.List(ArtworkListFilter{ArtistID: artist.ID, Page: 1, PageSize: 10, Search: "SunSet"})
	if err != nil {
		t.Fatalf("postgres search failed: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("postgres search want 2/2 got %d/%d", total, len(items))
	}
}

func TestPostgresArtistStats(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewDashboardRepository(db)
	artist := createTestArtist(t, db, "Ada Obi")
	buyer := createTestUser(t, db, "buyer@example.com")
	now := time.Now()
	artwork := createTestArtwork(t, db, artist.ID, "Calabash", "carved calabash bowl", now)
	createTestOrder(t, db, "AM-PG-1", buyer.ID, now.Add(-time.Hour), testLine{artworkID: artwork.ID, quantity: 1, finalPrice: 1500})
	createTestOrder(t, db, "AM-PG-2", buyer.ID, now.Add(-time.Hour), testLine{artworkID: artwork.ID, quantity: 1, finalPrice: 2500})

	row, err := repo.GetArtistStats(artist.ID, now.Add(-24*time.Hour), now)
	if err != nil {
		t.Fatalf("postgres stats failed: %v", err)
	}
	if row.TotalRevenue != 4000 || row.TotalOrders != 2 || row.AverageOrderValue != 2000 {
		t.Fatalf("postgres stats unexpected: %+v", row)
	}
}
