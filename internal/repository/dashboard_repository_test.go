package repository

import (
	"testing"
	"time"
)

func TestGetArtistStatsScenario(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewDashboardRepository(db)
	artist := createTestArtist(t, db, "Ada Obi")
	other := createTestArtist(t, db, "Bola Ade")
	buyer := createTestUser(t, db, "buyer@example.com")
	now := time.Now()

	mine := createTestArtwork(t, db, artist.ID, "Calabash", "carved calabash bowl", now)
	theirs := createTestArtwork(t, db, other.ID, "Mask", "bronze ceremonial mask", now)

	createTestOrder(t, db, "AM-20", buyer.ID, now.Add(-48*time.Hour), testLine{artworkID: mine.ID, quantity: 1, finalPrice: 1500})
	createTestOrder(t, db, "AM-21", buyer.ID, now.Add(-24*time.Hour),
		testLine{artworkID: mine.ID, quantity: 1, finalPrice: 2500},
		testLine{artworkID: theirs.ID, quantity: 3, finalPrice: 9000},
	)
	createTestOrder(t, db, "AM-22", buyer.ID, now.Add(-60*24*time.Hour), testLine{artworkID: mine.ID, quantity: 1, finalPrice: 7777})

	row, err := repo.GetArtistStats(artist.ID, now.Add(-30*24*time.Hour), now)
	if err != nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if row.TotalRevenue != 4000 {
		t.Fatalf("revenue want 4000 got %d", row.TotalRevenue)
	}
	if row.TotalOrders != 2 {
		t.Fatalf("orders want 2 got %d", row.TotalOrders)
	}
	if row.AverageOrderValue != 2000 {
		t.Fatalf("average want 2000 got %v", row.AverageOrderValue)
	}
	if row.TotalArtworksSold != 2 {
		t.Fatalf("sold want 2 got %d", row.TotalArtworksSold)
	}
}

func TestGetArtistStatsEmptyWindowIsZero(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewDashboardRepository(db)
	artist := createTestArtist(t, db, "Ada Obi")
	now := time.Now()

	row, err := repo.GetArtistStats(artist.ID, now.Add(-time.Hour), now)
	if err != nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if row.TotalRevenue != 0 || row.TotalOrders != 0 || row.AverageOrderValue != 0 || row.TotalArtworksSold != 0 {
		t.Fatalf("empty window want zeros got %+v", row)
	}
}

func TestListArtistSummaries(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewDashboardRepository(db)
	artist := createTestArtist(t, db, "Ada Obi")
	other := createTestArtist(t, db, "Bola Ade")
	buyer := createTestUser(t, db, "buyer@example.com")
	now := time.Now()

	mine := createTestArtwork(t, db, artist.ID, "Calabash", "carved calabash bowl", now)
	theirs := createTestArtwork(t, db, other.ID, "Mask", "bronze ceremonial mask", now)
	createTestOrder(t, db, "AM-30", buyer.ID, now.Add(-time.Hour),
		testLine{artworkID: mine.ID, quantity: 1, finalPrice: 1000},
		testLine{artworkID: theirs.ID, quantity: 2, finalPrice: 5000},
	)

	rows, err := repo.ListArtistSummaries(now.Add(-24*time.Hour), now)
	if err != nil {
		t.Fatalf("list summaries failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("summaries want 2 got %d", len(rows))
	}
	if rows[0].ArtistName != "Bola Ade" || rows[0].TotalRevenue != 5000 || rows[0].TotalArtworksSold != 2 {
		t.Fatalf("top artist row unexpected: %+v", rows[0])
	}
}

func TestGetArtistStatsWindowAcrossOffsets(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewDashboardRepository(db)
	artist := createTestArtist(t, db, "Ada Obi")
	buyer := createTestUser(t, db, "buyer@example.com")
	lagos := time.FixedZone("WAT", 3600)

	artwork := createTestArtwork(t, db, artist.ID, "Calabash", "carved calabash bowl", time.Now())
	// 10:30+01:00 即 09:30Z
	createTestOrder(t, db, "AM-40", buyer.ID, time.Date(2026, 3, 10, 10, 30, 0, 0, lagos),
		testLine{artworkID: artwork.ID, quantity: 1, finalPrice: 4200})
	// 10:30Z 落在窗口之外
	createTestOrder(t, db, "AM-41", buyer.ID, time.Date(2026, 3, 10, 11, 30, 0, 0, lagos),
		testLine{artworkID: artwork.ID, quantity: 1, finalPrice: 9900})

	row, err := repo.GetArtistStats(artist.ID,
		time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if row.TotalOrders != 1 || row.TotalRevenue != 4200 {
		t.Fatalf("window want 1 order / 4200 got %+v", row)
	}

	// 同一窗口以 +01:00 表示
	row, err = repo.GetArtistStats(artist.ID,
		time.Date(2026, 3, 10, 10, 0, 0, 0, lagos),
		time.Date(2026, 3, 10, 11, 0, 0, 0, lagos))
	if err != nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if row.TotalOrders != 1 || row.TotalRevenue != 4200 {
		t.Fatalf("offset window want 1 order / 4200 got %+v", row)
	}
}
