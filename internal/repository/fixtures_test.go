package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/artmart-next/internal/constants"
	"github.com/artmart-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "Ada Obi", Email: email, PasswordHash: "x", Status: constants.UserStatusActive}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createTestArtist(t *testing.T, db *gorm.DB, name string) *models.Artist {
	t.Helper()
	user := createTestUser(t, db, strings.ToLower(strings.ReplaceAll(name, " ", "."))+"@example.com")
	artist := &models.Artist{UserID: user.ID, Name: name, Bio: "paints with oil"}
	if err := db.Create(artist).Error; err != nil {
		t.Fatalf("create artist failed: %v", err)
	}
	return artist
}

func createTestArtwork(t *testing.T, db *gorm.DB, artistID uint, title, description string, createdAt time.Time) *models.Artwork {
	t.Helper()
	artwork := &models.Artwork{
		ArtistID:    artistID,
		Title:       title,
		Description: description,
		Price:       150000,
		Dimensions:  "20x30x2",
		Weight:      decimal.RequireFromString("1.5"),
		Condition:   constants.ConditionNew,
		Category:    constants.CategoryPainting,
		CreatedAt:   createdAt,
	}
	if err := db.Omit("Images").Create(artwork).Error; err != nil {
		t.Fatalf("create artwork failed: %v", err)
	}
	return artwork
}

type testLine struct {
	artworkID  uint
	quantity   int
	finalPrice int64
}

func createTestOrder(t *testing.T, db *gorm.DB, orderNo string, buyerID uint, createdAt time.Time, lines ...testLine) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:        orderNo,
		UserID:         buyerID,
		Status:         constants.OrderStatusPaid,
		ShippingStatus: constants.ShippingStatusPending,
		CreatedAt:      createdAt,
	}
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		order.TotalPrice += line.finalPrice
		items = append(items, models.OrderItem{
			ArtworkID:  line.artworkID,
			Quantity:   line.quantity,
			Price:      line.finalPrice / int64(line.quantity),
			FinalPrice: line.finalPrice,
			CreatedAt:  createdAt,
		})
	}
	if err := NewOrderRepository(db).Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}
