package service

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"github.com/artmart-next/internal/config"
	"github.com/artmart-next/internal/constants"
	"github.com/artmart-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
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

func testConfig() *config.Config {
	return &config.Config{
		UserJWT: config.JWTConfig{SecretKey: "test-secret", ExpireHours: 24},
		Session: config.SessionConfig{ExpireHours: 24},
	}
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "Ada Obi", Email: email, PasswordHash: "x", Status: constants.UserStatusActive}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func seedArtist(t *testing.T, db *gorm.DB, email string) *models.Artist {
	t.Helper()
	user := seedUser(t, db, email)
	artist := &models.Artist{UserID: user.ID, Name: "Ada Obi", Bio: "paints with oil"}
	if err := db.Create(artist).Error; err != nil {
		t.Fatalf("create artist failed: %v", err)
	}
	return artist
}

func seedArtwork(t *testing.T, db *gorm.DB, artistID uint, title string, stock *int) *models.Artwork {
	t.Helper()
	artwork := &models.Artwork{
		ArtistID:    artistID,
		Title:       title,
		Description: "a quiet study of light",
		Price:       500000,
		Dimensions:  "40x60x2",
		Weight:      decimal.RequireFromString("2.5"),
		Condition:   constants.ConditionNew,
		Category:    constants.CategoryPainting,
		Stock:       stock,
	}
	if err := db.Omit("Images").Create(artwork).Error; err != nil {
		t.Fatalf("create artwork failed: %v", err)
	}
	return artwork
}

func seedOrder(t *testing.T, db *gorm.DB, buyerID uint, shippingStatus string, createdAt time.Time, items ...models.OrderItem) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:        fmt.Sprintf("AMTEST%d", time.Now().UnixNano()),
		UserID:         buyerID,
		Status:         constants.OrderStatusPaid,
		ShippingStatus: shippingStatus,
		CreatedAt:      createdAt,
	}
	if err := db.Omit("Items", "User").Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	for i := range items {
		items[i].OrderID = order.ID
		if err := db.Omit("Artwork", "Order").Create(&items[i]).Error; err != nil {
			t.Fatalf("create order item failed: %v", err)
		}
	}
	return order
}

func intPtr(v int) *int {
	return &v
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png failed: %v", err)
	}
	return buf.Bytes()
}

type testFile struct {
	name string
	data []byte
}

func multipartFiles(t *testing.T, files ...testFile) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := writer.CreateFormFile("images", f.name)
		if err != nil {
			t.Fatalf("create form file failed: %v", err)
		}
		if _, err := part.Write(f.data); err != nil {
			t.Fatalf("write form file failed: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer failed: %v", err)
	}
	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("read form failed: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["images"]
}

func pngFiles(t *testing.T, n int) []*multipart.FileHeader {
	t.Helper()
	files := make([]testFile, 0, n)
	for i := 0; i < n; i++ {
		files = append(files, testFile{name: fmt.Sprintf("art-%d.png", i), data: pngBytes(t, 32, 24)})
	}
	return multipartFiles(t, files...)
}
