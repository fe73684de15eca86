package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/artmart-next/internal/config"
	"github.com/artmart-next/internal/constants"
	"github.com/artmart-next/internal/logger"
	"github.com/artmart-next/internal/models"
	"github.com/artmart-next/internal/provider"
	"github.com/artmart-next/internal/repository"
	"github.com/artmart-next/internal/service"

	"github.com/shopspring/decimal"
)

const seedBlurhash = "LEHV6nWB2yk8pyo0adR*.7kCMdnj"

// seedArtist 示例艺术家
type seedArtist struct {
	Name     string
	Email    string
	Bio      string
	BankCode string
}

var seedArtists = []seedArtist{
	{Name: "Adaeze Okafor", Email: "adaeze@artmart.local", Bio: "Oil painter working with Lagos street light.", BankCode: "058"},
	{Name: "Tunde Bakare", Email: "tunde@artmart.local", Bio: "Bronze and recycled metal sculpture.", BankCode: "044"},
	{Name: "Zainab Musa", Email: "zainab@artmart.local", Bio: "Documentary photography from the Sahel.", BankCode: "033"},
}

var seedTitles = []string{
	"Harmattan Morning", "Market Day", "Blue Hour in Yaba", "Lagoon Study",
	"Kano Dye Pits", "Quiet Compound", "Iron Heron", "Dust and Gold",
}

func main() {
	var (
		artworksPerArtist = flag.Int("artworks", 4, "每位艺术家的作品数量")
		orderCount        = flag.Int("orders", 12, "生成的已支付订单数量")
		password          = flag.String("password", "artmart-seed-123", "示例账号密码")
	)
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	container := provider.NewContainer(cfg)
	defer container.Close()
	ctx := context.Background()
	rnd := rand.New(rand.NewSource(42))

	var artworkIDs []uint
	for i, item := range seedArtists {
		userID, err := ensureUser(ctx, container, item.Name, item.Email, *password)
		if err != nil {
			stdLog.Fatalf("Failed to create user %s: %v", item.Email, err)
		}
		artist, err := ensureArtist(container, userID, item, i)
		if err != nil {
			stdLog.Fatalf("Failed to create artist %s: %v", item.Email, err)
		}
		ids, err := ensureArtworks(container, artist, *artworksPerArtist, rnd)
		if err != nil {
			stdLog.Fatalf("Failed to create artworks for %s: %v", item.Email, err)
		}
		if err := ensureDiscount(container, artist, ids); err != nil {
			stdLog.Printf("Failed to create discount for %s: %v", item.Email, err)
		}
		artworkIDs = append(artworkIDs, ids...)
		stdLog.Printf("Artist ready: %s (artist_id=%d, artworks=%d)", item.Name, artist.ID, len(ids))
	}

	buyerID, err := ensureUser(ctx, container, "Chidi Eze", "buyer@artmart.local", *password)
	if err != nil {
		stdLog.Fatalf("Failed to create buyer: %v", err)
	}

	placed := 0
	for i := 0; i < *orderCount && len(artworkIDs) > 0; i++ {
		artworkID := artworkIDs[rnd.Intn(len(artworkIDs))]
		order, err := container.OrderPlacementService.PlaceOrder(ctx, service.PlaceOrderInput{
			BuyerID: buyerID,
			Status:  constants.OrderStatusPaid,
			Lines:   []service.PlaceOrderLine{{ArtworkID: artworkID, Quantity: 1 + rnd.Intn(2)}},
		})
		if err != nil {
			stdLog.Printf("Skip order for artwork %d: %v", artworkID, err)
			continue
		}
		placed++
		advanceShipping(ctx, container, order.ID, artworkID, rnd)
	}

	stdLog.Printf("Seed completed: artists=%d buyer=%s orders=%d", len(seedArtists), "buyer@artmart.local", placed)
}

func ensureUser(ctx context.Context, c *provider.Container, name, email, password string) (uint, error) {
	existing, err := c.UserRepo.GetByEmail(email)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}
	result, err := c.AuthService.SignUp(ctx, service.SignUpInput{
		Name:            name,
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
	}, "127.0.0.1", "artmart-seed")
	if err != nil {
		return 0, err
	}
	return result.User.ID, nil
}

func ensureArtist(c *provider.Container, userID uint, item seedArtist, index int) (*models.Artist, error) {
	artist, err := c.ArtistRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if artist == nil {
		artist = &models.Artist{
			UserID:                 userID,
			Name:                   item.Name,
			Bio:                    item.Bio,
			PaystackSubaccountCode: fmt.Sprintf("ACCT_seed%04d", index+1),
			BankCode:               item.BankCode,
			AccountNumberLast4:     fmt.Sprintf("%04d", 1000+index),
		}
		if err := c.ArtistRepo.Create(artist); err != nil {
			return nil, err
		}
	}
	if err := c.AuthzService.AssignUserRole(userID, constants.RoleArtist); err != nil {
		return nil, err
	}
	return artist, nil
}

func ensureArtworks(c *provider.Container, artist *models.Artist, count int, rnd *rand.Rand) ([]uint, error) {
	existing, total, err := c.ArtworkRepo.List(repository.ArtworkListFilter{ArtistID: artist.ID, Page: 1, PageSize: 100})
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, count)
	for _, artwork := range existing {
		ids = append(ids, artwork.ID)
	}
	for i := int(total); i < count; i++ {
		stock := 2 + rnd.Intn(8)
		artwork := &models.Artwork{
			ArtistID:    artist.ID,
			Title:       seedTitles[(int(artist.ID)+i)%len(seedTitles)],
			Description: fmt.Sprintf("%s. Original work by %s.", seedTitles[i%len(seedTitles)], artist.Name),
			Price:       int64(50_000+rnd.Intn(450_000)) * 100,
			Dimensions:  fmt.Sprintf("%dx%dx3", 30+rnd.Intn(90), 30+rnd.Intn(90)),
			Weight:      decimal.NewFromFloat(0.5 + float64(rnd.Intn(80))/10).Round(2),
			Condition:   constants.ArtworkConditions[rnd.Intn(len(constants.ArtworkConditions))],
			Category:    constants.ArtworkCategories[rnd.Intn(len(constants.ArtworkCategories))],
			Stock:       &stock,
		}
		images := []models.Image{{
			URL:      fmt.Sprintf("/uploads/artworks/seed/%d-%d.jpg", artist.ID, i+1),
			Blurhash: seedBlurhash,
		}}
		if err := c.ArtworkRepo.CreateWithImages(artwork, images); err != nil {
			return nil, err
		}
		ids = append(ids, artwork.ID)
	}
	return ids, nil
}

func ensureDiscount(c *provider.Container, artist *models.Artist, artworkIDs []uint) error {
	code := fmt.Sprintf("SEED%d", artist.ID)
	exists, err := c.DiscountRepo.CodeExists(code)
	if err != nil || exists {
		return err
	}
	now := time.Now()
	maxUses := 50
	if len(artworkIDs) > 2 {
		artworkIDs = artworkIDs[:2]
	}
	return c.DiscountRepo.CreateWithArtworks(&models.Discount{
		ArtistID:    artist.ID,
		Code:        code,
		Description: "Seed launch discount",
		Percentage:  15,
		StartDate:   now.Add(-24 * time.Hour),
		EndDate:     now.AddDate(0, 1, 0),
		MaxUses:     &maxUses,
		IsActive:    true,
	}, artworkIDs)
}

// advanceShipping 随机推进部分订单的发货状态
func advanceShipping(ctx context.Context, c *provider.Container, orderID, artworkID uint, rnd *rand.Rand) {
	if rnd.Intn(3) == 0 {
		return
	}
	artwork, err := c.ArtworkRepo.GetByID(artworkID)
	if err != nil || artwork == nil {
		return
	}
	if _, err := c.OrderService.UpdateShippingStatus(ctx, artwork.ArtistID, orderID, constants.ShippingStatusShipped); err != nil {
		return
	}
	if rnd.Intn(2) == 0 {
		_, _ = c.OrderService.UpdateShippingStatus(ctx, artwork.ArtistID, orderID, constants.ShippingStatusDelivered)
	}
}
