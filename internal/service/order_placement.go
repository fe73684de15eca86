package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/artmart-next/internal/constants"
	"github.com/artmart-next/internal/logger"
	"github.com/artmart-next/internal/models"
	"github.com/artmart-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PricedItem 订单项定价结果，金额单位为 kobo
type PricedItem struct {
	Subtotal       int64
	DiscountAmount int64
	FinalPrice     int64
	PlatformFee    int64
}

// PriceOrderItem 计算订单项金额
// final_price = price*quantity - discount_amount，平台费按 final_price 计算
func PriceOrderItem(price int64, quantity int, discountPercent int, feePercent decimal.Decimal) PricedItem {
	subtotal := price * int64(quantity)
	discount := int64(0)
	if discountPercent > 0 {
		discount = models.PercentOfKobo(subtotal, decimal.NewFromInt(int64(discountPercent)))
	}
	if discount > subtotal {
		discount = subtotal
	}
	final := subtotal - discount
	fee := int64(0)
	if feePercent.IsPositive() {
		fee = models.PercentOfKobo(final, feePercent)
	}
	return PricedItem{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		FinalPrice:     final,
		PlatformFee:    fee,
	}
}

// PlaceOrderLine 下单行
type PlaceOrderLine struct {
	ArtworkID    uint
	Quantity     int
	DiscountCode string
}

// PlaceOrderInput 下单参数，Status 为空时为 PENDING
type PlaceOrderInput struct {
	BuyerID uint
	Status  string
	Lines   []PlaceOrderLine
}

// OrderPlacementService 订单创建服务
type OrderPlacementService struct {
	orderRepo    repository.OrderRepository
	artworkRepo  repository.ArtworkRepository
	discountRepo repository.DiscountRepository
	feePercent   decimal.Decimal
	now          func() time.Time
}

// NewOrderPlacementService 创建订单创建服务
func NewOrderPlacementService(orderRepo repository.OrderRepository, artworkRepo repository.ArtworkRepository, discountRepo repository.DiscountRepository, feePercent decimal.Decimal) *OrderPlacementService {
	return &OrderPlacementService{
		orderRepo:    orderRepo,
		artworkRepo:  artworkRepo,
		discountRepo: discountRepo,
		feePercent:   feePercent,
		now:          time.Now,
	}
}

// PlaceOrder 在一个事务内校验库存与折扣并写入订单
func (s *OrderPlacementService) PlaceOrder(_ context.Context, input PlaceOrderInput) (*models.Order, error) {
	if input.BuyerID == 0 || len(input.Lines) == 0 {
		return nil, &ValidationError{Fields: map[string]string{"lines": "Order must contain at least one item"}}
	}
	status := input.Status
	if status == "" {
		status = constants.OrderStatusPending
	}
	now := s.now()
	order := &models.Order{
		OrderNo:        generateOrderNo(now),
		UserID:         input.BuyerID,
		Status:         status,
		ShippingStatus: constants.ShippingStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		artworkRepo := s.artworkRepo.WithTx(tx)
		discountRepo := s.discountRepo.WithTx(tx)
		items := make([]models.OrderItem, 0, len(input.Lines))
		for i, line := range input.Lines {
			item, err := s.priceLine(artworkRepo, discountRepo, line, now)
			if err != nil {
				return fmt.Errorf("line %d: %w", i, err)
			}
			order.TotalPrice += item.FinalPrice
			items = append(items, *item)
		}
		return s.orderRepo.WithTx(tx).Create(order, items)
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("order_placed", "order_id", order.ID, "order_no", order.OrderNo, "buyer_id", input.BuyerID, "total_price", order.TotalPrice)
	return order, nil
}

func (s *OrderPlacementService) priceLine(artworkRepo repository.ArtworkRepository, discountRepo repository.DiscountRepository, line PlaceOrderLine, now time.Time) (*models.OrderItem, error) {
	if line.Quantity < 1 {
		return nil, &ValidationError{Fields: map[string]string{"quantity": "Quantity must be at least 1"}}
	}
	artwork, err := artworkRepo.GetByID(line.ArtworkID)
	if err != nil {
		return nil, err
	}
	if artwork == nil {
		return nil, ErrArtworkNotFound
	}
	if !artwork.UnlimitedStock() {
		ok, err := artworkRepo.DecrementStock(artwork.ID, line.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &ValidationError{Fields: map[string]string{"quantity": "Not enough stock"}}
		}
	}

	var discountID *uint
	percent := 0
	if code := strings.ToUpper(strings.TrimSpace(line.DiscountCode)); code != "" {
		discount, err := s.applicableDiscount(discountRepo, code, artwork, now)
		if err != nil {
			return nil, err
		}
		discountID = &discount.ID
		percent = discount.Percentage
	}

	priced := PriceOrderItem(artwork.Price, line.Quantity, percent, s.feePercent)
	return &models.OrderItem{
		ArtworkID:      artwork.ID,
		Quantity:       line.Quantity,
		Price:          artwork.Price,
		DiscountID:     discountID,
		DiscountAmount: priced.DiscountAmount,
		FinalPrice:     priced.FinalPrice,
		PlatformFee:    priced.PlatformFee,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (s *OrderPlacementService) applicableDiscount(discountRepo repository.DiscountRepository, code string, artwork *models.Artwork, now time.Time) (*models.Discount, error) {
	invalid := &ValidationError{Fields: map[string]string{"discountCode": "Discount code is not valid for this artwork"}}
	discount, err := discountRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if discount == nil || discount.ArtistID != artwork.ArtistID || !discount.IsValid(now) {
		return nil, invalid
	}
	applies, err := discountRepo.AppliesTo(discount.ID, artwork.ID)
	if err != nil {
		return nil, err
	}
	if !applies {
		return nil, invalid
	}
	redeemed, err := discountRepo.RedeemUse(discount.ID)
	if err != nil {
		return nil, err
	}
	if !redeemed {
		return nil, invalid
	}
	return discount, nil
}

func generateOrderNo(now time.Time) string {
	return fmt.Sprintf("AM%s%s", now.Format("20060102150405"), randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
