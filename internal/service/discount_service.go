package service

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/artmart-next/internal/logger"
	"github.com/artmart-next/internal/models"
	"github.com/artmart-next/internal/repository"

	"gorm.io/gorm"
)

var discountCodePattern = regexp.MustCompile(`^[A-Z0-9_-]+$`)

// DiscountService 折扣码服务
type DiscountService struct {
	discountRepo repository.DiscountRepository
	artworkRepo  repository.ArtworkRepository
	now          func() time.Time
}

// NewDiscountService 创建折扣服务
func NewDiscountService(discountRepo repository.DiscountRepository, artworkRepo repository.ArtworkRepository) *DiscountService {
	return &DiscountService{discountRepo: discountRepo, artworkRepo: artworkRepo, now: time.Now}
}

// DiscountView 折扣列表项
type DiscountView struct {
	models.Discount
	IsValid           bool  `json:"is_valid"`
	AppliedToArtworks int64 `json:"applied_to_artworks"`
}

// CreateDiscountInput 创建折扣参数
type CreateDiscountInput struct {
	Code        string
	Description string
	Percentage  int
	StartDate   time.Time
	EndDate     time.Time
	MaxUses     *int
	ArtworkIDs  []uint
}

// ListDiscounts 列出艺术家折扣及实时有效性
func (s *DiscountService) ListDiscounts(artistID uint) ([]DiscountView, error) {
	discounts, err := s.discountRepo.ListByArtist(artistID)
	if err != nil {
		return nil, err
	}
	counts, err := s.discountRepo.AppliedArtworkCounts(artistID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	views := make([]DiscountView, 0, len(discounts))
	for _, d := range discounts {
		views = append(views, DiscountView{
			Discount:          d,
			IsValid:           d.IsValid(now),
			AppliedToArtworks: counts[d.ID],
		})
	}
	return views, nil
}

// CreateDiscount 校验并创建折扣码
func (s *DiscountService) CreateDiscount(artistID uint, input CreateDiscountInput) (*models.Discount, error) {
	code := strings.TrimSpace(input.Code)
	description := sanitizeText(input.Description)
	now := s.now()

	errs := fieldErrors{}
	if n := len(code); n < 3 || n > 50 {
		errs.add("code", "Code must be between 3 and 50 characters")
	} else if !discountCodePattern.MatchString(code) {
		errs.add("code", "Code may only contain uppercase letters, numbers, underscores and hyphens")
	}
	if n := len([]rune(description)); n < 3 || n > 255 {
		errs.add("description", "Description must be between 3 and 255 characters")
	}
	if input.Percentage < 1 || input.Percentage > 100 {
		errs.add("percentage", "Percentage must be between 1 and 100")
	}
	if input.MaxUses != nil && *input.MaxUses < 1 {
		errs.add("maxUses", "Max uses must be at least 1")
	}
	if input.StartDate.IsZero() || input.StartDate.Before(now) {
		errs.add("startDate", "Start date cannot be in the past")
	}
	if !input.EndDate.After(input.StartDate) {
		errs.add("endDate", "End date must be after start date")
	}
	artworkIDs := uniqueIDs(input.ArtworkIDs)
	if len(artworkIDs) > 0 {
		owned, err := s.artworkRepo.CountOwned(artistID, artworkIDs)
		if err != nil {
			return nil, err
		}
		if owned != int64(len(artworkIDs)) {
			errs.add("artworkIds", "Some selected artworks were not found")
		}
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	exists, err := s.discountRepo.CodeExists(code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDiscountCodeExists
	}

	discount := &models.Discount{
		ArtistID:    artistID,
		Code:        code,
		Description: description,
		Percentage:  input.Percentage,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		MaxUses:     input.MaxUses,
		IsActive:    true,
	}
	if err := s.discountRepo.CreateWithArtworks(discount, artworkIDs); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDiscountCodeExists
		}
		return nil, err
	}
	logger.Infow("discount_created", "artist_id", artistID, "discount_id", discount.ID, "code", code, "artwork_count", len(artworkIDs))
	return discount, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// isUniqueViolation 识别并发写入触发的唯一约束冲突
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
