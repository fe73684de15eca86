package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/artmart-next/internal/cache"
	"github.com/artmart-next/internal/constants"
	"github.com/artmart-next/internal/logger"
	"github.com/artmart-next/internal/models"
	"github.com/artmart-next/internal/payment/paystack"
	"github.com/artmart-next/internal/repository"
)

const (
	bankListCacheKey = "paystack:banks"
	bankListCacheTTL = 24 * time.Hour
	minBioLength     = 10
)

var accountNumberPattern = regexp.MustCompile(`^\d{10}$`)

// BankProvider 银行账户与结算子账户提供方
type BankProvider interface {
	ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*paystack.ResolvedAccount, error)
	CreateSubAccount(ctx context.Context, input paystack.SubAccountInput) (*paystack.SubAccount, error)
	ListBanks(ctx context.Context) ([]paystack.Bank, error)
}

// RoleAssigner 角色授予
type RoleAssigner interface {
	AssignUserRole(userID uint, role string) error
}

// ArtistService 艺术家档案服务
type ArtistService struct {
	artistRepo repository.ArtistRepository
	banks      BankProvider
	roles      RoleAssigner
}

// NewArtistService 创建艺术家服务
func NewArtistService(artistRepo repository.ArtistRepository, banks BankProvider, roles RoleAssigner) *ArtistService {
	return &ArtistService{artistRepo: artistRepo, banks: banks, roles: roles}
}

// CreateArtistInput 创建艺术家档案参数
type CreateArtistInput struct {
	Name          string
	Bio           string
	PortfolioURL  string
	AccountNumber string
	BankCode      string
}

// ResolveArtist 查询用户对应的艺术家档案，不存在时返回 nil
func (s *ArtistService) ResolveArtist(userID uint) (*models.Artist, error) {
	if userID == 0 {
		return nil, nil
	}
	return s.artistRepo.GetByUserID(userID)
}

// CreateProfile 创建艺术家档案并开通 Paystack 结算子账户
func (s *ArtistService) CreateProfile(ctx context.Context, userID uint, input CreateArtistInput) (*models.Artist, error) {
	name := sanitizeText(input.Name)
	bio := sanitizeText(input.Bio)
	portfolio := strings.TrimSpace(input.PortfolioURL)
	accountNumber := strings.TrimSpace(input.AccountNumber)
	bankCode := strings.TrimSpace(input.BankCode)

	errs := fieldErrors{}
	if len([]rune(name)) < minNameLength {
		errs.add("name", "Name must be at least 3 characters")
	}
	if portfolio != "" && !strings.HasPrefix(portfolio, "http") {
		errs.add("portfolioUrl", "Portfolio URL must start with http")
	}
	if len([]rune(bio)) < minBioLength {
		errs.add("bio", "Bio must be at least 10 characters")
	}
	if !accountNumberPattern.MatchString(accountNumber) {
		errs.add("accountNumber", "Account number must be exactly 10 digits")
	}
	if bankCode == "" {
		errs.add("bankCode", "Bank is required")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	existing, err := s.artistRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrArtistProfileExists
	}

	sub, err := s.banks.CreateSubAccount(ctx, paystack.SubAccountInput{
		BusinessName:  name,
		BankCode:      bankCode,
		AccountNumber: accountNumber,
		Description:   "Subaccount for " + name,
	})
	if err != nil {
		logger.Warnw("artist_subaccount_create_failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrSubaccountFailed, err)
	}

	artist := &models.Artist{
		UserID:                 userID,
		Name:                   name,
		Bio:                    bio,
		PortfolioURL:           portfolio,
		PaystackSubaccountCode: sub.SubaccountCode,
		BankCode:               bankCode,
		AccountNumberLast4:     accountNumber[len(accountNumber)-4:],
	}
	if err := s.artistRepo.Create(artist); err != nil {
		if isUniqueViolation(err) {
			logger.Warnw("artist_profile_create_conflict", "user_id", userID, "subaccount_code", sub.SubaccountCode)
			return nil, ErrArtistProfileExists
		}
		return nil, err
	}
	if s.roles != nil {
		if err := s.roles.AssignUserRole(userID, constants.RoleArtist); err != nil {
			logger.Errorw("artist_role_assign_failed", "user_id", userID, "artist_id", artist.ID, "error", err)
		}
	}
	logger.Infow("artist_profile_created", "user_id", userID, "artist_id", artist.ID, "subaccount_code", sub.SubaccountCode)
	return artist, nil
}

// ValidateBankDetails 通过 Paystack 校验账号与银行是否匹配
func (s *ArtistService) ValidateBankDetails(ctx context.Context, accountNumber, bankCode string) (*paystack.ResolvedAccount, error) {
	accountNumber = strings.TrimSpace(accountNumber)
	bankCode = strings.TrimSpace(bankCode)
	if !accountNumberPattern.MatchString(accountNumber) || bankCode == "" {
		return nil, ErrInvalidBankDetails
	}
	account, err := s.banks.ResolveAccount(ctx, accountNumber, bankCode)
	if err != nil {
		if errors.Is(err, paystack.ErrRejected) || errors.Is(err, paystack.ErrResponseInvalid) {
			return nil, ErrInvalidBankDetails
		}
		return nil, fmt.Errorf("%w: %v", ErrPaystackRequestFailed, err)
	}
	return account, nil
}

// ListBanks 获取银行列表，结果缓存 24 小时
func (s *ArtistService) ListBanks(ctx context.Context) ([]paystack.Bank, error) {
	var cached []paystack.Bank
	hit, err := cache.GetJSON(ctx, bankListCacheKey, &cached)
	if err == nil && hit {
		return cached, nil
	}
	banks, err := s.banks.ListBanks(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaystackRequestFailed, err)
	}
	if err := cache.SetJSON(ctx, bankListCacheKey, banks, bankListCacheTTL); err != nil {
		logger.Warnw("bank_list_cache_write_failed", "error", err)
	}
	return banks, nil
}
