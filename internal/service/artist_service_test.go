package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/artmart-next/internal/constants"
	"github.com/artmart-next/internal/models"
	"github.com/artmart-next/internal/payment/paystack"
	"github.com/artmart-next/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBankProvider struct {
	resolveErr   error
	subaccount   error
	listCalls    int
	subaccountIn []paystack.SubAccountInput
}

func (p *fakeBankProvider) ResolveAccount(_ context.Context, accountNumber, _ string) (*paystack.ResolvedAccount, error) {
	if p.resolveErr != nil {
		return nil, p.resolveErr
	}
	return &paystack.ResolvedAccount{AccountNumber: accountNumber, AccountName: "ADA OBI"}, nil
}

func (p *fakeBankProvider) CreateSubAccount(_ context.Context, input paystack.SubAccountInput) (*paystack.SubAccount, error) {
	p.subaccountIn = append(p.subaccountIn, input)
	if p.subaccount != nil {
		return nil, p.subaccount
	}
	return &paystack.SubAccount{SubaccountCode: "ACCT_test123", BusinessName: input.BusinessName}, nil
}

func (p *fakeBankProvider) ListBanks(context.Context) ([]paystack.Bank, error) {
	p.listCalls++
	return []paystack.Bank{{Name: "Access Bank", Code: "044", Active: true}}, nil
}

type recordingRoles struct {
	granted map[uint][]string
}

func (r *recordingRoles) AssignUserRole(userID uint, role string) error {
	if r.granted == nil {
		r.granted = map[uint][]string{}
	}
	r.granted[userID] = append(r.granted[userID], role)
	return nil
}

func validArtistInput() CreateArtistInput {
	return CreateArtistInput{
		Name:          "Ada Obi",
		Bio:           "Painter working with indigo dyes and oil.",
		PortfolioURL:  "https://ada.example.com",
		AccountNumber: "0123456789",
		BankCode:      "044",
	}
}

func TestCreateArtistProfile(t *testing.T) {
	db := setupServiceTestDB(t)
	user := seedUser(t, db, "ada@example.com")
	banks := &fakeBankProvider{}
	roles := &recordingRoles{}
	svc := NewArtistService(repository.NewArtistRepository(db), banks, roles)

	none, err := svc.ResolveArtist(user.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	artist, err := svc.CreateProfile(context.Background(), user.ID, validArtistInput())
	require.NoError(t, err)
	assert.Equal(t, "ACCT_test123", artist.PaystackSubaccountCode)
	assert.Equal(t, "6789", artist.AccountNumberLast4)
	require.Len(t, banks.subaccountIn, 1)
	assert.Equal(t, "Subaccount for Ada Obi", banks.subaccountIn[0].Description)
	assert.Equal(t, []string{constants.RoleArtist}, roles.granted[user.ID])

	resolved, err := svc.ResolveArtist(user.ID)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, artist.ID, resolved.ID)

	_, err = svc.CreateProfile(context.Background(), user.ID, validArtistInput())
	assert.ErrorIs(t, err, ErrArtistProfileExists)
	assert.Len(t, banks.subaccountIn, 1, "existing profile must not create a second subaccount")
}

// staleArtistRepository 模拟并发请求：读取时尚未看到另一请求已写入的档案
type staleArtistRepository struct {
	repository.ArtistRepository
}

func (r staleArtistRepository) GetByUserID(uint) (*models.Artist, error) {
	return nil, nil
}

func TestCreateArtistProfileConcurrentInsertMapsToExists(t *testing.T) {
	db := setupServiceTestDB(t)
	user := seedUser(t, db, "ada@example.com")
	repo := repository.NewArtistRepository(db)
	first := NewArtistService(repo, &fakeBankProvider{}, nil)
	_, err := first.CreateProfile(context.Background(), user.ID, validArtistInput())
	require.NoError(t, err)

	roles := &recordingRoles{}
	racing := NewArtistService(staleArtistRepository{ArtistRepository: repo}, &fakeBankProvider{}, roles)
	_, err = racing.CreateProfile(context.Background(), user.ID, validArtistInput())
	assert.ErrorIs(t, err, ErrArtistProfileExists)
	assert.Empty(t, roles.granted[user.ID])

	var count int64
	require.NoError(t, db.Model(&models.Artist{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateArtistProfileValidation(t *testing.T) {
	db := setupServiceTestDB(t)
	user := seedUser(t, db, "ada@example.com")
	svc := NewArtistService(repository.NewArtistRepository(db), &fakeBankProvider{}, nil)

	input := validArtistInput()
	input.Name = "Al"
	input.PortfolioURL = "ftp://ada"
	input.Bio = "short"
	input.AccountNumber = "12345"
	input.BankCode = " "
	_, err := svc.CreateProfile(context.Background(), user.ID, input)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"name", "portfolioUrl", "bio", "accountNumber", "bankCode"} {
		assert.Contains(t, verr.Fields, field)
	}
}

func TestCreateArtistProfileSubaccountFailure(t *testing.T) {
	db := setupServiceTestDB(t)
	user := seedUser(t, db, "ada@example.com")
	banks := &fakeBankProvider{subaccount: fmt.Errorf("%w: status=400", paystack.ErrRejected)}
	svc := NewArtistService(repository.NewArtistRepository(db), banks, nil)

	_, err := svc.CreateProfile(context.Background(), user.ID, validArtistInput())
	require.ErrorIs(t, err, ErrSubaccountFailed)

	artist, err := svc.ResolveArtist(user.ID)
	require.NoError(t, err)
	assert.Nil(t, artist)
}

func TestValidateBankDetails(t *testing.T) {
	svc := NewArtistService(nil, &fakeBankProvider{}, nil)
	account, err := svc.ValidateBankDetails(context.Background(), "0123456789", "044")
	require.NoError(t, err)
	assert.Equal(t, "ADA OBI", account.AccountName)

	_, err = svc.ValidateBankDetails(context.Background(), "123", "044")
	assert.ErrorIs(t, err, ErrInvalidBankDetails)

	rejected := NewArtistService(nil, &fakeBankProvider{resolveErr: paystack.ErrRejected}, nil)
	_, err = rejected.ValidateBankDetails(context.Background(), "0123456789", "044")
	assert.ErrorIs(t, err, ErrInvalidBankDetails)

	down := NewArtistService(nil, &fakeBankProvider{resolveErr: paystack.ErrRequestFailed}, nil)
	_, err = down.ValidateBankDetails(context.Background(), "0123456789", "044")
	assert.True(t, errors.Is(err, ErrPaystackRequestFailed))
}

func TestListBanksWithoutCacheCallsProvider(t *testing.T) {
	banks := &fakeBankProvider{}
	svc := NewArtistService(nil, banks, nil)
	list, err := svc.ListBanks(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "044", list[0].Code)
	assert.Equal(t, 1, banks.listCalls)
}
