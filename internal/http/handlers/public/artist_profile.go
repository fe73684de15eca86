package public

import (
	"github.com/artmart-next/internal/constants"
	"github.com/artmart-next/internal/http/handlers/shared"
	"github.com/artmart-next/internal/http/response"
	"github.com/artmart-next/internal/i18n"
	"github.com/artmart-next/internal/service"

	"github.com/gin-gonic/gin"
)

var artistProfileErrorRules = []shared.MappedError{
	{Target: service.ErrArtistProfileExists, Code: response.CodeBadRequest, Key: "error.artist_profile_exists"},
	{Target: service.ErrSubaccountFailed, Code: response.CodeBadGateway, Key: "error.subaccount_failed"},
}

var bankErrorRules = []shared.MappedError{
	{Target: service.ErrInvalidBankDetails, Code: response.CodeBadRequest, Key: "error.invalid_bank_details"},
	{Target: service.ErrPaystackRequestFailed, Code: response.CodeBadGateway, Key: "error.payment_provider"},
}

// GetMyArtist 获取当前用户的艺术家资料，未创建时 data 为 null
func (h *Handler) GetMyArtist(c *gin.Context) {
	artist, _ := shared.CurrentArtist(c)
	response.Success(c, artist)
}

// CreateArtistRequest 创建艺术家资料请求
type CreateArtistRequest struct {
	Name          string `json:"name"`
	Bio           string `json:"bio"`
	PortfolioURL  string `json:"portfolioUrl"`
	AccountNumber string `json:"accountNumber"`
	BankCode      string `json:"bankCode"`
}

// CreateMyArtist 创建艺术家资料并开通结算子账户
func (h *Handler) CreateMyArtist(c *gin.Context) {
	userID, ok := shared.RequireUserID(c)
	if !ok {
		return
	}
	var req CreateArtistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	artist, err := h.ArtistService.CreateProfile(c.Request.Context(), userID, service.CreateArtistInput{
		Name:          req.Name,
		Bio:           req.Bio,
		PortfolioURL:  req.PortfolioURL,
		AccountNumber: req.AccountNumber,
		BankCode:      req.BankCode,
	})
	if err != nil {
		shared.RespondWithMappedError(c, err, artistProfileErrorRules, response.CodeInternal, "error.internal")
		return
	}

	h.toaster.SetKey(c, constants.ToastIntentSuccess, "success.artist_created")
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "success.artist_created"), artist)
}

// ListBanks 获取可用结算银行
func (h *Handler) ListBanks(c *gin.Context) {
	banks, err := h.ArtistService.ListBanks(c.Request.Context())
	if err != nil {
		shared.RespondWithMappedError(c, err, bankErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, banks)
}

// ValidateBankRequest 银行账户校验请求
type ValidateBankRequest struct {
	AccountNumber string `json:"accountNumber"`
	BankCode      string `json:"bankCode"`
}

// ValidateBank 校验账号与银行是否匹配
func (h *Handler) ValidateBank(c *gin.Context) {
	var req ValidateBankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	account, err := h.ArtistService.ValidateBankDetails(c.Request.Context(), req.AccountNumber, req.BankCode)
	if err != nil {
		shared.RespondWithMappedError(c, err, bankErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "success.bank_validated"), gin.H{
		"account_name": account.AccountName,
	})
}
