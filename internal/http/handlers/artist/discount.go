package artist

import (
	"time"

	"github.com/artmart-next/internal/http/handlers/shared"
	"github.com/artmart-next/internal/http/response"
	"github.com/artmart-next/internal/i18n"
	"github.com/artmart-next/internal/service"

	"github.com/gin-gonic/gin"
)

var discountErrorRules = []shared.MappedError{
	{Target: service.ErrDiscountCodeExists, Code: response.CodeBadRequest, Key: "error.discount_code_exists"},
}

// ListDiscounts 列出折扣码及实时有效性
func (h *Handler) ListDiscounts(c *gin.Context) {
	artist, ok := shared.RequireArtist(c)
	if !ok {
		return
	}
	discounts, err := h.DiscountService.ListDiscounts(artist.ID)
	if err != nil {
		shared.RespondWithMappedError(c, err, discountErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, discounts)
}

// CreateDiscountRequest 创建折扣请求
type CreateDiscountRequest struct {
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Percentage  int       `json:"percentage"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	MaxUses     *int      `json:"maxUses"`
	ArtworkIDs  []uint    `json:"artworkIds"`
}

// CreateDiscount 创建折扣码
func (h *Handler) CreateDiscount(c *gin.Context) {
	artist, ok := shared.RequireArtist(c)
	if !ok {
		return
	}
	var req CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	discount, err := h.DiscountService.CreateDiscount(artist.ID, service.CreateDiscountInput{
		Code:        req.Code,
		Description: req.Description,
		Percentage:  req.Percentage,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		MaxUses:     req.MaxUses,
		ArtworkIDs:  req.ArtworkIDs,
	})
	if err != nil {
		shared.RespondWithMappedError(c, err, discountErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "success.discount_created"), discount)
}
