package artist

import (
	"strconv"
	"strings"

	"github.com/artmart-next/internal/http/handlers/shared"
	"github.com/artmart-next/internal/http/response"
	"github.com/artmart-next/internal/i18n"
	"github.com/artmart-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// artworkImagesField 图片表单字段
const artworkImagesField = "images"

var artworkErrorRules = []shared.MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.artwork_not_found"},
	{Target: service.ErrArtworkNotFound, Code: response.CodeNotFound, Key: "error.artwork_not_found"},
	{Target: service.ErrUploadFailed, Code: response.CodeInternal, Key: "error.upload_failed"},
	{Target: service.ErrPreviewHashFailed, Code: response.CodeInternal, Key: "error.preview_failed"},
}

// ListArtworks 分页查询作品
func (h *Handler) ListArtworks(c *gin.Context) {
	artist, ok := shared.RequireArtist(c)
	if !ok {
		return
	}
	page, limit := shared.ParsePageQuery(c)
	result, err := h.CatalogService.ListArtworks(artist.ID, service.ListArtworksInput{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
	})
	if err != nil {
		shared.RespondWithMappedError(c, err, artworkErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.SuccessWithPage(c, result.Items, response.Pagination{
		CurrentPage: result.Pagination.CurrentPage,
		TotalPages:  result.Pagination.TotalPages,
		TotalItems:  result.Pagination.TotalItems,
	})
}

// GetArtwork 获取单个作品
func (h *Handler) GetArtwork(c *gin.Context) {
	artist, ok := shared.RequireArtist(c)
	if !ok {
		return
	}
	artworkID, ok := parsePathID(c, "error.artwork_id_invalid")
	if !ok {
		return
	}
	artwork, err := h.CatalogService.GetArtwork(artist.ID, artworkID)
	if err != nil {
		shared.RespondWithMappedError(c, err, artworkErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, artwork)
}

// CreateArtwork 创建作品（multipart 表单，images 字段上传 2 到 4 张图片）
func (h *Handler) CreateArtwork(c *gin.Context) {
	artist, ok := shared.RequireArtist(c)
	if !ok {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	input := service.CreateArtworkInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Price:       formDecimal(c, "price"),
		Dimensions:  c.PostForm("dimensions"),
		Weight:      formDecimal(c, "weight"),
		Condition:   strings.ToUpper(strings.TrimSpace(c.PostForm("condition"))),
		Category:    strings.ToUpper(strings.TrimSpace(c.PostForm("category"))),
		Stock: service.StockInput{
			Unlimited: formBool(c, "isUnlimitedStock"),
			Quantity:  formInt(c, "stock"),
		},
		Images: form.File[artworkImagesField],
	}

	artwork, err := h.CatalogService.CreateArtwork(c.Request.Context(), artist.ID, input)
	if err != nil {
		shared.RespondWithMappedError(c, err, artworkErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "success.artwork_created"), artwork)
}

// formDecimal 解析失败时返回 0，由 service 层给出字段错误
func formDecimal(c *gin.Context, key string) decimal.Decimal {
	value, err := decimal.NewFromString(strings.TrimSpace(c.PostForm(key)))
	if err != nil {
		return decimal.Zero
	}
	return value
}

func formInt(c *gin.Context, key string) int {
	value, err := strconv.Atoi(strings.TrimSpace(c.PostForm(key)))
	if err != nil {
		return 0
	}
	return value
}

func formBool(c *gin.Context, key string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(c.PostForm(key)))
	return err == nil && value
}
