package artist

import (
	"strings"

	"github.com/artmart-next/internal/http/handlers/shared"
	"github.com/artmart-next/internal/http/response"
	"github.com/artmart-next/internal/i18n"
	"github.com/artmart-next/internal/service"

	"github.com/gin-gonic/gin"
)

var orderErrorRules = []shared.MappedError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
}

// ListOrders 列出艺术家全部订单行
func (h *Handler) ListOrders(c *gin.Context) {
	artist, ok := shared.RequireArtist(c)
	if !ok {
		return
	}
	lines, err := h.OrderService.ListOrders(artist.ID)
	if err != nil {
		shared.RespondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, lines)
}

// ListPendingOrders 列出待发货订单行
func (h *Handler) ListPendingOrders(c *gin.Context) {
	artist, ok := shared.RequireArtist(c)
	if !ok {
		return
	}
	lines, err := h.OrderService.ListPendingOrders(artist.ID)
	if err != nil {
		shared.RespondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, lines)
}

// ListRecentSales 最近 5 条销售记录（含买家）
func (h *Handler) ListRecentSales(c *gin.Context) {
	artist, ok := shared.RequireArtist(c)
	if !ok {
		return
	}
	lines, err := h.OrderService.ListRecentSales(artist.ID)
	if err != nil {
		shared.RespondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, lines)
}

// UpdateShippingStatusRequest 发货状态更新请求
type UpdateShippingStatusRequest struct {
	Status string `json:"status"`
}

// UpdateShippingStatus 推进订单发货状态
func (h *Handler) UpdateShippingStatus(c *gin.Context) {
	artist, ok := shared.RequireArtist(c)
	if !ok {
		return
	}
	orderID, ok := parsePathID(c, "error.order_id_invalid")
	if !ok {
		return
	}
	var req UpdateShippingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	target := strings.ToUpper(strings.TrimSpace(req.Status))
	result, err := h.OrderService.UpdateShippingStatus(c.Request.Context(), artist.ID, orderID, target)
	if err != nil {
		shared.RespondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "success.shipping_updated"), gin.H{
		"success":         true,
		"order_id":        result.OrderID,
		"shipping_status": result.ShippingStatus,
	})
}
