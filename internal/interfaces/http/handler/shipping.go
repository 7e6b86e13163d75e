package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	orderapp "github.com/napsterimports/backend/internal/application/order"
	shippingapp "github.com/napsterimports/backend/internal/application/shipping"
	"github.com/napsterimports/backend/internal/interfaces/http/dto"
)

// ShippingHandler serves the rate configuration, its audit log and quotes
type ShippingHandler struct {
	BaseHandler
	rates  *shippingapp.RateConfigService
	orders *orderapp.OrderService
}

// NewShippingHandler creates a new ShippingHandler
func NewShippingHandler(rates *shippingapp.RateConfigService, orders *orderapp.OrderService) *ShippingHandler {
	return &ShippingHandler{rates: rates, orders: orders}
}

// GetConfig godoc
// @ID           getShippingConfig
// @Summary      Get shipping rate configuration
// @Description  Returns the live rate configuration together with the derived per-unit rates
// @Tags         shipping
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Security     BearerAuth
// @Router       /shipping/config [get]
func (h *ShippingHandler) GetConfig(c *gin.Context) {
	cfg, err := h.rates.GetConfigWithRates(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cfg)
}

// UpdateConfig godoc
// @ID           updateShippingConfig
// @Summary      Update shipping rates
// @Description  Applies a partial update. Every changed field lands in one audit entry.
// @Tags         shipping
// @Accept       json
// @Produce      json
// @Param        request body shipping.UpdateConfigRequest true "Changed rate fields"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /shipping/config [put]
func (h *ShippingHandler) UpdateConfig(c *gin.Context) {
	claims, userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req shippingapp.UpdateConfigRequest
	if !h.bindJSON(c, &req) {
		return
	}

	actor := shippingapp.Actor{ID: userID, Name: claims.Name, Origin: c.ClientIP()}
	resp, err := h.rates.UpdateConfig(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListAuditLogs godoc
// @ID           listShippingAuditLogs
// @Summary      List rate change audit entries
// @Tags         shipping
// @Produce      json
// @Param        page      query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /shipping/audit-logs [get]
func (h *ShippingHandler) ListAuditLogs(c *gin.Context) {
	var q dto.PageQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.rates.ListAuditLog(c.Request.Context(), q.Page, q.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(page))
}

// Quote godoc
// @ID           quoteShipping
// @Summary      Estimate shipping for a cart
// @Tags         shipping
// @Accept       json
// @Produce      json
// @Param        request body order.QuoteRequest true "Cart items"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /shipping/quote [post]
func (h *ShippingHandler) Quote(c *gin.Context) {
	var req orderapp.QuoteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	quote, err := h.orders.Quote(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}
