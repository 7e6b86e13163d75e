package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	paymentapp "github.com/napsterimports/backend/internal/application/payment"
	"github.com/napsterimports/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// PaymentHandler serves checkout, provider webhooks and manual confirmation
type PaymentHandler struct {
	BaseHandler
	checkout *paymentapp.CheckoutService
	webhooks *paymentapp.WebhookService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(checkout *paymentapp.CheckoutService, webhooks *paymentapp.WebhookService) *PaymentHandler {
	return &PaymentHandler{checkout: checkout, webhooks: webhooks}
}

// Checkout godoc
// @ID           initiateCheckout
// @Summary      Start a hosted checkout session
// @Description  The amount is computed on the server from the order and payment type
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body payment.CheckoutRequest true "Checkout request"
// @Success      200 {object} dto.Response
// @Failure      409 {object} dto.Response "Already paid"
// @Failure      502 {object} dto.Response "Gateway failure"
// @Security     BearerAuth
// @Router       /payments/checkout [post]
func (h *PaymentHandler) Checkout(c *gin.Context) {
	_, userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req paymentapp.CheckoutRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.checkout.Initiate(c.Request.Context(), req, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Webhook godoc
// @ID           paymentWebhook
// @Summary      Receive a provider payment notification
// @Description  Answers 200 for every notification that needs no retry, including ones that change nothing
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        provider path  string true  "Provider name"
// @Param        token    query string false "Callback token"
// @Success      200 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /payments/webhook/{provider} [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	provider := c.Param("provider")
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Unable to read request body")
		return
	}

	result, err := h.webhooks.HandleWebhook(c.Request.Context(), provider, payload, c.Query("token"))
	if err != nil {
		logger.GetGinLogger(c).Warn("Webhook not acknowledged",
			zap.String("provider", provider),
			zap.String("result", result.String()),
			zap.Error(err))
		h.HandleError(c, err)
		return
	}
	h.Success(c, paymentapp.ReconcileResponse{Result: result.String()})
}

// ConfirmManual godoc
// @ID           confirmManualPayment
// @Summary      Record a payment taken outside the gateway
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id      path string                       true "Order ID" format(uuid)
// @Param        request body payment.ManualConfirmRequest true "Payment details"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /orders/{id}/pay [put]
func (h *PaymentHandler) ConfirmManual(c *gin.Context) {
	_, userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req paymentapp.ManualConfirmRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.webhooks.ConfirmManual(c.Request.Context(), id, req, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, paymentapp.ReconcileResponse{Result: result.String()})
}
