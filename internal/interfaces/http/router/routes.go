package router

import (
	"github.com/gin-gonic/gin"
	"github.com/napsterimports/backend/internal/infrastructure/auth"
	"github.com/napsterimports/backend/internal/interfaces/http/handler"
	"github.com/napsterimports/backend/internal/interfaces/http/middleware"
)

// Handlers groups the HTTP handlers mounted by RegisterAPI
type Handlers struct {
	Shipping *handler.ShippingHandler
	Batch    *handler.BatchHandler
	Order    *handler.OrderHandler
	Payment  *handler.PaymentHandler
	Health   *handler.HealthHandler
}

// RegisterAPI mounts every API route with its permission gate. authn must
// reject unauthenticated requests.
func RegisterAPI(r *Router, h Handlers, authn gin.HandlerFunc) {
	perm := middleware.RequirePermission

	shipping := NewDomainGroup("shipping", "/shipping").Use(authn).
		GET("/config", perm(auth.PermViewShippingRates), h.Shipping.GetConfig).
		PUT("/config", perm(auth.PermManageShippingRates), h.Shipping.UpdateConfig).
		GET("/audit-logs", perm(auth.PermViewAuditLogs), h.Shipping.ListAuditLogs).
		POST("/quote", h.Shipping.Quote)

	// /batches/active is public; everything else in the group is staff only
	batches := NewDomainGroup("batches", "/batches").
		GET("/active", h.Batch.GetActive).
		POST("", authn, perm(auth.PermManageShipments), h.Batch.Create).
		GET("", authn, perm(auth.PermManageShipments), h.Batch.List).
		GET("/:id", authn, perm(auth.PermManageShipments), h.Batch.Get).
		PUT("/:id/status", authn, perm(auth.PermManageShipments), h.Batch.UpdateStatus).
		GET("/:id/settlement", authn, perm(auth.PermViewPayments), h.Batch.Settlement)

	orders := NewDomainGroup("orders", "/orders").Use(authn).
		POST("", h.Order.Create).
		GET("/mine", h.Order.ListMine).
		GET("", perm(auth.PermViewOrders), h.Order.List).
		GET("/:id", h.Order.Get).
		PUT("/:id/pay", perm(auth.PermConfirmPayments), h.Payment.ConfirmManual).
		PUT("/:id/deliver", perm(auth.PermUpdateOrderStatus), h.Order.MarkDelivered).
		PUT("/:id/status", perm(auth.PermUpdateOrderStatus), h.Order.UpdateStatus)

	// Webhooks authenticate with the callback token, not a JWT
	payments := NewDomainGroup("payments", "/payments").
		POST("/checkout", authn, h.Payment.Checkout).
		POST("/webhook/:provider", h.Payment.Webhook)

	system := NewDomainGroup("system", "").
		GET("/ping", h.Health.Ping)

	r.Register(shipping, batches, orders, payments, system)
	r.Setup()
}
