package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/order"
	"github.com/napsterimports/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProviderManual names payments confirmed by staff rather than a gateway
const ProviderManual = "manual"

// CheckoutRequest asks a provider for a hosted checkout session
type CheckoutRequest struct {
	OrderID       uuid.UUID
	PaymentType   order.PaymentType
	Amount        decimal.Decimal
	Currency      string
	CustomerEmail string
	Description   string
	RedirectURL   string // where the customer returns after paying
	CallbackURL   string // where the provider posts the notification
}

// Reference returns the provider reference for the request
func (r CheckoutRequest) Reference() string {
	return EncodeReference(r.OrderID, r.PaymentType)
}

// Provider is a payment gateway capable of hosted checkout and notifications
type Provider interface {
	// Name returns the provider identifier stored with applied payments
	Name() string
	// Initiate creates a checkout session and returns the customer redirect URL
	Initiate(ctx context.Context, req CheckoutRequest) (string, error)
	// NormalizeWebhook translates a raw notification body
	NormalizeWebhook(raw []byte) (NormalizedEvent, error)
}

// Gateway failures surfaced by provider adapters
var (
	// ErrGatewayUnavailable means the provider could not be reached or failed internally
	ErrGatewayUnavailable = shared.NewDomainError("GATEWAY_UNAVAILABLE", "Payment provider is unavailable")
	// ErrGatewayRejected means the provider refused the request
	ErrGatewayRejected = shared.NewDomainError("GATEWAY_REJECTED", "Payment provider rejected the request")
)
