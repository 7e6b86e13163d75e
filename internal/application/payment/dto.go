package payment

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutRequest asks for a hosted checkout session for part of an order
type CheckoutRequest struct {
	OrderID     uuid.UUID `json:"order_id" binding:"required"`
	PaymentType string    `json:"payment_type" binding:"omitempty,oneof=item shipping full"`
	Email       string    `json:"email" binding:"omitempty,email,max=254"`
}

// CheckoutResponse carries the provider redirect for a checkout session
type CheckoutResponse struct {
	CheckoutURL string          `json:"checkout_url"`
	Reference   string          `json:"reference"`
	PaymentType string          `json:"payment_type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
}

// ManualConfirmRequest records a payment taken outside any gateway
type ManualConfirmRequest struct {
	PaymentType   string `json:"payment_type" binding:"omitempty,oneof=item shipping full"`
	TransactionID string `json:"transaction_id" binding:"required,min=1,max=100"`
	PayerIdentity string `json:"payer_identity" binding:"max=254"`
}

// ReconcileResponse reports what a notification did
type ReconcileResponse struct {
	Result string `json:"result"`
}
