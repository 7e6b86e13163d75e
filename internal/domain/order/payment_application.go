package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentApplication records that a provider transaction was applied to an
// order for a payment type. (OrderID, Type, ProviderTransactionID) is unique,
// which makes redelivered notifications no-ops.
type PaymentApplication struct {
	ID                    uuid.UUID
	OrderID               uuid.UUID
	Type                  PaymentType
	ProviderTransactionID string
	Provider              string
	Amount                decimal.Decimal
	PayerIdentity         string
	Effective             bool // false when the covered flags were already set
	AppliedAt             time.Time
}

// NewPaymentApplication builds an application for receipt against o
func NewPaymentApplication(o *Order, r PaymentReceipt) *PaymentApplication {
	return &PaymentApplication{
		ID:                    uuid.New(),
		OrderID:               o.ID,
		Type:                  r.Type,
		ProviderTransactionID: r.ProviderTransactionID,
		Provider:              r.Provider,
		Amount:                o.AmountFor(r.Type),
		PayerIdentity:         r.PayerIdentity,
		AppliedAt:             time.Now(),
	}
}
