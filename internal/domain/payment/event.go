package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/order"
	"github.com/napsterimports/backend/internal/domain/shared"
)

// Outcome is the normalized result of a provider notification
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeOther   Outcome = "other"
)

// NormalizedEvent is a provider notification translated into the shape the
// reconciler consumes
type NormalizedEvent struct {
	OrderReference        string
	PaymentType           order.PaymentType
	Outcome               Outcome
	ProviderTransactionID string
	PayerIdentity         string
	OccurredAt            time.Time
	Provider              string
}

// IsSuccess reports whether the payment succeeded
func (e NormalizedEvent) IsSuccess() bool {
	return e.Outcome == OutcomeSuccess
}

// IdempotencyKey identifies the event for the cache front of the reconciler
func (e NormalizedEvent) IdempotencyKey() string {
	return fmt.Sprintf("payment:%s:%s:%s", e.Provider, e.OrderReference, e.ProviderTransactionID)
}

// Receipt converts the event into the order payment receipt it represents
func (e NormalizedEvent) Receipt() order.PaymentReceipt {
	return order.PaymentReceipt{
		Type:                  e.PaymentType,
		Provider:              e.Provider,
		ProviderTransactionID: e.ProviderTransactionID,
		PayerIdentity:         e.PayerIdentity,
		PaidAt:                e.OccurredAt,
	}
}

// referenceSeparator splits the order ID from the payment type in a reference
const referenceSeparator = ":"

// EncodeReference builds the provider reference "<orderId>:<paymentType>"
func EncodeReference(orderID uuid.UUID, pt order.PaymentType) string {
	return orderID.String() + referenceSeparator + string(pt)
}

// ErrInvalidReference means a reference does not name an order
var ErrInvalidReference = shared.NewDomainError("INVALID_REFERENCE", "Payment reference is not a valid order reference")

// ParseReference splits a provider reference. A bare order ID stands for a
// full payment.
func ParseReference(ref string) (uuid.UUID, order.PaymentType, error) {
	ref = strings.TrimSpace(ref)
	idPart, typePart, _ := strings.Cut(ref, referenceSeparator)

	id, err := uuid.Parse(idPart)
	if err != nil {
		return uuid.Nil, "", ErrInvalidReference
	}
	pt, err := order.ParsePaymentType(typePart)
	if err != nil {
		return uuid.Nil, "", ErrInvalidReference
	}
	return id, pt, nil
}
