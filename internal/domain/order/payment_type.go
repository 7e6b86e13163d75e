package order

import (
	"fmt"
	"strings"

	"github.com/napsterimports/backend/internal/domain/shared"
)

// PaymentType is the portion of an order a payment settles
type PaymentType string

const (
	PaymentTypeItem     PaymentType = "item"
	PaymentTypeShipping PaymentType = "shipping"
	PaymentTypeFull     PaymentType = "full"
)

// IsValid checks if the type is a valid PaymentType
func (p PaymentType) IsValid() bool {
	return p == PaymentTypeItem || p == PaymentTypeShipping || p == PaymentTypeFull
}

// String returns the string representation of PaymentType
func (p PaymentType) String() string {
	return string(p)
}

// CoversItems reports whether the payment settles the item portion
func (p PaymentType) CoversItems() bool {
	return p == PaymentTypeItem || p == PaymentTypeFull
}

// CoversShipping reports whether the payment settles the shipping portion
func (p PaymentType) CoversShipping() bool {
	return p == PaymentTypeShipping || p == PaymentTypeFull
}

// ParsePaymentType parses a payment type, treating empty as full
func ParsePaymentType(s string) (PaymentType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PaymentTypeFull, nil
	}
	p := PaymentType(s)
	if !p.IsValid() {
		return "", shared.NewDomainError("INVALID_PAYMENT_TYPE", fmt.Sprintf("Unknown payment type %q", s))
	}
	return p, nil
}
