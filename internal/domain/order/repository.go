package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/shared"
)

// OrderRepository persists orders
type OrderRepository interface {
	// FindByID finds an order by ID, returning shared.ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindByCustomer lists a customer's orders, newest first
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Order, int64, error)
	// FindAll lists orders, newest first by default
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, int64, error)
	// Create inserts a new order
	Create(ctx context.Context, o *Order) error
	// SaveWithLock writes o only if the stored version still equals o.Version,
	// returning shared.ErrConcurrencyConflict otherwise
	SaveWithLock(ctx context.Context, o *Order) error
}

// PaymentApplicationRepository stores applied provider transactions
type PaymentApplicationRepository interface {
	// Insert stores app unless (order, type, transaction) already exists.
	// It reports whether a row was inserted.
	Insert(ctx context.Context, app *PaymentApplication) (bool, error)
	// ListByOrder returns the applications recorded for an order, oldest first
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]PaymentApplication, error)
}
