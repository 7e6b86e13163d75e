package payment

import (
	"context"

	"github.com/napsterimports/backend/internal/domain/order"
)

// TransactionScope provides transactional access to the settlement repositories.
// The payment application insert and the order update commit or roll back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories bound to one transaction
type TransactionalRepositories interface {
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() order.OrderRepository
	// PaymentRepo returns the payment application repository scoped to the current transaction
	PaymentRepo() order.PaymentApplicationRepository
}

// NoOpTransactionScope runs functions against plain repositories without a transaction.
// Useful for tests where atomicity is not under test.
type NoOpTransactionScope struct {
	orderRepo   order.OrderRepository
	paymentRepo order.PaymentApplicationRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(orderRepo order.OrderRepository, paymentRepo order.PaymentApplicationRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{orderRepo: orderRepo, paymentRepo: paymentRepo}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() order.OrderRepository { return s.orderRepo }

// PaymentRepo returns the payment application repository.
func (s *NoOpTransactionScope) PaymentRepo() order.PaymentApplicationRepository { return s.paymentRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
