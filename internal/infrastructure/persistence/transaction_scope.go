package persistence

import (
	"context"

	apppayment "github.com/napsterimports/backend/internal/application/payment"
	appshipping "github.com/napsterimports/backend/internal/application/shipping"
	"github.com/napsterimports/backend/internal/domain/order"
	"github.com/napsterimports/backend/internal/domain/shipping"
	"gorm.io/gorm"
)

// GormShippingTransactionScope implements the shipping TransactionScope using GORM transactions.
// Config writes, audit entries and batch transitions commit or roll back together.
type GormShippingTransactionScope struct {
	db *gorm.DB
}

// NewGormShippingTransactionScope creates a new GormShippingTransactionScope.
func NewGormShippingTransactionScope(db *gorm.DB) *GormShippingTransactionScope {
	return &GormShippingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormShippingTransactionScope) Execute(ctx context.Context, fn func(repos appshipping.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormShippingRepositories{tx: tx})
	})
}

// gormShippingRepositories provides the shipping repositories within a transaction.
type gormShippingRepositories struct {
	tx *gorm.DB
}

// ConfigRepo returns the rate config repository scoped to the current transaction.
func (r *gormShippingRepositories) ConfigRepo() shipping.ConfigRepository {
	return NewGormConfigRepository(r.tx)
}

// AuditRepo returns the audit log repository scoped to the current transaction.
func (r *gormShippingRepositories) AuditRepo() shipping.AuditLogRepository {
	return NewGormAuditLogRepository(r.tx)
}

// BatchRepo returns the batch repository scoped to the current transaction.
func (r *gormShippingRepositories) BatchRepo() shipping.BatchRepository {
	return NewGormBatchRepository(r.tx)
}

// GormPaymentTransactionScope implements the payment TransactionScope using GORM transactions.
// The payment application row and the order update commit together, so a
// lost version race also discards the application inserted by that attempt.
type GormPaymentTransactionScope struct {
	db *gorm.DB
}

// NewGormPaymentTransactionScope creates a new GormPaymentTransactionScope.
func NewGormPaymentTransactionScope(db *gorm.DB) *GormPaymentTransactionScope {
	return &GormPaymentTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
func (s *GormPaymentTransactionScope) Execute(ctx context.Context, fn func(repos apppayment.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormPaymentRepositories{tx: tx})
	})
}

type gormPaymentRepositories struct {
	tx *gorm.DB
}

// OrderRepo returns the order repository scoped to the current transaction.
func (r *gormPaymentRepositories) OrderRepo() order.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// PaymentRepo returns the payment application repository scoped to the current transaction.
func (r *gormPaymentRepositories) PaymentRepo() order.PaymentApplicationRepository {
	return NewGormPaymentApplicationRepository(r.tx)
}

var (
	_ appshipping.TransactionScope          = (*GormShippingTransactionScope)(nil)
	_ appshipping.TransactionalRepositories = (*gormShippingRepositories)(nil)
	_ apppayment.TransactionScope           = (*GormPaymentTransactionScope)(nil)
	_ apppayment.TransactionalRepositories  = (*gormPaymentRepositories)(nil)
)
