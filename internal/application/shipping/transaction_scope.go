package shipping

import (
	"context"

	"github.com/napsterimports/backend/internal/domain/shipping"
)

// TransactionScope provides transactional access to shipping repositories.
// All repository operations inside Execute commit or roll back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the shipping repositories bound to one transaction
type TransactionalRepositories interface {
	// ConfigRepo returns the rate config repository scoped to the current transaction
	ConfigRepo() shipping.ConfigRepository
	// AuditRepo returns the audit log repository scoped to the current transaction
	AuditRepo() shipping.AuditLogRepository
	// BatchRepo returns the batch repository scoped to the current transaction
	BatchRepo() shipping.BatchRepository
}

// NoOpTransactionScope runs functions against plain repositories without a transaction.
// Useful for tests where atomicity is not under test.
type NoOpTransactionScope struct {
	configRepo shipping.ConfigRepository
	auditRepo  shipping.AuditLogRepository
	batchRepo  shipping.BatchRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	configRepo shipping.ConfigRepository,
	auditRepo shipping.AuditLogRepository,
	batchRepo shipping.BatchRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		configRepo: configRepo,
		auditRepo:  auditRepo,
		batchRepo:  batchRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ConfigRepo returns the rate config repository.
func (s *NoOpTransactionScope) ConfigRepo() shipping.ConfigRepository { return s.configRepo }

// AuditRepo returns the audit log repository.
func (s *NoOpTransactionScope) AuditRepo() shipping.AuditLogRepository { return s.auditRepo }

// BatchRepo returns the batch repository.
func (s *NoOpTransactionScope) BatchRepo() shipping.BatchRepository { return s.batchRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
