package shipping

import (
	"context"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ConfigRepository persists the single live rate configuration
type ConfigRepository interface {
	// Find returns the live config, or shared.ErrNotFound when none exists yet
	Find(ctx context.Context) (*Config, error)
	// Create inserts the initial config; shared.ErrAlreadyExists when another writer won
	Create(ctx context.Context, cfg *Config) error
	// SaveWithVersion writes cfg only if the stored version still equals cfg.Version,
	// returning shared.ErrConcurrencyConflict otherwise
	SaveWithVersion(ctx context.Context, cfg *Config) error
}

// AuditLogRepository stores immutable config audit entries
type AuditLogRepository interface {
	// Append inserts a new entry
	Append(ctx context.Context, entry *AuditEntry) error
	// List returns entries newest first
	List(ctx context.Context, filter shared.Filter) ([]AuditEntry, int64, error)
}

// BatchRepository persists shipment batches
type BatchRepository interface {
	// FindByID finds a batch by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Batch, error)
	// FindByIDForUpdate finds a batch by ID and locks the row for the current transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Batch, error)
	// FindOpenByMode returns the open batch for mode, or shared.ErrNotFound
	FindOpenByMode(ctx context.Context, mode TransportMode) (*Batch, error)
	// FindAll lists batches, newest first by default
	FindAll(ctx context.Context, filter shared.Filter) ([]Batch, int64, error)
	// Create inserts a new batch
	Create(ctx context.Context, batch *Batch) error
	// SaveWithLock writes batch guarded by its version. A second open batch for
	// the same mode violates the storage constraint and yields ErrBatchAlreadyOpen.
	SaveWithLock(ctx context.Context, batch *Batch) error
}

// BatchSettlement aggregates the payment state of the orders in a batch
type BatchSettlement struct {
	BatchID           uuid.UUID       `json:"batch_id"`
	OrderCount        int64           `json:"order_count"`
	ItemPaidCount     int64           `json:"item_paid_count"`
	ShippingPaidCount int64           `json:"shipping_paid_count"`
	FullyPaidCount    int64           `json:"fully_paid_count"`
	ShippingBilled    decimal.Decimal `json:"shipping_billed"`
	ShippingCollected decimal.Decimal `json:"shipping_collected"`
}

// SettlementReader computes batch settlement aggregates
type SettlementReader interface {
	// SummarizeBatch aggregates the orders assigned to batchID
	SummarizeBatch(ctx context.Context, batchID uuid.UUID) (*BatchSettlement, error)
}
