package shipping

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/shared"
	"github.com/napsterimports/backend/internal/domain/shipping"
	"go.uber.org/zap"
)

// ConfigProvider returns the live rate config, creating it if absent
type ConfigProvider interface {
	GetConfig(ctx context.Context) (*shipping.Config, error)
}

// BatchMetrics records batch lifecycle metrics
type BatchMetrics interface {
	RecordBatchOpened(ctx context.Context, mode string)
}

// BatchService manages shipment batches and their rate snapshots
type BatchService struct {
	batchRepo        shipping.BatchRepository
	settlementReader shipping.SettlementReader
	configs          ConfigProvider
	txScope          TransactionScope
	eventPublisher   shared.EventPublisher
	metrics          BatchMetrics
	logger           *zap.Logger
}

// BatchServiceConfig holds dependencies for BatchService
type BatchServiceConfig struct {
	BatchRepo        shipping.BatchRepository
	SettlementReader shipping.SettlementReader
	Configs          ConfigProvider
	TxScope          TransactionScope
	EventPublisher   shared.EventPublisher
	Metrics          BatchMetrics
	Logger           *zap.Logger
}

// NewBatchService creates a new BatchService
func NewBatchService(cfg BatchServiceConfig) *BatchService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{
		batchRepo:        cfg.BatchRepo,
		settlementReader: cfg.SettlementReader,
		configs:          cfg.Configs,
		txScope:          cfg.TxScope,
		eventPublisher:   cfg.EventPublisher,
		metrics:          cfg.Metrics,
		logger:           logger,
	}
}

// CreateBatch creates a draft batch
func (s *BatchService) CreateBatch(ctx context.Context, req CreateBatchRequest, creator uuid.UUID) (*BatchResponse, error) {
	mode, err := shipping.ParseTransportMode(req.Mode)
	if err != nil {
		return nil, err
	}

	batch, err := shipping.NewBatch(req.Name, mode, req.CloseDate, req.ExpectedArrival, creator)
	if err != nil {
		return nil, err
	}
	if err := s.batchRepo.Create(ctx, batch); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, batch)
	s.logger.Info("Shipment batch created",
		zap.String("batch_id", batch.ID.String()),
		zap.String("mode", string(batch.Mode)))

	resp := ToBatchResponse(batch)
	return &resp, nil
}

// GetActiveBatch returns the open batch for mode (sea when empty).
// Absence yields shipping.ErrNoActiveBatch, never shared.ErrNotFound.
func (s *BatchService) GetActiveBatch(ctx context.Context, mode string) (*shipping.Batch, error) {
	m, err := shipping.ParseTransportMode(mode)
	if err != nil {
		return nil, err
	}

	batch, err := s.batchRepo.FindOpenByMode(ctx, m)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shipping.ErrNoActiveBatch
		}
		return nil, err
	}
	return batch, nil
}

// OpenBatch opens a draft batch, freezing the live rates into its snapshot.
// Load, snapshot and write happen in one transaction; a concurrent open of
// another batch of the same mode fails with shipping.ErrBatchAlreadyOpen.
func (s *BatchService) OpenBatch(ctx context.Context, id uuid.UUID) (*BatchResponse, error) {
	// Make sure the config row exists before the transaction reads it
	if _, err := s.configs.GetConfig(ctx); err != nil {
		return nil, err
	}

	var batch *shipping.Batch
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		batch, err = repos.BatchRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		cfg, err := repos.ConfigRepo().Find(ctx)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shipping.ErrConfigUnavailable
			}
			return err
		}

		if err := batch.Open(cfg); err != nil {
			return err
		}
		return repos.BatchRepo().SaveWithLock(ctx, batch)
	})
	if err != nil {
		if errors.Is(err, shipping.ErrBatchAlreadyOpen) {
			s.logger.Warn("Rejected second open batch",
				zap.String("batch_id", id.String()),
				zap.Error(err))
		}
		return nil, err
	}

	s.publishEvents(ctx, batch)
	if s.metrics != nil {
		s.metrics.RecordBatchOpened(ctx, string(batch.Mode))
	}
	s.logger.Info("Shipment batch opened",
		zap.String("batch_id", batch.ID.String()),
		zap.String("mode", string(batch.Mode)),
		zap.String("rate_per_weight_unit", batch.Snapshot.RatePerWeightUnit.String()),
		zap.Int("config_version", batch.Snapshot.ConfigVersion))

	resp := ToBatchResponse(batch)
	return &resp, nil
}

// TransitionStatus moves a batch to the next status in its lifecycle
func (s *BatchService) TransitionStatus(ctx context.Context, id uuid.UUID, target string) (*BatchResponse, error) {
	status := shipping.BatchStatus(target)
	if status == shipping.BatchStatusOpen {
		return s.OpenBatch(ctx, id)
	}

	var batch *shipping.Batch
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		batch, err = repos.BatchRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := batch.Advance(status); err != nil {
			return err
		}
		return repos.BatchRepo().SaveWithLock(ctx, batch)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, batch)
	s.logger.Info("Shipment batch status changed",
		zap.String("batch_id", batch.ID.String()),
		zap.String("status", string(batch.Status)))

	resp := ToBatchResponse(batch)
	return &resp, nil
}

// GetBatch returns a batch by ID
func (s *BatchService) GetBatch(ctx context.Context, id uuid.UUID) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToBatchResponse(batch)
	return &resp, nil
}

// ListBatches lists batches newest first, optionally filtered by mode and status
func (s *BatchService) ListBatches(ctx context.Context, f BatchListFilter) (shared.Paginated[BatchResponse], error) {
	filter := shared.Filter{Page: f.Page, PageSize: f.PageSize}.Normalize()
	if f.Mode != "" {
		filter.Filters["mode"] = f.Mode
	}
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}

	batches, total, err := s.batchRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[BatchResponse]{}, err
	}
	return shared.NewPaginated(ToBatchResponses(batches), total, filter.Page, filter.PageSize), nil
}

// Settlement aggregates payment state of the orders assigned to a batch
func (s *BatchService) Settlement(ctx context.Context, id uuid.UUID) (*shipping.BatchSettlement, error) {
	if _, err := s.batchRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.settlementReader.SummarizeBatch(ctx, id)
}

func (s *BatchService) publishEvents(ctx context.Context, batch *shipping.Batch) {
	events := batch.GetDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish batch events",
			zap.String("batch_id", batch.ID.String()),
			zap.Error(err))
	}
	batch.ClearDomainEvents()
}
