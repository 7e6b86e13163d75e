package shipping

import (
	"context"
	"errors"
	"fmt"

	"github.com/napsterimports/backend/internal/domain/shared"
	"github.com/napsterimports/backend/internal/domain/shipping"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultUpdateAttempts bounds the read-compare-write retries of UpdateConfig
const DefaultUpdateAttempts = 3

const configFlightKey = "shipping-config"

// RateConfigService owns the single live shipping-rate configuration
type RateConfigService struct {
	configRepo     shipping.ConfigRepository
	auditRepo      shipping.AuditLogRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	maxAttempts    int
	flight         singleflight.Group
}

// RateConfigServiceConfig holds dependencies for RateConfigService
type RateConfigServiceConfig struct {
	ConfigRepo     shipping.ConfigRepository
	AuditRepo      shipping.AuditLogRepository
	TxScope        TransactionScope
	EventPublisher shared.EventPublisher
	Logger         *zap.Logger
	MaxAttempts    int
}

// NewRateConfigService creates a new RateConfigService
func NewRateConfigService(cfg RateConfigServiceConfig) *RateConfigService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultUpdateAttempts
	}
	return &RateConfigService{
		configRepo:     cfg.ConfigRepo,
		auditRepo:      cfg.AuditRepo,
		txScope:        cfg.TxScope,
		eventPublisher: cfg.EventPublisher,
		logger:         logger,
		maxAttempts:    attempts,
	}
}

// GetConfig returns the live config, creating the default one on first read.
// Concurrent first reads share a single creation.
func (s *RateConfigService) GetConfig(ctx context.Context) (*shipping.Config, error) {
	cfg, err := s.configRepo.Find(ctx)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	v, err, _ := s.flight.Do(configFlightKey, func() (any, error) {
		return s.createDefault(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*shipping.Config), nil
}

func (s *RateConfigService) createDefault(ctx context.Context) (*shipping.Config, error) {
	cfg := shipping.NewDefaultConfig()
	err := s.configRepo.Create(ctx, cfg)
	if err == nil {
		s.logger.Info("Created default shipping config", zap.String("config_id", cfg.ID.String()))
		return cfg, nil
	}
	if errors.Is(err, shared.ErrAlreadyExists) {
		// Another process inserted first
		return s.configRepo.Find(ctx)
	}
	return nil, err
}

// GetConfigWithRates returns the live config and its derived rates
func (s *RateConfigService) GetConfigWithRates(ctx context.Context) (*ConfigResponse, error) {
	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	derived, err := shipping.Derive(cfg)
	if err != nil {
		return nil, err
	}
	resp := ToConfigResponse(cfg, derived)
	return &resp, nil
}

// UpdateConfig applies a partial rate update on behalf of actor.
// The config write and its audit entry commit together; a no-op update
// writes neither. Version conflicts retry the whole read-compare-write.
func (s *RateConfigService) UpdateConfig(ctx context.Context, req UpdateConfigRequest, actor Actor) (*UpdateConfigResponse, error) {
	if _, err := s.GetConfig(ctx); err != nil {
		return nil, err
	}

	changes := req.ToChanges()
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		cfg, applied, err := s.tryUpdate(ctx, changes, actor)
		if err == nil {
			s.publishEvents(ctx, cfg)
			derived, err := shipping.Derive(cfg)
			if err != nil {
				return nil, err
			}
			if len(applied) > 0 {
				s.logger.Info("Shipping rates updated",
					zap.String("actor_id", actor.ID.String()),
					zap.Int("changes", len(applied)),
					zap.Int("version", cfg.Version))
			}
			return &UpdateConfigResponse{ConfigResponse: ToConfigResponse(cfg, derived), Changes: applied}, nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, err
		}
		lastErr = err
		s.logger.Warn("Shipping config version conflict, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", s.maxAttempts))
	}
	return nil, fmt.Errorf("shipping config update failed after %d attempts: %w", s.maxAttempts, lastErr)
}

func (s *RateConfigService) tryUpdate(ctx context.Context, changes shipping.RateChanges, actor Actor) (*shipping.Config, []shipping.FieldChange, error) {
	var (
		cfg     *shipping.Config
		applied []shipping.FieldChange
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		cfg, err = repos.ConfigRepo().Find(ctx)
		if err != nil {
			return err
		}

		applied, err = cfg.Apply(changes, actor.ID)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			return nil
		}

		if err := repos.ConfigRepo().SaveWithVersion(ctx, cfg); err != nil {
			return err
		}

		entry, err := shipping.NewAuditEntry(actor.ID, actor.Name, actor.Origin, applied)
		if err != nil {
			return err
		}
		return repos.AuditRepo().Append(ctx, entry)
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, applied, nil
}

func (s *RateConfigService) publishEvents(ctx context.Context, cfg *shipping.Config) {
	events := cfg.GetDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish shipping config events", zap.Error(err))
	}
	cfg.ClearDomainEvents()
}

// ListAuditLog returns config audit entries newest first
func (s *RateConfigService) ListAuditLog(ctx context.Context, page, pageSize int) (shared.Paginated[AuditEntryResponse], error) {
	filter := shared.Filter{Page: page, PageSize: pageSize, OrderBy: "created_at", OrderDir: "desc"}.Normalize()

	entries, total, err := s.auditRepo.List(ctx, filter)
	if err != nil {
		return shared.Paginated[AuditEntryResponse]{}, err
	}
	return shared.NewPaginated(ToAuditEntryResponses(entries), total, filter.Page, filter.PageSize), nil
}
