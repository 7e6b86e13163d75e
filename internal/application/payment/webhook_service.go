package payment

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/order"
	"github.com/napsterimports/backend/internal/domain/payment"
	"github.com/napsterimports/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var (
	// ErrInvalidWebhookToken means the callback token did not match
	ErrInvalidWebhookToken = shared.NewDomainError("INVALID_WEBHOOK_TOKEN", "Webhook token is invalid")
	// ErrProviderNotRegistered means no adapter handles the named provider
	ErrProviderNotRegistered = shared.NewDomainError("PROVIDER_NOT_REGISTERED", "Payment provider is not registered")
	// ErrReconcileFailed wraps internal faults during reconciliation. Providers
	// must see a retryable status, never a client error.
	ErrReconcileFailed = shared.NewDomainError("RECONCILE_FAILED", "Payment could not be applied, retry later")
)

// PayloadArchive keeps raw provider notifications for later inspection
type PayloadArchive interface {
	Archive(ctx context.Context, provider string, payload []byte) error
}

// WebhookService authenticates provider notifications, normalizes them and
// hands them to the Reconciler. It also serves staff-confirmed payments.
type WebhookService struct {
	providers  map[string]payment.Provider
	reconciler *Reconciler
	archive    PayloadArchive
	token      string
	logger     *zap.Logger
}

// WebhookServiceConfig holds dependencies for WebhookService
type WebhookServiceConfig struct {
	Providers  []payment.Provider
	Reconciler *Reconciler
	// Archive is optional; archive failures never fail a notification
	Archive PayloadArchive
	// Token is the shared secret expected in the callback URL. Empty disables the check.
	Token  string
	Logger *zap.Logger
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(cfg WebhookServiceConfig) *WebhookService {
	providers := make(map[string]payment.Provider, len(cfg.Providers))
	for _, p := range cfg.Providers {
		providers[p.Name()] = p
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookService{
		providers:  providers,
		reconciler: cfg.Reconciler,
		archive:    cfg.Archive,
		token:      cfg.Token,
		logger:     logger,
	}
}

// HandleWebhook processes a raw notification from providerName.
// A nil error means the provider should be acknowledged with 2xx.
func (s *WebhookService) HandleWebhook(ctx context.Context, providerName string, payload []byte, token string) (Result, error) {
	provider, ok := s.providers[providerName]
	if !ok {
		return ResultError, ErrProviderNotRegistered
	}
	if s.token != "" && subtle.ConstantTimeCompare([]byte(s.token), []byte(token)) != 1 {
		s.logger.Warn("Rejected payment webhook with invalid token", zap.String("provider", providerName))
		return ResultError, ErrInvalidWebhookToken
	}

	if s.archive != nil {
		if err := s.archive.Archive(ctx, providerName, payload); err != nil {
			s.logger.Warn("Failed to archive payment webhook",
				zap.String("provider", providerName),
				zap.Error(err))
		}
	}

	ev, err := provider.NormalizeWebhook(payload)
	if err != nil {
		s.logger.Warn("Malformed payment webhook",
			zap.String("provider", providerName),
			zap.Int("size", len(payload)),
			zap.Error(err))
		return ResultMalformed, nil
	}
	return s.reconciler.Reconcile(ctx, ev)
}

// ConfirmManual applies a payment that staff took outside any gateway.
// Unlike a webhook, a missing order is reported as shared.ErrNotFound.
func (s *WebhookService) ConfirmManual(ctx context.Context, orderID uuid.UUID, req ManualConfirmRequest, actor uuid.UUID) (Result, error) {
	pt, err := order.ParsePaymentType(req.PaymentType)
	if err != nil {
		return ResultError, err
	}
	ev := payment.NormalizedEvent{
		OrderReference:        payment.EncodeReference(orderID, pt),
		PaymentType:           pt,
		Outcome:               payment.OutcomeSuccess,
		ProviderTransactionID: req.TransactionID,
		PayerIdentity:         req.PayerIdentity,
		OccurredAt:            time.Now(),
		Provider:              payment.ProviderManual,
	}

	result, err := s.reconciler.Reconcile(ctx, ev)
	if err != nil {
		return result, err
	}
	switch result {
	case ResultOrderNotFound:
		return result, shared.ErrNotFound
	case ResultInvalidReference:
		return result, shared.ErrInvalidInput
	}

	s.logger.Info("Manual payment confirmed",
		zap.String("order_id", orderID.String()),
		zap.String("payment_type", string(pt)),
		zap.String("confirmed_by", actor.String()),
		zap.String("result", result.String()))
	return result, nil
}
