package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/order"
	"github.com/napsterimports/backend/internal/domain/payment"
	"github.com/napsterimports/backend/internal/domain/shared"
	"github.com/napsterimports/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultApplyAttempts bounds retries of an order update that lost a version race
const DefaultApplyAttempts = 3

// Result is what reconciling one notification did
type Result string

const (
	// ResultApplied means the order flags and status changed
	ResultApplied Result = "applied"
	// ResultAlreadyApplied means this transaction was seen before
	ResultAlreadyApplied Result = "already_applied"
	// ResultRecordedNoChange means a new transaction paid for a part that was already paid
	ResultRecordedNoChange Result = "recorded_no_change"
	// ResultIgnored means the outcome was not a success
	ResultIgnored Result = "ignored"
	// ResultInvalidReference means the reference or transaction id is unusable
	ResultInvalidReference Result = "invalid_reference"
	// ResultOrderNotFound means the reference names no order
	ResultOrderNotFound Result = "order_not_found"
	// ResultMalformed means the provider body could not be parsed
	ResultMalformed Result = "malformed"
	// ResultError means an internal fault stopped reconciliation
	ResultError Result = "error"
)

// String returns the string representation of Result
func (r Result) String() string {
	return string(r)
}

// Settled reports whether the transaction is durably recorded
func (r Result) Settled() bool {
	return r == ResultApplied || r == ResultAlreadyApplied || r == ResultRecordedNoChange
}

// WebhookRecorder counts reconciliation outcomes per provider
type WebhookRecorder interface {
	RecordWebhookOutcome(ctx context.Context, provider, outcome string)
}

// Reconciler applies normalized provider notifications to orders exactly once
type Reconciler struct {
	txScope        TransactionScope
	idempotency    shared.IdempotencyStore
	eventPublisher shared.EventPublisher
	metrics        WebhookRecorder
	logger         *zap.Logger
	maxAttempts    int
	ttl            time.Duration
}

// ReconcilerConfig holds dependencies for Reconciler
type ReconcilerConfig struct {
	TxScope TransactionScope
	// Idempotency is an optional cache consulted before the database
	Idempotency    shared.IdempotencyStore
	EventPublisher shared.EventPublisher
	Metrics        WebhookRecorder
	Logger         *zap.Logger
	MaxAttempts    int
	IdempotencyTTL time.Duration
}

// NewReconciler creates a new Reconciler
func NewReconciler(cfg ReconcilerConfig) *Reconciler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultApplyAttempts
	}
	ttl := cfg.IdempotencyTTL
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyTTL
	}
	return &Reconciler{
		txScope:        cfg.TxScope,
		idempotency:    cfg.Idempotency,
		eventPublisher: cfg.EventPublisher,
		metrics:        cfg.Metrics,
		logger:         logger,
		maxAttempts:    attempts,
		ttl:            ttl,
	}
}

// Reconcile applies ev to the order its reference names.
//
// Notifications that cannot apply (non-success, unknown order, bad reference)
// return a Result and a nil error so the provider receives an acknowledgement.
// A non-nil error is an internal fault and the provider should retry.
func (r *Reconciler) Reconcile(ctx context.Context, ev payment.NormalizedEvent) (Result, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment_reconciler", "reconcile",
		attribute.String(telemetry.SpanAttrProvider, ev.Provider),
		attribute.String(telemetry.SpanAttrTransactionID, ev.ProviderTransactionID))
	defer span.End()

	result, err := r.reconcile(ctx, ev)
	span.SetAttributes(attribute.String(telemetry.SpanAttrResult, result.String()))
	telemetry.RecordError(span, err)
	if r.metrics != nil {
		r.metrics.RecordWebhookOutcome(ctx, ev.Provider, result.String())
	}
	return result, err
}

func (r *Reconciler) reconcile(ctx context.Context, ev payment.NormalizedEvent) (Result, error) {
	log := r.logger.With(
		zap.String("provider", ev.Provider),
		zap.String("reference", ev.OrderReference),
		zap.String("transaction_id", ev.ProviderTransactionID))

	if !ev.IsSuccess() {
		log.Info("Ignoring non-success payment notification", zap.String("outcome", string(ev.Outcome)))
		return ResultIgnored, nil
	}

	orderID, pt, err := payment.ParseReference(ev.OrderReference)
	if err != nil {
		log.Warn("Payment notification has an invalid reference")
		return ResultInvalidReference, nil
	}
	if strings.TrimSpace(ev.ProviderTransactionID) == "" {
		log.Warn("Payment notification has no transaction id")
		return ResultInvalidReference, nil
	}
	ev.PaymentType = pt

	key := ev.IdempotencyKey()
	if r.idempotency != nil {
		seen, err := r.idempotency.IsProcessed(ctx, key)
		if err != nil {
			log.Warn("Idempotency cache unavailable, falling through to database", zap.Error(err))
		} else if seen {
			log.Info("Payment notification already processed (cache)")
			return ResultAlreadyApplied, nil
		}
	}

	var (
		result  Result
		updated *order.Order
	)
	for attempt := 1; ; attempt++ {
		result, updated, err = r.apply(ctx, orderID, ev.Receipt())
		if !errors.Is(err, shared.ErrConcurrencyConflict) || attempt >= r.maxAttempts {
			break
		}
		log.Warn("Order changed concurrently, retrying payment", zap.Int("attempt", attempt))
	}
	if err != nil {
		log.Error("Failed to apply payment", zap.Error(err))
		return ResultError, fmt.Errorf("reconcile payment %s: %w: %w", ev.ProviderTransactionID, ErrReconcileFailed, err)
	}

	if result.Settled() && r.idempotency != nil {
		if _, err := r.idempotency.MarkProcessed(ctx, key, r.ttl); err != nil {
			log.Warn("Failed to cache processed payment", zap.Error(err))
		}
	}
	if updated != nil {
		r.publishEvents(ctx, updated)
	}

	log.Info("Payment notification reconciled",
		zap.String("order_id", orderID.String()),
		zap.String("payment_type", string(pt)),
		zap.String("result", result.String()))
	return result, nil
}

// apply runs one read-apply-write attempt inside a transaction
func (r *Reconciler) apply(ctx context.Context, orderID uuid.UUID, receipt order.PaymentReceipt) (Result, *order.Order, error) {
	var (
		result  Result
		updated *order.Order
	)
	err := r.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, orderID)
		if errors.Is(err, shared.ErrNotFound) {
			result = ResultOrderNotFound
			return nil
		}
		if err != nil {
			return err
		}

		app := order.NewPaymentApplication(o, receipt)
		changed, err := o.ApplyPayment(receipt)
		if err != nil {
			return err
		}
		app.Effective = changed

		inserted, err := repos.PaymentRepo().Insert(ctx, app)
		if err != nil {
			return err
		}
		if !inserted {
			result = ResultAlreadyApplied
			return nil
		}
		if !changed {
			result = ResultRecordedNoChange
			return nil
		}

		if err := repos.OrderRepo().SaveWithLock(ctx, o); err != nil {
			return err
		}
		result = ResultApplied
		updated = o
		return nil
	})
	if err != nil {
		return ResultError, nil, err
	}
	return result, updated, nil
}

func (r *Reconciler) publishEvents(ctx context.Context, o *order.Order) {
	events := o.GetDomainEvents()
	if r.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := r.eventPublisher.Publish(ctx, events...); err != nil {
		r.logger.Warn("Failed to publish payment events",
			zap.String("order_id", o.ID.String()),
			zap.Error(err))
	}
	o.ClearDomainEvents()
}
