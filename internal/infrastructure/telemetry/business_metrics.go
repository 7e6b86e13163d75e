package telemetry

import (
	"context"
	"errors"

	"github.com/napsterimports/backend/internal/domain/order"
	"github.com/napsterimports/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when BusinessMetrics is built without a meter.
var ErrMeterNil = errors.New("business metrics: meter cannot be nil")

// BusinessMetrics records settlement-level counters.
//
// It satisfies the recorder interfaces of the shipping, pricing and payment
// services, and subscribes to order events on the bus for order volume.
type BusinessMetrics struct {
	logger *zap.Logger

	batchOpened     *Counter
	pricingFallback *Counter
	webhookOutcome  *Counter
	ordersCreated   *Counter
	orderTotal      *Histogram
	paymentsApplied *Counter
}

// NewBusinessMetrics registers the business instruments on meter.
func NewBusinessMetrics(meter metric.Meter, logger *zap.Logger) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	bm := &BusinessMetrics{logger: logger}

	var err error
	if bm.batchOpened, err = NewCounter(meter,
		"napster_batch_opened_total", "Shipment batches opened", "{batches}"); err != nil {
		return nil, err
	}
	if bm.pricingFallback, err = NewCounter(meter,
		"napster_pricing_fallback_total", "Shipping prices that used the fallback fee", "{prices}"); err != nil {
		return nil, err
	}
	if bm.webhookOutcome, err = NewCounter(meter,
		"napster_payment_webhook_total", "Payment notifications by reconciliation outcome", "{notifications}"); err != nil {
		return nil, err
	}
	if bm.ordersCreated, err = NewCounter(meter,
		"napster_order_created_total", "Orders created", "{orders}"); err != nil {
		return nil, err
	}
	if bm.orderTotal, err = NewHistogram(meter,
		"napster_order_total_amount", "Order total price at creation", "{GHS}", AmountBuckets); err != nil {
		return nil, err
	}
	if bm.paymentsApplied, err = NewCounter(meter,
		"napster_payment_applied_total", "Payments that changed an order", "{payments}"); err != nil {
		return nil, err
	}
	return bm, nil
}

// RecordBatchOpened counts a batch transition to open.
func (bm *BusinessMetrics) RecordBatchOpened(ctx context.Context, mode string) {
	bm.batchOpened.Inc(ctx, AttrTransportMode.String(mode))
}

// RecordPricingFallback counts a price computed without a usable batch or rate.
func (bm *BusinessMetrics) RecordPricingFallback(ctx context.Context, reason string) {
	bm.pricingFallback.Inc(ctx, AttrReason.String(reason))
}

// RecordWebhookOutcome counts one reconciled notification.
func (bm *BusinessMetrics) RecordWebhookOutcome(ctx context.Context, provider, outcome string) {
	bm.webhookOutcome.Inc(ctx, AttrProvider.String(provider), AttrOutcome.String(outcome))
}

// Handle reacts to order events published on the bus.
func (bm *BusinessMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *order.OrderCreatedEvent:
		bm.ordersCreated.Inc(ctx)
		total, _ := e.TotalPrice.Float64()
		bm.orderTotal.Record(ctx, total)
	case *order.OrderPaymentAppliedEvent:
		bm.paymentsApplied.Inc(ctx,
			AttrProvider.String(e.Provider),
			AttrPaymentType.String(string(e.PaymentType)))
	default:
		bm.logger.Debug("Ignoring event for metrics", zap.String("event_type", event.EventType()))
	}
	return nil
}

// EventTypes returns the order events BusinessMetrics subscribes to.
func (bm *BusinessMetrics) EventTypes() []string {
	return []string{order.EventTypeOrderCreated, order.EventTypeOrderPaymentApplied}
}

var _ shared.EventHandler = (*BusinessMetrics)(nil)
