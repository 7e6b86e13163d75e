package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/order"
	"github.com/napsterimports/backend/internal/domain/shared"
	"github.com/napsterimports/backend/internal/domain/shared/valueobject"
	"github.com/napsterimports/backend/internal/domain/shipping"
	"github.com/napsterimports/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrCheckoutBlocked wraps shipping.ErrNoActiveBatch when a mode in the
// order has no open batch
var ErrCheckoutBlocked = shared.NewDomainError("CHECKOUT_BLOCKED", "Checkout is closed until a shipping batch opens")

// Rate source labels reported with a price
const (
	SourceBatch    = "batch"
	SourceLive     = "live"
	SourceFallback = "fallback"
)

// BatchLookup resolves the open batch for a transport mode
type BatchLookup interface {
	GetActiveBatch(ctx context.Context, mode string) (*shipping.Batch, error)
}

// ConfigProvider returns the live rate config
type ConfigProvider interface {
	GetConfig(ctx context.Context) (*shipping.Config, error)
}

// FallbackRecorder counts prices that fell back to the fixed fee
type FallbackRecorder interface {
	RecordPricingFallback(ctx context.Context, reason string)
}

// OrderPricing is the server-side price of an order
type OrderPricing struct {
	ItemsPrice    decimal.Decimal                      `json:"items_price"`
	TaxPrice      decimal.Decimal                      `json:"tax_price"`
	ShippingPrice decimal.Decimal                      `json:"shipping_price"`
	TotalPrice    decimal.Decimal                      `json:"total_price"`
	Breakdown     ShippingBreakdown                    `json:"breakdown"`
	Source        string                               `json:"source"`
	Degraded      bool                                 `json:"pricing_degraded"`
	BatchIDs      map[shipping.TransportMode]uuid.UUID `json:"batch_ids,omitempty"`
}

// ToOrderPricing converts into the amounts an order is created with
func (p *OrderPricing) ToOrderPricing() order.Pricing {
	return order.Pricing{
		ItemsPrice:    p.ItemsPrice,
		TaxPrice:      p.TaxPrice,
		ShippingPrice: p.ShippingPrice,
		TotalPrice:    p.TotalPrice,
		Degraded:      p.Degraded,
		BatchIDs:      p.BatchIDs,
	}
}

// Engine prices orders against batch snapshots or the live config
type Engine struct {
	batches        BatchLookup
	configs        ConfigProvider
	metrics        FallbackRecorder
	logger         *zap.Logger
	fallbackFee    decimal.Decimal
	allowLiveRates bool
}

// EngineConfig holds dependencies for Engine
type EngineConfig struct {
	Batches BatchLookup
	Configs ConfigProvider
	Metrics FallbackRecorder
	Logger  *zap.Logger
	// FallbackFee overrides FallbackShippingFee when positive
	FallbackFee decimal.Decimal
	// AllowLiveRates prices a mode with no open batch against the live config
	// instead of blocking checkout
	AllowLiveRates bool
}

// NewEngine creates a new pricing Engine
func NewEngine(cfg EngineConfig) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fee := FallbackShippingFee
	if cfg.FallbackFee.IsPositive() {
		fee = cfg.FallbackFee
	}
	return &Engine{
		batches:        cfg.Batches,
		configs:        cfg.Configs,
		metrics:        cfg.Metrics,
		logger:         logger,
		fallbackFee:    fee,
		allowLiveRates: cfg.AllowLiveRates,
	}
}

// PriceOrder computes the shipping fee and total for a new order.
// Each mode present in items must have an open batch whose snapshot supplies
// its rates; a missing batch blocks checkout. Any other failure to obtain
// rates degrades to the fallback fee so the order can still be placed.
func (e *Engine) PriceOrder(ctx context.Context, items []order.LineItem, itemsPrice, taxPrice decimal.Decimal) (*OrderPricing, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "pricing_engine", "price_order",
		attribute.Int("line_items", len(items)))
	defer span.End()

	p, err := e.priceOrder(ctx, items, itemsPrice, taxPrice)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("rate_source", p.Source),
		attribute.Bool("pricing_degraded", p.Degraded))
	return p, nil
}

func (e *Engine) priceOrder(ctx context.Context, items []order.LineItem, itemsPrice, taxPrice decimal.Decimal) (*OrderPricing, error) {
	if itemsPrice.IsNegative() || taxPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Items and tax prices cannot be negative")
	}

	snapshots := make(map[shipping.TransportMode]*shipping.RateSnapshot)
	batchIDs := make(map[shipping.TransportMode]uuid.UUID)
	var liveModes []shipping.TransportMode

	for _, mode := range order.ModesOf(items) {
		batch, err := e.batches.GetActiveBatch(ctx, string(mode))
		switch {
		case err == nil && batch.Snapshot != nil:
			snapshots[mode] = batch.Snapshot
			batchIDs[mode] = batch.ID
		case err == nil:
			return e.fallback(ctx, itemsPrice, taxPrice, batchIDs, "snapshot_missing",
				fmt.Errorf("open %s batch %s has no rate snapshot", mode, batch.ID)), nil
		case errors.Is(err, shipping.ErrNoActiveBatch):
			if !e.allowLiveRates {
				return nil, shared.WrapDomainError(ErrCheckoutBlocked.Code,
					fmt.Sprintf("No %s shipping batch is open", mode), shipping.ErrNoActiveBatch)
			}
			liveModes = append(liveModes, mode)
		default:
			return e.fallback(ctx, itemsPrice, taxPrice, batchIDs, "batch_lookup_failed", err), nil
		}
	}

	rates := SnapshotRates(snapshots[shipping.ModeSea], snapshots[shipping.ModeAir])
	source := SourceBatch
	if len(liveModes) > 0 {
		live, err := e.liveRates(ctx)
		if err != nil {
			return e.fallback(ctx, itemsPrice, taxPrice, batchIDs, "config_unavailable", err), nil
		}
		for _, mode := range liveModes {
			if mode == shipping.ModeAir {
				rates.AirRatePerWeightUnit = live.AirRatePerWeightUnit
				rates.MinAirChargeableWeight = live.MinAirChargeableWeight
			} else {
				rates.SeaRatePerWeightUnit = live.SeaRatePerWeightUnit
				rates.MinSeaFee = live.MinSeaFee
			}
		}
		source = SourceLive
	}

	breakdown := ComputeShippingFee(items, rates)
	return e.priced(itemsPrice, taxPrice, breakdown, source, false, batchIDs), nil
}

// Quote estimates shipping for items against the live config
func (e *Engine) Quote(ctx context.Context, items []order.LineItem) *OrderPricing {
	rates, err := e.liveRates(ctx)
	if err != nil {
		return e.fallback(ctx, decimal.Zero, decimal.Zero, nil, "config_unavailable", err)
	}
	return e.priced(decimal.Zero, decimal.Zero, ComputeShippingFee(items, rates), SourceLive, false, nil)
}

func (e *Engine) liveRates(ctx context.Context) (Rates, error) {
	cfg, err := e.configs.GetConfig(ctx)
	if err != nil {
		return Rates{}, err
	}
	return LiveRates(cfg)
}

func (e *Engine) fallback(ctx context.Context, itemsPrice, taxPrice decimal.Decimal, batchIDs map[shipping.TransportMode]uuid.UUID, reason string, cause error) *OrderPricing {
	e.logger.Warn("Shipping rates unavailable, charging fallback fee",
		zap.String("reason", reason),
		zap.String("fallback_fee", e.fallbackFee.StringFixed(valueobject.MoneyPlaces)),
		zap.Error(cause))
	if e.metrics != nil {
		e.metrics.RecordPricingFallback(ctx, reason)
	}
	breakdown := ShippingBreakdown{
		SeaWeight: decimal.Zero,
		AirWeight: decimal.Zero,
		SeaFee:    decimal.Zero,
		AirFee:    decimal.Zero,
		Total:     e.fallbackFee,
	}
	return e.priced(itemsPrice, taxPrice, breakdown, SourceFallback, true, batchIDs)
}

func (e *Engine) priced(itemsPrice, taxPrice decimal.Decimal, breakdown ShippingBreakdown, source string, degraded bool, batchIDs map[shipping.TransportMode]uuid.UUID) *OrderPricing {
	itemsPrice = valueobject.Round2(itemsPrice)
	taxPrice = valueobject.Round2(taxPrice)
	return &OrderPricing{
		ItemsPrice:    itemsPrice,
		TaxPrice:      taxPrice,
		ShippingPrice: breakdown.Total,
		TotalPrice:    ComputeOrderTotal(itemsPrice, taxPrice, breakdown.Total),
		Breakdown:     breakdown,
		Source:        source,
		Degraded:      degraded,
		BatchIDs:      batchIDs,
	}
}
