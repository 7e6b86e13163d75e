package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/order"
	"github.com/napsterimports/backend/internal/domain/shared"
	"github.com/napsterimports/backend/internal/domain/shipping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubBatches struct {
	open map[shipping.TransportMode]*shipping.Batch
	err  error
}

func (s *stubBatches) GetActiveBatch(_ context.Context, mode string) (*shipping.Batch, error) {
	if s.err != nil {
		return nil, s.err
	}
	if b, ok := s.open[shipping.TransportMode(mode)]; ok {
		return b, nil
	}
	return nil, shipping.ErrNoActiveBatch
}

type stubConfigs struct {
	cfg *shipping.Config
	err error
}

func (s *stubConfigs) GetConfig(context.Context) (*shipping.Config, error) {
	return s.cfg, s.err
}

type countingRecorder struct {
	reasons []string
}

func (c *countingRecorder) RecordPricingFallback(_ context.Context, reason string) {
	c.reasons = append(c.reasons, reason)
}

func openBatch(t *testing.T, mode shipping.TransportMode, cfg *shipping.Config) *shipping.Batch {
	t.Helper()
	b, err := shipping.NewBatch("batch", mode, nil, nil, uuid.New())
	require.NoError(t, err)
	require.NoError(t, b.Open(cfg))
	return b
}

func TestEngine_PriceOrder_UsesBatchSnapshot(t *testing.T) {
	cfg := shipping.NewDefaultConfig()
	sea := openBatch(t, shipping.ModeSea, cfg)

	// Later rate changes must not affect orders placed in the open batch
	_, err := cfg.Apply(shipping.RateChanges{shipping.FieldUsdToExchangeRate: dec("30")}, uuid.New())
	require.NoError(t, err)

	engine := NewEngine(EngineConfig{
		Batches: &stubBatches{open: map[shipping.TransportMode]*shipping.Batch{shipping.ModeSea: sea}},
		Configs: &stubConfigs{cfg: cfg},
	})

	p, err := engine.PriceOrder(context.Background(), []order.LineItem{item("0.5", 10, shipping.ModeSea)}, dec("200"), dec("10"))
	require.NoError(t, err)

	assert.Equal(t, SourceBatch, p.Source)
	assert.False(t, p.Degraded)
	assert.True(t, p.ShippingPrice.Equal(dec("55.95")))
	assert.True(t, p.TotalPrice.Equal(dec("265.95")))
	assert.Equal(t, sea.ID, p.BatchIDs[shipping.ModeSea])
}

func TestEngine_PriceOrder_MixedModesUseEachSnapshot(t *testing.T) {
	cfg := shipping.NewDefaultConfig()
	sea := openBatch(t, shipping.ModeSea, cfg)
	air := openBatch(t, shipping.ModeAir, cfg)

	engine := NewEngine(EngineConfig{
		Batches: &stubBatches{open: map[shipping.TransportMode]*shipping.Batch{
			shipping.ModeSea: sea,
			shipping.ModeAir: air,
		}},
	})

	p, err := engine.PriceOrder(context.Background(), []order.LineItem{
		item("0.5", 4, shipping.ModeSea),
		item("0.3", 1, shipping.ModeAir),
	}, dec("100"), dec("0"))
	require.NoError(t, err)

	assert.True(t, p.ShippingPrice.Equal(dec("67.38")))
	assert.Len(t, p.BatchIDs, 2)
}

func TestEngine_PriceOrder_BlockedWithoutBatch(t *testing.T) {
	cfg := shipping.NewDefaultConfig()
	sea := openBatch(t, shipping.ModeSea, cfg)
	engine := NewEngine(EngineConfig{
		Batches: &stubBatches{open: map[shipping.TransportMode]*shipping.Batch{shipping.ModeSea: sea}},
		Configs: &stubConfigs{cfg: cfg},
	})

	_, err := engine.PriceOrder(context.Background(), []order.LineItem{
		item("0.5", 1, shipping.ModeSea),
		item("0.5", 1, shipping.ModeAir),
	}, dec("10"), dec("0"))

	require.Error(t, err)
	assert.ErrorIs(t, err, shipping.ErrNoActiveBatch)
	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "CHECKOUT_BLOCKED", de.Code)
}

func TestEngine_PriceOrder_LiveRatesWhenAllowed(t *testing.T) {
	engine := NewEngine(EngineConfig{
		Batches:        &stubBatches{},
		Configs:        &stubConfigs{cfg: shipping.NewDefaultConfig()},
		AllowLiveRates: true,
	})

	p, err := engine.PriceOrder(context.Background(), []order.LineItem{item("0.05", 1, shipping.ModeAir)}, dec("10"), dec("0"))
	require.NoError(t, err)
	assert.Equal(t, SourceLive, p.Source)
	assert.True(t, p.ShippingPrice.Equal(dec("15")))
	assert.Empty(t, p.BatchIDs)
}

func TestEngine_PriceOrder_FallbackOnLookupFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	recorder := &countingRecorder{}
	engine := NewEngine(EngineConfig{
		Batches: &stubBatches{err: errors.New("db down")},
		Metrics: recorder,
		Logger:  zap.New(core),
	})

	p, err := engine.PriceOrder(context.Background(), []order.LineItem{item("0.5", 100, shipping.ModeSea)}, dec("100"), dec("5"))
	require.NoError(t, err)

	assert.True(t, p.Degraded)
	assert.Equal(t, SourceFallback, p.Source)
	assert.True(t, p.ShippingPrice.Equal(FallbackShippingFee))
	assert.True(t, p.TotalPrice.Equal(dec("155")))
	assert.Equal(t, []string{"batch_lookup_failed"}, recorder.reasons)
	assert.Equal(t, 1, logs.FilterMessage("Shipping rates unavailable, charging fallback fee").Len())
}

func TestEngine_PriceOrder_FallbackOnMissingConfig(t *testing.T) {
	engine := NewEngine(EngineConfig{
		Batches:        &stubBatches{},
		Configs:        &stubConfigs{err: errors.New("timeout")},
		AllowLiveRates: true,
		FallbackFee:    dec("75"),
	})

	p, err := engine.PriceOrder(context.Background(), []order.LineItem{item("1", 1, shipping.ModeSea)}, dec("10"), dec("0"))
	require.NoError(t, err)
	assert.True(t, p.Degraded)
	assert.True(t, p.ShippingPrice.Equal(dec("75")))
}

func TestEngine_PriceOrder_RejectsNegativeAmounts(t *testing.T) {
	engine := NewEngine(EngineConfig{Batches: &stubBatches{}})
	_, err := engine.PriceOrder(context.Background(), []order.LineItem{item("1", 1, shipping.ModeSea)}, dec("-1"), dec("0"))
	assert.Error(t, err)
}

func TestEngine_PriceOrder_TotalInvariant(t *testing.T) {
	cfg := shipping.NewDefaultConfig()
	engine := NewEngine(EngineConfig{
		Batches: &stubBatches{open: map[shipping.TransportMode]*shipping.Batch{
			shipping.ModeSea: openBatch(t, shipping.ModeSea, cfg),
		}},
	})

	p, err := engine.PriceOrder(context.Background(), []order.LineItem{item("0.7", 3, shipping.ModeSea)}, dec("99.999"), dec("1.005"))
	require.NoError(t, err)

	assert.True(t, p.TotalPrice.Equal(p.ItemsPrice.Add(p.TaxPrice).Add(p.ShippingPrice)))
	assert.Equal(t, "100", p.ItemsPrice.String())
	assert.Equal(t, "1.01", p.TaxPrice.String())
}

func TestEngine_Quote(t *testing.T) {
	engine := NewEngine(EngineConfig{Configs: &stubConfigs{cfg: shipping.NewDefaultConfig()}})
	p := engine.Quote(context.Background(), []order.LineItem{item("0.5", 3, shipping.ModeSea)})
	assert.False(t, p.Degraded)
	assert.True(t, p.ShippingPrice.Equal(dec("20")))

	engine = NewEngine(EngineConfig{Configs: &stubConfigs{err: errors.New("boom")}})
	p = engine.Quote(context.Background(), []order.LineItem{item("0.5", 3, shipping.ModeSea)})
	assert.True(t, p.Degraded)
	assert.True(t, p.ShippingPrice.Equal(FallbackShippingFee))
}
