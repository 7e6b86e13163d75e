package shipping

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/shared"
	"github.com/napsterimports/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type batchFixture struct {
	configRepo *MockConfigRepository
	batchRepo  *MockBatchRepository
	settlement *MockSettlementReader
	publisher  *MockEventPublisher
	metrics    *MockBatchMetrics
	svc        *BatchService
}

func newBatchFixture(t *testing.T) *batchFixture {
	f := &batchFixture{
		configRepo: new(MockConfigRepository),
		batchRepo:  new(MockBatchRepository),
		settlement: new(MockSettlementReader),
		publisher:  &MockEventPublisher{},
		metrics:    &MockBatchMetrics{},
	}
	scope := NewNoOpTransactionScope(f.configRepo, nil, f.batchRepo)
	rates := NewRateConfigService(RateConfigServiceConfig{ConfigRepo: f.configRepo, TxScope: scope})
	f.svc = NewBatchService(BatchServiceConfig{
		BatchRepo:        f.batchRepo,
		SettlementReader: f.settlement,
		Configs:          rates,
		TxScope:          scope,
		EventPublisher:   f.publisher,
		Metrics:          f.metrics,
		Logger:           zaptest.NewLogger(t),
	})
	return f
}

func draftBatch(t *testing.T, mode shipping.TransportMode) *shipping.Batch {
	b, err := shipping.NewBatch("October "+string(mode), mode, nil, nil, uuid.New())
	require.NoError(t, err)
	b.ClearDomainEvents()
	return b
}

func TestBatchService_CreateBatch(t *testing.T) {
	f := newBatchFixture(t)
	f.batchRepo.On("Create", mock.Anything, mock.AnythingOfType("*shipping.Batch")).Return(nil)

	resp, err := f.svc.CreateBatch(context.Background(), CreateBatchRequest{Name: "Sea Oct"}, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, "sea", resp.Mode)
	assert.Equal(t, "draft", resp.Status)
	assert.Nil(t, resp.Snapshot)
	assert.Len(t, f.publisher.GetEvents(), 1)
}

func TestBatchService_CreateBatch_InvalidMode(t *testing.T) {
	f := newBatchFixture(t)
	_, err := f.svc.CreateBatch(context.Background(), CreateBatchRequest{Name: "x", Mode: "rail"}, uuid.New())
	assert.Error(t, err)
	f.batchRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBatchService_GetActiveBatch(t *testing.T) {
	t.Run("defaults to sea", func(t *testing.T) {
		f := newBatchFixture(t)
		open := draftBatch(t, shipping.ModeSea)
		f.batchRepo.On("FindOpenByMode", mock.Anything, shipping.ModeSea).Return(open, nil)

		got, err := f.svc.GetActiveBatch(context.Background(), "")
		require.NoError(t, err)
		assert.Same(t, open, got)
	})

	t.Run("none open is a distinct outcome", func(t *testing.T) {
		f := newBatchFixture(t)
		f.batchRepo.On("FindOpenByMode", mock.Anything, shipping.ModeAir).Return(nil, shared.ErrNotFound)

		_, err := f.svc.GetActiveBatch(context.Background(), "air")
		assert.ErrorIs(t, err, shipping.ErrNoActiveBatch)
		assert.NotErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestBatchService_OpenBatch(t *testing.T) {
	f := newBatchFixture(t)
	batch := draftBatch(t, shipping.ModeSea)
	cfg := shipping.NewDefaultConfig()

	f.configRepo.On("Find", mock.Anything).Return(cfg, nil)
	f.batchRepo.On("FindByIDForUpdate", mock.Anything, batch.ID).Return(batch, nil)
	f.batchRepo.On("SaveWithLock", mock.Anything, batch).Return(nil)

	resp, err := f.svc.OpenBatch(context.Background(), batch.ID)

	require.NoError(t, err)
	assert.Equal(t, "open", resp.Status)
	require.NotNil(t, resp.Snapshot)
	assert.True(t, resp.Snapshot.RatePerWeightUnit.Equal(decimal.RequireFromString("11.19")))
	assert.True(t, resp.Snapshot.MinSeaFee.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, 1, f.metrics.opened["sea"])
	assert.Len(t, f.publisher.GetEvents(), 1)
	assert.Equal(t, shipping.EventTypeBatchOpened, f.publisher.GetEvents()[0].EventType())
}

func TestBatchService_OpenBatch_AlreadyOpenForMode(t *testing.T) {
	f := newBatchFixture(t)
	batch := draftBatch(t, shipping.ModeAir)

	f.configRepo.On("Find", mock.Anything).Return(shipping.NewDefaultConfig(), nil)
	f.batchRepo.On("FindByIDForUpdate", mock.Anything, batch.ID).Return(batch, nil)
	f.batchRepo.On("SaveWithLock", mock.Anything, batch).Return(shipping.ErrBatchAlreadyOpen)

	_, err := f.svc.OpenBatch(context.Background(), batch.ID)

	assert.ErrorIs(t, err, shipping.ErrBatchAlreadyOpen)
	assert.Empty(t, f.publisher.GetEvents())
	assert.Zero(t, f.metrics.opened["air"])
}

func TestBatchService_OpenBatch_NotDraft(t *testing.T) {
	f := newBatchFixture(t)
	batch := draftBatch(t, shipping.ModeSea)
	require.NoError(t, batch.Open(shipping.NewDefaultConfig()))

	f.configRepo.On("Find", mock.Anything).Return(shipping.NewDefaultConfig(), nil)
	f.batchRepo.On("FindByIDForUpdate", mock.Anything, batch.ID).Return(batch, nil)

	_, err := f.svc.OpenBatch(context.Background(), batch.ID)

	assert.ErrorIs(t, err, shipping.ErrInvalidTransition)
	f.batchRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestBatchService_TransitionStatus(t *testing.T) {
	f := newBatchFixture(t)
	batch := draftBatch(t, shipping.ModeSea)
	require.NoError(t, batch.Open(shipping.NewDefaultConfig()))
	batch.ClearDomainEvents()

	f.batchRepo.On("FindByIDForUpdate", mock.Anything, batch.ID).Return(batch, nil)
	f.batchRepo.On("SaveWithLock", mock.Anything, batch).Return(nil)

	resp, err := f.svc.TransitionStatus(context.Background(), batch.ID, "closed")
	require.NoError(t, err)
	assert.Equal(t, "closed", resp.Status)
	assert.NotNil(t, resp.ClosedAt)

	_, err = f.svc.TransitionStatus(context.Background(), batch.ID, "completed")
	assert.ErrorIs(t, err, shipping.ErrInvalidTransition)
}

func TestBatchService_TransitionStatus_OpenDelegates(t *testing.T) {
	f := newBatchFixture(t)
	batch := draftBatch(t, shipping.ModeAir)

	f.configRepo.On("Find", mock.Anything).Return(shipping.NewDefaultConfig(), nil)
	f.batchRepo.On("FindByIDForUpdate", mock.Anything, batch.ID).Return(batch, nil)
	f.batchRepo.On("SaveWithLock", mock.Anything, batch).Return(nil)

	resp, err := f.svc.TransitionStatus(context.Background(), batch.ID, "open")
	require.NoError(t, err)
	require.NotNil(t, resp.Snapshot)
	assert.True(t, resp.Snapshot.RatePerWeightUnit.Equal(decimal.NewFromInt(150)))
}

func TestBatchService_ListBatches(t *testing.T) {
	f := newBatchFixture(t)
	batches := []shipping.Batch{*draftBatch(t, shipping.ModeSea)}
	f.batchRepo.On("FindAll", mock.Anything, mock.MatchedBy(func(fl shared.Filter) bool {
		return fl.Filters["mode"] == "sea" && fl.Filters["status"] == "draft" && fl.PageSize == 20
	})).Return(batches, int64(1), nil)

	page, err := f.svc.ListBatches(context.Background(), BatchListFilter{Mode: "sea", Status: "draft"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.TotalPages)
}

func TestBatchService_Settlement(t *testing.T) {
	f := newBatchFixture(t)
	batch := draftBatch(t, shipping.ModeSea)
	summary := &shipping.BatchSettlement{BatchID: batch.ID, OrderCount: 3, FullyPaidCount: 1}

	f.batchRepo.On("FindByID", mock.Anything, batch.ID).Return(batch, nil)
	f.settlement.On("SummarizeBatch", mock.Anything, batch.ID).Return(summary, nil)

	got, err := f.svc.Settlement(context.Background(), batch.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.OrderCount)

	missing := uuid.New()
	f.batchRepo.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)
	_, err = f.svc.Settlement(context.Background(), missing)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
