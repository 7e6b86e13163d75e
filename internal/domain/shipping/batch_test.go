package shipping

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBatch(t *testing.T, mode TransportMode) *Batch {
	t.Helper()
	b, err := NewBatch("Sea Batch - Oct", mode, nil, nil, uuid.New())
	require.NoError(t, err)
	return b
}

func TestParseTransportMode(t *testing.T) {
	tests := []struct {
		in      string
		want    TransportMode
		wantErr bool
	}{
		{"", ModeSea, false},
		{"sea", ModeSea, false},
		{"AIR", ModeAir, false},
		{" air ", ModeAir, false},
		{"rail", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTransportMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBatchStatus_CanTransitionTo(t *testing.T) {
	ordered := []BatchStatus{
		BatchStatusDraft, BatchStatusOpen, BatchStatusClosed,
		BatchStatusShipped, BatchStatusArrived, BatchStatusCompleted,
	}

	for i, from := range ordered {
		for j, to := range ordered {
			expected := j == i+1
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				assert.Equal(t, expected, from.CanTransitionTo(to))
			})
		}
	}

	assert.False(t, BatchStatusDraft.CanTransitionTo(BatchStatus("cancelled")))
}

func TestNewBatch(t *testing.T) {
	creator := uuid.New()
	closeDate := time.Now().Add(24 * time.Hour)
	arrival := closeDate.Add(30 * 24 * time.Hour)

	t.Run("creates draft", func(t *testing.T) {
		b, err := NewBatch("  Air Nov  ", ModeAir, &closeDate, &arrival, creator)
		require.NoError(t, err)
		assert.Equal(t, "Air Nov", b.Name)
		assert.Equal(t, BatchStatusDraft, b.Status)
		assert.Nil(t, b.Snapshot)
		assert.Nil(t, b.OpenDate)
		assert.Equal(t, creator, b.CreatedBy)
		require.Len(t, b.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeBatchCreated, b.GetDomainEvents()[0].EventType())
	})

	t.Run("validation", func(t *testing.T) {
		_, err := NewBatch("", ModeSea, nil, nil, creator)
		assert.Error(t, err)
		_, err = NewBatch("x", TransportMode("rail"), nil, nil, creator)
		assert.Error(t, err)
		_, err = NewBatch("x", ModeSea, &arrival, &closeDate, creator)
		assert.Error(t, err)
		_, err = NewBatch("x", ModeSea, nil, nil, uuid.Nil)
		assert.Error(t, err)
	})
}

func TestBatch_Open_Sea(t *testing.T) {
	b := newTestBatch(t, ModeSea)
	cfg := NewDefaultConfig()
	cfg.Version = 4

	require.NoError(t, b.Open(cfg))

	assert.Equal(t, BatchStatusOpen, b.Status)
	assert.True(t, b.IsOpen())
	require.NotNil(t, b.OpenDate)
	require.NotNil(t, b.Snapshot)
	assert.Equal(t, ModeSea, b.Snapshot.Mode)
	assert.Equal(t, "11.19", b.Snapshot.RatePerWeightUnit.String())
	assert.True(t, b.Snapshot.MinSeaFee.Equal(dec("20")))
	assert.True(t, b.Snapshot.MinAirChargeableWeight.IsZero())
	assert.True(t, b.Snapshot.ExchangeRate.Equal(dec("12.5")))
	assert.Equal(t, 4, b.Snapshot.ConfigVersion)
}

func TestBatch_Open_Air(t *testing.T) {
	b := newTestBatch(t, ModeAir)
	require.NoError(t, b.Open(NewDefaultConfig()))

	require.NotNil(t, b.Snapshot)
	assert.True(t, b.Snapshot.RatePerWeightUnit.Equal(dec("150")))
	assert.True(t, b.Snapshot.MinAirChargeableWeight.Equal(dec("0.1")))
	assert.True(t, b.Snapshot.MinSeaFee.IsZero())
}

func TestBatch_Open_SnapshotFrozen(t *testing.T) {
	b := newTestBatch(t, ModeSea)
	cfg := NewDefaultConfig()
	require.NoError(t, b.Open(cfg))
	locked := *b.Snapshot

	_, err := cfg.Apply(RateChanges{FieldUsdToExchangeRate: dec("20")}, uuid.New())
	require.NoError(t, err)

	// reopening is rejected and the snapshot stays as locked
	assert.ErrorIs(t, b.Open(cfg), ErrInvalidTransition)
	assert.Equal(t, locked, *b.Snapshot)
}

func TestBatch_Open_RequiresConfig(t *testing.T) {
	b := newTestBatch(t, ModeSea)
	assert.ErrorIs(t, b.Open(nil), ErrConfigUnavailable)
	assert.Equal(t, BatchStatusDraft, b.Status)
	assert.Nil(t, b.Snapshot)
}

func TestBatch_Advance(t *testing.T) {
	b := newTestBatch(t, ModeSea)

	t.Run("cannot skip open", func(t *testing.T) {
		assert.ErrorIs(t, b.Advance(BatchStatusClosed), ErrInvalidTransition)
	})

	t.Run("open must go through Open", func(t *testing.T) {
		assert.Error(t, b.Advance(BatchStatusOpen))
	})

	require.NoError(t, b.Open(NewDefaultConfig()))
	b.ClearDomainEvents()

	t.Run("forward sequence", func(t *testing.T) {
		require.NoError(t, b.Advance(BatchStatusClosed))
		assert.NotNil(t, b.ClosedAt)
		require.NoError(t, b.Advance(BatchStatusShipped))
		assert.NotNil(t, b.ShippedAt)
		require.NoError(t, b.Advance(BatchStatusArrived))
		assert.NotNil(t, b.ArrivedAt)
		require.NoError(t, b.Advance(BatchStatusCompleted))
		assert.NotNil(t, b.CompletedAt)
		assert.Len(t, b.GetDomainEvents(), 4)
	})

	t.Run("completed is terminal", func(t *testing.T) {
		assert.ErrorIs(t, b.Advance(BatchStatusArrived), ErrInvalidTransition)
		assert.ErrorIs(t, b.Advance(BatchStatus("anything")), ErrInvalidTransition)
		assert.Equal(t, BatchStatusCompleted, b.Status)
	})
}
