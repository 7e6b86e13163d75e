package payment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReference_RoundTrip(t *testing.T) {
	id := uuid.New()
	for _, pt := range []order.PaymentType{order.PaymentTypeItem, order.PaymentTypeShipping, order.PaymentTypeFull} {
		t.Run(string(pt), func(t *testing.T) {
			gotID, gotType, err := ParseReference(EncodeReference(id, pt))
			require.NoError(t, err)
			assert.Equal(t, id, gotID)
			assert.Equal(t, pt, gotType)
		})
	}
}

func TestParseReference(t *testing.T) {
	id := uuid.New()

	t.Run("bare id is full", func(t *testing.T) {
		gotID, pt, err := ParseReference(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, gotID)
		assert.Equal(t, order.PaymentTypeFull, pt)
	})

	t.Run("invalid", func(t *testing.T) {
		for _, ref := range []string{"", "not-an-id", id.String() + ":deposit", ":item"} {
			_, _, err := ParseReference(ref)
			assert.ErrorIs(t, err, ErrInvalidReference, ref)
		}
	})
}

func TestNormalizedEvent(t *testing.T) {
	e := NormalizedEvent{
		OrderReference:        "abc:item",
		PaymentType:           order.PaymentTypeItem,
		Outcome:               OutcomeSuccess,
		ProviderTransactionID: "txn-1",
		Provider:              "moolre",
	}
	assert.True(t, e.IsSuccess())
	assert.Equal(t, "payment:moolre:abc:item:txn-1", e.IdempotencyKey())

	r := e.Receipt()
	assert.Equal(t, order.PaymentTypeItem, r.Type)
	assert.Equal(t, "txn-1", r.ProviderTransactionID)

	e.Outcome = OutcomeOther
	assert.False(t, e.IsSuccess())
}
