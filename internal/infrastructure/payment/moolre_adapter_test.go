package payment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/order"
	"github.com/napsterimports/backend/internal/domain/payment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T, baseURL string) *MoolreAdapter {
	t.Helper()
	a, err := NewMoolreAdapter(&MoolreConfig{BaseURL: baseURL, APIKey: "test-key", Timeout: 2 * time.Second})
	require.NoError(t, err)
	return a
}

func testCheckout(orderID uuid.UUID) payment.CheckoutRequest {
	return payment.CheckoutRequest{
		OrderID:       orderID,
		PaymentType:   order.PaymentTypeShipping,
		Amount:        decimal.RequireFromString("35.5"),
		Currency:      "GHS",
		CustomerEmail: "ama@example.com",
		Description:   "Order shipping",
		RedirectURL:   "https://shop.example.com/order/" + orderID.String(),
		CallbackURL:   "https://api.example.com/api/v1/payments/webhook/moolre?token=abc",
	}
}

func TestMoolreConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  MoolreConfig
		wantErr error
	}{
		{name: "valid with defaults", config: MoolreConfig{APIKey: "k"}},
		{name: "missing api key", config: MoolreConfig{BaseURL: "https://api.moolre.com"}, wantErr: ErrMoolreMissingAPIKey},
		{name: "relative base url", config: MoolreConfig{APIKey: "k", BaseURL: "api.moolre.com"}, wantErr: ErrMoolreInvalidBaseURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, moolreDefaultBaseURL, tt.config.BaseURL)
			assert.Equal(t, "GHS", tt.config.Currency)
			assert.Equal(t, moolreDefaultTimeout, tt.config.Timeout)
		})
	}
}

func TestMoolreAdapter_Initiate(t *testing.T) {
	orderID := uuid.New()

	t.Run("posts checkout and returns url", func(t *testing.T) {
		var captured map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/checkout/initiate", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &captured))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"success","checkout_url":"https://pay.moolre.com/c/abc"}`))
		}))
		defer srv.Close()

		url, err := newTestAdapter(t, srv.URL).Initiate(context.Background(), testCheckout(orderID))
		require.NoError(t, err)
		assert.Equal(t, "https://pay.moolre.com/c/abc", url)

		assert.Equal(t, 35.5, captured["amount"])
		assert.Equal(t, "GHS", captured["currency"])
		assert.Equal(t, orderID.String()+":shipping", captured["client_reference"])
		assert.Equal(t, "ama@example.com", captured["customer_email"])
		assert.Contains(t, captured["callback_url"], "token=abc")
	})

	t.Run("client error is rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"invalid amount"}`))
		}))
		defer srv.Close()

		_, err := newTestAdapter(t, srv.URL).Initiate(context.Background(), testCheckout(orderID))
		assert.ErrorIs(t, err, payment.ErrGatewayRejected)
		assert.Contains(t, err.Error(), "invalid amount")
	})

	t.Run("server error is unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := newTestAdapter(t, srv.URL).Initiate(context.Background(), testCheckout(orderID))
		assert.ErrorIs(t, err, payment.ErrGatewayUnavailable)
	})

	t.Run("missing checkout url is rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"failed","message":"merchant disabled"}`))
		}))
		defer srv.Close()

		_, err := newTestAdapter(t, srv.URL).Initiate(context.Background(), testCheckout(orderID))
		assert.ErrorIs(t, err, payment.ErrGatewayRejected)
	})

	t.Run("timeout is unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		a, err := NewMoolreAdapter(&MoolreConfig{BaseURL: srv.URL, APIKey: "k", Timeout: 50 * time.Millisecond})
		require.NoError(t, err)

		_, err = a.Initiate(context.Background(), testCheckout(orderID))
		assert.ErrorIs(t, err, payment.ErrGatewayUnavailable)
	})

	t.Run("non-positive amount is refused locally", func(t *testing.T) {
		req := testCheckout(orderID)
		req.Amount = decimal.Zero
		_, err := newTestAdapter(t, "http://127.0.0.1:1").Initiate(context.Background(), req)
		assert.Error(t, err)
	})
}

func TestMoolreAdapter_NormalizeWebhook(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	a, err := NewMoolreAdapter(&MoolreConfig{APIKey: "k"}, WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)
	orderID := uuid.New()

	tests := []struct {
		name    string
		body    string
		outcome payment.Outcome
	}{
		{name: "success", body: `{"client_reference":"` + orderID.String() + `:item","status":"SUCCESS","transaction_id":"T1","customer_email":"a@b.c"}`, outcome: payment.OutcomeSuccess},
		{name: "failed", body: `{"client_reference":"` + orderID.String() + `","status":"FAILED","transaction_id":"T2"}`, outcome: payment.OutcomeOther},
		{name: "lowercase success is not success", body: `{"client_reference":"x","status":"success","transaction_id":"T3"}`, outcome: payment.OutcomeOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := a.NormalizeWebhook([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, ev.Outcome)
			assert.Equal(t, "moolre", ev.Provider)
			assert.Equal(t, fixed, ev.OccurredAt)
		})
	}

	t.Run("fields are carried", func(t *testing.T) {
		ev, err := a.NormalizeWebhook([]byte(tests[0].body))
		require.NoError(t, err)
		assert.Equal(t, orderID.String()+":item", ev.OrderReference)
		assert.Equal(t, "T1", ev.ProviderTransactionID)
		assert.Equal(t, "a@b.c", ev.PayerIdentity)
	})

	t.Run("malformed body", func(t *testing.T) {
		_, err := a.NormalizeWebhook([]byte(`{not json`))
		assert.True(t, errors.Is(err, ErrMoolreMalformedWebhook))
	})
}
