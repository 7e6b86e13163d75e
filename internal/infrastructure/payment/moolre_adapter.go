package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/napsterimports/backend/internal/domain/payment"
	"github.com/napsterimports/backend/internal/domain/shared"
)

// maxResponseBytes caps how much of a gateway response is read
const maxResponseBytes = 1 << 20

// ErrMoolreMalformedWebhook means a notification body could not be decoded
var ErrMoolreMalformedWebhook = errors.New("moolre: malformed webhook payload")

// MoolreAdapter implements payment.Provider for the Moolre hosted checkout
type MoolreAdapter struct {
	config     *MoolreConfig
	httpClient *http.Client
	now        func() time.Time
}

// MoolreOption customizes a MoolreAdapter
type MoolreOption func(*MoolreAdapter)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) MoolreOption {
	return func(a *MoolreAdapter) {
		a.httpClient = c
	}
}

// WithClock sets the time source for notification timestamps
func WithClock(now func() time.Time) MoolreOption {
	return func(a *MoolreAdapter) {
		a.now = now
	}
}

// NewMoolreAdapter creates a new Moolre adapter
func NewMoolreAdapter(config *MoolreConfig, opts ...MoolreOption) (*MoolreAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	a := &MoolreAdapter{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Name returns the provider identifier
func (a *MoolreAdapter) Name() string {
	return moolreProviderName
}

// Initiate creates a hosted checkout session and returns its URL
func (a *MoolreAdapter) Initiate(ctx context.Context, req payment.CheckoutRequest) (string, error) {
	if !req.Amount.IsPositive() {
		return "", fmt.Errorf("moolre: amount must be positive")
	}
	currency := req.Currency
	if currency == "" {
		currency = a.config.Currency
	}

	body, err := json.Marshal(moolreInitiateRequest{
		Amount:          json.Number(req.Amount.StringFixed(2)),
		Currency:        currency,
		CustomerEmail:   req.CustomerEmail,
		ClientReference: req.Reference(),
		Description:     req.Description,
		RedirectURL:     req.RedirectURL,
		CallbackURL:     req.CallbackURL,
	})
	if err != nil {
		return "", fmt.Errorf("moolre: failed to encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.BaseURL+moolreInitiatePath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("moolre: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(moolreAPIKeyHeader, a.config.APIKey)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", shared.WrapDomainError(payment.ErrGatewayUnavailable.Code, payment.ErrGatewayUnavailable.Message,
			fmt.Errorf("moolre: request failed: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", shared.WrapDomainError(payment.ErrGatewayUnavailable.Code, payment.ErrGatewayUnavailable.Message,
			fmt.Errorf("moolre: failed to read response: %w", err))
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return "", shared.WrapDomainError(payment.ErrGatewayUnavailable.Code, payment.ErrGatewayUnavailable.Message,
			fmt.Errorf("moolre: status %d", resp.StatusCode))
	case resp.StatusCode >= http.StatusBadRequest:
		return "", shared.WrapDomainError(payment.ErrGatewayRejected.Code, payment.ErrGatewayRejected.Message,
			fmt.Errorf("moolre: status %d: %s", resp.StatusCode, summarize(respBody)))
	}

	var out moolreInitiateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", shared.WrapDomainError(payment.ErrGatewayUnavailable.Code, payment.ErrGatewayUnavailable.Message,
			fmt.Errorf("moolre: failed to decode response: %w", err))
	}
	if strings.TrimSpace(out.CheckoutURL) == "" {
		return "", shared.WrapDomainError(payment.ErrGatewayRejected.Code, payment.ErrGatewayRejected.Message,
			fmt.Errorf("moolre: response has no checkout_url: %s", out.Message))
	}
	return out.CheckoutURL, nil
}

// NormalizeWebhook translates a Moolre notification.
// Only status SUCCESS counts as a successful payment.
func (a *MoolreAdapter) NormalizeWebhook(raw []byte) (payment.NormalizedEvent, error) {
	var hook moolreWebhook
	if err := json.Unmarshal(raw, &hook); err != nil {
		return payment.NormalizedEvent{}, fmt.Errorf("%w: %v", ErrMoolreMalformedWebhook, err)
	}

	outcome := payment.OutcomeOther
	if hook.Status == moolreStatusPaid {
		outcome = payment.OutcomeSuccess
	}
	return payment.NormalizedEvent{
		OrderReference:        strings.TrimSpace(hook.ClientReference),
		Outcome:               outcome,
		ProviderTransactionID: strings.TrimSpace(hook.TransactionID),
		PayerIdentity:         hook.CustomerEmail,
		OccurredAt:            a.now(),
		Provider:              moolreProviderName,
	}, nil
}

func summarize(body []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

var _ payment.Provider = (*MoolreAdapter)(nil)
