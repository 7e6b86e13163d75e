package payment

import "encoding/json"

const (
	moolreProviderName = "moolre"
	moolreInitiatePath = "/v1/checkout/initiate"
	moolreAPIKeyHeader = "X-API-KEY"
	moolreStatusPaid   = "SUCCESS"
)

// moolreInitiateRequest is the body of POST /v1/checkout/initiate
type moolreInitiateRequest struct {
	Amount          json.Number `json:"amount"`
	Currency        string      `json:"currency"`
	CustomerEmail   string      `json:"customer_email,omitempty"`
	ClientReference string      `json:"client_reference"`
	Description     string      `json:"description,omitempty"`
	RedirectURL     string      `json:"redirect_url,omitempty"`
	CallbackURL     string      `json:"callback_url"`
}

// moolreInitiateResponse is the subset of the initiate response we read
type moolreInitiateResponse struct {
	Status      string `json:"status,omitempty"`
	Message     string `json:"message,omitempty"`
	CheckoutURL string `json:"checkout_url"`
}

// moolreWebhook is the notification Moolre posts to the callback URL
type moolreWebhook struct {
	ClientReference string `json:"client_reference"`
	Status          string `json:"status"`
	TransactionID   string `json:"transaction_id"`
	CustomerEmail   string `json:"customer_email"`
}
