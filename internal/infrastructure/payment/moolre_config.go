package payment

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

const (
	moolreDefaultBaseURL = "https://api.moolre.com"
	moolreDefaultTimeout = 30 * time.Second
)

// MoolreConfig contains configuration for the Moolre checkout API
type MoolreConfig struct {
	// BaseURL is the API root, e.g. https://api.moolre.com
	BaseURL string
	// APIKey is sent as the X-API-KEY header
	APIKey string
	// Currency is the ISO code charged at checkout (default GHS)
	Currency string
	// Timeout bounds every outbound call
	Timeout time.Duration
}

// Errors for configuration validation
var (
	ErrMoolreMissingAPIKey  = errors.New("moolre: missing API key")
	ErrMoolreInvalidBaseURL = errors.New("moolre: invalid base URL")
)

// Validate validates the configuration and fills defaults
func (c *MoolreConfig) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMoolreMissingAPIKey
	}
	if c.BaseURL == "" {
		c.BaseURL = moolreDefaultBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrMoolreInvalidBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Currency == "" {
		c.Currency = "GHS"
	}
	if c.Timeout <= 0 {
		c.Timeout = moolreDefaultTimeout
	}
	return nil
}
