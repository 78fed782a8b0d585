// Package sendgrid delivers email through the SendGrid v3 HTTP API.
package sendgrid

import (
	"os"
	"strings"
	"time"
)

// DefaultBaseURL is the public SendGrid API host.
const DefaultBaseURL = "https://api.sendgrid.com"

// DefaultTimeout bounds one API call.
const DefaultTimeout = 10 * time.Second

// Config holds the SendGrid settings.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// LoadConfig reads SENDGRID_API_KEY and SENDGRID_BASE_URL.
func LoadConfig() Config {
	cfg := Config{
		APIKey:  os.Getenv("SENDGRID_API_KEY"),
		BaseURL: strings.TrimRight(os.Getenv("SENDGRID_BASE_URL"), "/"),
		Timeout: DefaultTimeout,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return cfg
}

// Enabled reports whether an API key is configured.
func (c Config) Enabled() bool {
	return c.APIKey != ""
}
