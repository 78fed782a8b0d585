// Package smtp delivers email over a pool of persistent SMTP connections.
package smtp

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults used when the corresponding variable is unset.
const (
	DefaultHost           = "smtp.gmail.com"
	DefaultPort           = 587
	DefaultMaxConnections = 5
	DefaultMaxMessages    = 100
	DefaultTimeout        = 10 * time.Second
)

// Config holds the SMTP settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	// Secure selects implicit TLS instead of STARTTLS.
	Secure bool
	// MaxConnections bounds the number of open connections.
	MaxConnections int
	// MaxMessages is how many messages one connection sends before it is replaced.
	MaxMessages int
	Timeout     time.Duration
}

// LoadConfig reads EMAIL_USER, EMAIL_PASS and the SMTP_* variables.
func LoadConfig() (Config, error) {
	cfg := Config{
		Host:           os.Getenv("SMTP_HOST"),
		Username:       os.Getenv("EMAIL_USER"),
		Password:       os.Getenv("EMAIL_PASS"),
		Secure:         os.Getenv("SMTP_SECURE") == "true",
		Port:           DefaultPort,
		MaxConnections: DefaultMaxConnections,
		MaxMessages:    DefaultMaxMessages,
		Timeout:        DefaultTimeout,
	}
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"SMTP_PORT", &cfg.Port},
		{"SMTP_MAX_CONNECTIONS", &cfg.MaxConnections},
		{"SMTP_MAX_MESSAGES", &cfg.MaxMessages},
	}
	for _, v := range ints {
		raw := os.Getenv(v.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid %s %q", v.key, raw)
		}
		*v.dst = n
	}
	return cfg, nil
}

// Enabled reports whether both credentials are set.
func (c Config) Enabled() bool {
	return c.Username != "" && c.Password != ""
}
