package jwtmw

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// EnvKeyJWTSecret names the environment variable holding the HMAC secret.
	EnvKeyJWTSecret = "JWT_SECRET"
	// EnvKeyJWTExpiresIn names the environment variable holding the token lifetime.
	EnvKeyJWTExpiresIn = "JWT_EXPIRES_IN"

	// DefaultExpiration is the token lifetime when JWT_EXPIRES_IN is unset.
	DefaultExpiration = 30 * 24 * time.Hour

	// devSecret is used when JWT_SECRET is unset so local runs work.
	devSecret = "paisable-dev-secret"
)

// Config holds the token signing settings.
type Config struct {
	Secret     string
	Expiration time.Duration
	// SecretFromEnv is false when the development secret is in use.
	SecretFromEnv bool
}

// LoadConfig reads the token settings from the environment.
func LoadConfig() (Config, error) {
	cfg := Config{
		Secret:        os.Getenv(EnvKeyJWTSecret),
		Expiration:    DefaultExpiration,
		SecretFromEnv: true,
	}
	if cfg.Secret == "" {
		cfg.Secret = devSecret
		cfg.SecretFromEnv = false
	}
	if raw := os.Getenv(EnvKeyJWTExpiresIn); raw != "" {
		d, err := ParseExpiration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvKeyJWTExpiresIn, err)
		}
		cfg.Expiration = d
	}
	return cfg, nil
}

// ParseExpiration parses a Go duration ("12h") or a whole number of days ("30d").
func ParseExpiration(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid expiration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid expiration %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid expiration %q", s)
	}
	return d, nil
}
