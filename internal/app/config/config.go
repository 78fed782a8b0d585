// Package config resolves every setting the server needs, once, at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"paisable/internal/feature/notification/adapters/sendgrid"
	"paisable/internal/feature/notification/adapters/smtp"
	notificationusecase "paisable/internal/feature/notification/usecase"
	"paisable/internal/platform/cache"
	"paisable/internal/platform/db"
	jwtmw "paisable/internal/platform/jwt"
	"paisable/internal/platform/mongo"
	"paisable/internal/platform/redis"
)

// DefaultEmailRateLimit is the number of emails allowed per minute.
const DefaultEmailRateLimit = 100

// Config is the resolved server configuration.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string
	// CORSOrigins lists allowed browser origins; empty allows all.
	CORSOrigins []string

	JWT          jwtmw.Config
	Mongo        mongo.Config
	DB           db.Config
	Redis        redis.Config
	UserCacheTTL time.Duration

	SendGrid  sendgrid.Config
	SMTP      smtp.Config
	EmailFrom string
	// EmailRateLimit is emails per minute; 0 disables throttling.
	EmailRateLimit int
}

// Load reads the environment. Call godotenv.Load first to honour a .env file.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		CORSOrigins: splitList(os.Getenv("CORS_ORIGINS")),
		Mongo:       mongo.LoadConfig(),
		DB:          db.LoadConfigFromEnv(),
		Redis:       redis.LoadConfig(),
		SendGrid:    sendgrid.LoadConfig(),
	}

	var err error
	if cfg.JWT, err = jwtmw.LoadConfig(); err != nil {
		return Config{}, err
	}
	if cfg.SMTP, err = smtp.LoadConfig(); err != nil {
		return Config{}, err
	}

	cfg.UserCacheTTL = cache.DefaultUserTTL
	if raw := os.Getenv("USER_CACHE_TTL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid USER_CACHE_TTL %q", raw)
		}
		cfg.UserCacheTTL = d
	}

	cfg.EmailRateLimit = DefaultEmailRateLimit
	if raw := os.Getenv("EMAIL_RATE_LIMIT"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("invalid EMAIL_RATE_LIMIT %q", raw)
		}
		cfg.EmailRateLimit = n
	}

	cfg.EmailFrom = notificationusecase.ResolveFrom(os.Getenv("EMAIL_FROM"), cfg.SMTP.Username)
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// splitList parses a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
