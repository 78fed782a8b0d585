package di

import (
	"context"
	"log/slog"
	"time"

	"paisable/internal/app/config"
	authusecase "paisable/internal/feature/auth/usecase"
	"paisable/internal/feature/notification/adapters/sendgrid"
	"paisable/internal/feature/notification/adapters/smtp"
	"paisable/internal/feature/notification/usecase"
	platformhttp "paisable/internal/platform/http"
	"paisable/internal/shared/ratelimiter"
)

// The notifier is what signup uses to send the welcome email.
var _ authusecase.WelcomeNotifier = (*usecase.Notifier)(nil)

// NewMailTransport selects the email transport once: SendGrid when an API key
// is set, pooled SMTP when EMAIL_USER and EMAIL_PASS are set, otherwise a
// transport that rejects every message. The returned func releases the
// transport's connections.
func NewMailTransport(ctx context.Context, cfg config.Config) (usecase.Transport, func() error) {
	switch {
	case cfg.SendGrid.Enabled():
		slog.Info("email provider selected", "provider", "sendgrid")
		client := platformhttp.NewHTTPClient(cfg.SendGrid.Timeout)
		return sendgrid.NewTransport(cfg.SendGrid, client), func() error { return nil }

	case cfg.SMTP.Enabled():
		slog.Info("email provider selected", "provider", "smtp", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)
		tr := smtp.NewTransport(cfg.SMTP)
		// Verification failure is only reported; sends will retry the connection.
		_ = tr.Verify(ctx)
		return tr, tr.Close

	default:
		slog.Warn("No email provider fully configured. Emails may fail to send. " +
			"Set SENDGRID_API_KEY for SendGrid or EMAIL_USER/EMAIL_PASS for SMTP.")
		return usecase.NewDisabledTransport(), func() error { return nil }
	}
}

// NewNotifier creates the notifier with the configured sender and rate limit.
func NewNotifier(cfg config.Config, transport usecase.Transport) *usecase.Notifier {
	var limiter ratelimiter.Limiter
	if cfg.EmailRateLimit > 0 {
		limiter = ratelimiter.NewRateLimiter(cfg.EmailRateLimit, time.Minute)
	}
	return usecase.NewNotifier(transport, cfg.EmailFrom, limiter)
}
