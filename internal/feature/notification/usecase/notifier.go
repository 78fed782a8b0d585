// Package usecase sends application email through a pluggable transport.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"paisable/internal/feature/notification/domain"
	"paisable/internal/shared/ratelimiter"
)

// DefaultFrom is the sender used when neither EMAIL_FROM nor EMAIL_USER is set.
const DefaultFrom = "no-reply@paisable.com"

// dispatchTimeout bounds one background send.
const dispatchTimeout = 30 * time.Second

// ResolveFrom picks the sender address: EMAIL_FROM, else EMAIL_USER, else DefaultFrom.
func ResolveFrom(emailFrom, emailUser string) string {
	switch {
	case emailFrom != "":
		return emailFrom
	case emailUser != "":
		return emailUser
	default:
		return DefaultFrom
	}
}

// Notifier sends email through a Transport. Welcome emails are fire and
// forget; Wait drains the ones still in flight.
type Notifier struct {
	transport Transport
	from      string
	limiter   ratelimiter.Limiter
	wg        sync.WaitGroup
}

// NewNotifier creates a Notifier. limiter may be nil to disable throttling.
func NewNotifier(transport Transport, from string, limiter ratelimiter.Limiter) *Notifier {
	if from == "" {
		from = DefaultFrom
	}
	return &Notifier{
		transport: transport,
		from:      from,
		limiter:   limiter,
	}
}

// Provider returns the name of the selected transport.
func (n *Notifier) Provider() string {
	return n.transport.Name()
}

// Send delivers msg synchronously. A message without From gets the
// configured sender.
func (n *Notifier) Send(ctx context.Context, msg domain.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if msg.From == "" {
		msg.From = n.from
	}

	if n.limiter != nil {
		if err := n.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	if err := n.transport.Send(ctx, msg); err != nil {
		return fmt.Errorf("%s email failed: %w", n.transport.Name(), err)
	}
	return nil
}

// SendWelcomeEmail dispatches the welcome email to a new user in the
// background. It returns immediately, does nothing for an empty address, and
// reports failures only through the log. The send outlives ctx cancellation.
func (n *Notifier) SendWelcomeEmail(ctx context.Context, to, name string) {
	if to == "" {
		return
	}

	html, text, err := RenderWelcome(name)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render welcome email", "error", err)
		return
	}
	msg := domain.Message{To: to, Subject: WelcomeSubject, Text: text, HTML: html}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dispatchTimeout)
		defer cancel()

		if err := n.Send(ctx, msg); err != nil {
			slog.Error("Failed to send welcome email", "to", to, "provider", n.transport.Name(), "error", err)
			return
		}
		slog.Info("Welcome email sent", "to", to, "provider", n.transport.Name())
	}()
}

// Wait blocks until every background send has finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
