package sendgrid

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"paisable/internal/feature/notification/domain"
	"paisable/internal/feature/notification/usecase"
)

const sendPath = "/v3/mail/send"

// APIError is returned for a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sendgrid: status %d: %s", e.StatusCode, e.Body)
}

// transport implements usecase.Transport over the SendGrid API.
type transport struct {
	cfg    Config
	client *http.Client
}

// Compile-time check to ensure transport implements Transport.
var _ usecase.Transport = (*transport)(nil)

// NewTransport creates a SendGrid transport that calls the API with client.
func NewTransport(cfg Config, client *http.Client) *transport {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &transport{cfg: cfg, client: client}
}

func (t *transport) Name() string { return "sendgrid" }

// Send posts a single-recipient message to /v3/mail/send.
func (t *transport) Send(ctx context.Context, msg domain.Message) error {
	m := mail.NewSingleEmail(
		mail.NewEmail("", msg.From),
		msg.Subject,
		mail.NewEmail("", msg.To),
		msg.Text,
		msg.HTML,
	)
	body := mail.GetRequestBody(m)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.BaseURL+sendPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sendgrid: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
