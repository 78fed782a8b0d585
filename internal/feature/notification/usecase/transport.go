package usecase

import (
	"context"
	"errors"

	"paisable/internal/feature/notification/domain"
)

// ErrTransportDisabled is returned by the transport used when no provider is configured.
var ErrTransportDisabled = errors.New("no email provider configured")

// Transport delivers a message through one provider.
type Transport interface {
	// Name identifies the provider in logs.
	Name() string
	// Send delivers msg, whose From is already set.
	Send(ctx context.Context, msg domain.Message) error
}

// disabledTransport rejects every message.
type disabledTransport struct{}

// NewDisabledTransport returns the transport used when neither SendGrid nor
// SMTP credentials are configured.
func NewDisabledTransport() Transport {
	return disabledTransport{}
}

func (disabledTransport) Name() string { return "disabled" }

func (disabledTransport) Send(context.Context, domain.Message) error {
	return ErrTransportDisabled
}
