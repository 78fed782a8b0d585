package smtp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	gomail "gopkg.in/mail.v2"

	"paisable/internal/feature/notification/domain"
	"paisable/internal/feature/notification/usecase"
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("smtp transport closed")

// dialer opens one authenticated SMTP session. *gomail.Dialer satisfies it.
type dialer interface {
	Dial() (gomail.SendCloser, error)
}

// conn is a pooled connection and the number of messages it has carried.
type conn struct {
	sc   gomail.SendCloser
	sent int
}

// Transport implements usecase.Transport with a bounded connection pool.
// It is safe for concurrent use.
type Transport struct {
	cfg    Config
	dialer dialer

	// slots bounds live connections; idle holds the reusable ones.
	slots chan struct{}
	idle  chan *conn

	mu     sync.Mutex
	closed bool
}

// Compile-time check to ensure Transport implements Transport.
var _ usecase.Transport = (*Transport)(nil)

// NewTransport creates a pooled SMTP transport. No connection is opened
// until the first Send or Verify.
func NewTransport(cfg Config) *Transport {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.Secure
	if cfg.Timeout > 0 {
		d.Timeout = cfg.Timeout
	}
	return newTransport(cfg, d)
}

func newTransport(cfg Config, d dialer) *Transport {
	if cfg.MaxConnections <= 0 {
		cfg.MaxConnections = DefaultMaxConnections
	}
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = DefaultMaxMessages
	}
	return &Transport{
		cfg:    cfg,
		dialer: d,
		slots:  make(chan struct{}, cfg.MaxConnections),
		idle:   make(chan *conn, cfg.MaxConnections),
	}
}

func (t *Transport) Name() string { return "smtp" }

// Verify opens and closes one connection to check host and credentials.
func (t *Transport) Verify(ctx context.Context) error {
	sc, err := t.dialer.Dial()
	if err != nil {
		slog.WarnContext(ctx, "SMTP transporter verification failed", "host", t.cfg.Host, "error", err)
		return err
	}
	_ = sc.Close()
	slog.InfoContext(ctx, "SMTP transporter verified", "host", t.cfg.Host)
	return nil
}

// Send delivers msg on a pooled connection. A reused connection that fails
// is discarded and the message is retried once on a fresh one.
func (t *Transport) Send(ctx context.Context, msg domain.Message) error {
	select {
	case t.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-t.slots }()

	if t.isClosed() {
		return ErrClosed
	}

	m := buildMessage(msg)

	c := t.takeIdle()
	reused := c != nil
	for {
		if c == nil {
			sc, err := t.dialer.Dial()
			if err != nil {
				return fmt.Errorf("smtp dial %s:%d: %w", t.cfg.Host, t.cfg.Port, err)
			}
			c = &conn{sc: sc}
		}

		err := gomail.Send(c.sc, m)
		if err == nil {
			c.sent++
			t.release(c)
			return nil
		}

		_ = c.sc.Close()
		c = nil
		if !reused {
			return err
		}
		slog.WarnContext(ctx, "pooled SMTP connection failed, retrying on a fresh one", "error", err)
		reused = false
	}
}

// Close closes idle connections. Sends after Close fail with ErrClosed.
func (t *Transport) Close() error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()

	var errs []error
	for {
		select {
		case c := <-t.idle:
			errs = append(errs, c.sc.Close())
		default:
			return errors.Join(errs...)
		}
	}
}

func (t *Transport) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func (t *Transport) takeIdle() *conn {
	select {
	case c := <-t.idle:
		return c
	default:
		return nil
	}
}

// release returns c to the pool, or closes it once it reached MaxMessages
// or the transport was closed.
func (t *Transport) release(c *conn) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if c.sent >= t.cfg.MaxMessages || t.closed {
		_ = c.sc.Close()
		return
	}
	select {
	case t.idle <- c:
	default:
		_ = c.sc.Close()
	}
}

// buildMessage renders msg as a multipart/alternative email.
func buildMessage(msg domain.Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)

	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		m.SetBody("text/html", msg.HTML)
	default:
		m.SetBody("text/plain", msg.Text)
	}
	return m
}
