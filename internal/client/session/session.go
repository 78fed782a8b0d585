// Package session holds the client-side auth state: the token, the signed-in
// user and whether the stored token has been verified yet.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Paths the session navigates to.
const (
	PathDashboard = "/dashboard"
	PathLogin     = "/login"
)

// Client-facing notifications.
const (
	msgVerifyFailed  = "Token verification failed"
	msgLoginFailed   = "Login failed"
	msgSignupFailed  = "Signup failed"
	msgSignupDefault = "Signup failed. Please try again."
)

// ErrLoginFailed is returned by Login for any failure.
var ErrLoginFailed = errors.New("login failed")

// State is where the session is in its lifecycle.
type State int

const (
	// StateLoading means a stored token has not been checked yet.
	StateLoading State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// User is the signed-in user as reported by the API.
type User struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Navigator moves the UI to another path.
type Navigator interface {
	Navigate(path string)
}

// Toaster shows a transient error notification.
type Toaster interface {
	Error(msg string)
}

// SignupError carries the message to show for a failed signup.
type SignupError struct {
	Message    string
	StatusCode int
}

func (e *SignupError) Error() string { return e.Message }

// Session is the client auth context. It is safe for concurrent use.
type Session struct {
	baseURL string
	client  *http.Client
	store   TokenStore
	nav     Navigator
	toast   Toaster

	mu    sync.RWMutex
	token string
	user  *User
	state State
}

// Option configures a Session.
type Option func(*Session)

// WithHTTPClient overrides the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Session) { s.client = c }
}

// New creates a session in the loading state. Call Init to verify any stored token.
func New(baseURL string, store TokenStore, nav Navigator, toast Toaster, opts ...Option) *Session {
	s := &Session{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
		store:   store,
		nav:     nav,
		toast:   toast,
		state:   StateLoading,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token returns the current token, or "".
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Init verifies the stored token against /api/auth/me. A rejected token is
// cleared and reported. The session always leaves the loading state.
func (s *Session) Init(ctx context.Context) {
	token, err := s.store.Load()
	if err != nil {
		slog.Warn("failed to read stored token", "error", err)
	}
	if token == "" {
		s.set("", nil, StateAnonymous)
		return
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	var user User
	if err := s.call(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		slog.Debug("token verification failed", "error", err)
		s.toast.Error(msgVerifyFailed)
		s.clearStore()
		s.set("", nil, StateAnonymous)
		return
	}
	s.set(token, &user, StateAuthenticated)
}

// authResponse is the body of a successful login or signup.
type authResponse struct {
	Token string `json:"token"`
	User
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login signs in and navigates to the dashboard. Any failure shows
// "Login failed" and returns ErrLoginFailed.
func (s *Session) Login(ctx context.Context, email, password string) error {
	var res authResponse
	if err := s.call(ctx, http.MethodPost, "/api/auth/login", credentials{email, password}, &res); err != nil {
		slog.Debug("login failed", "error", err)
		s.toast.Error(msgLoginFailed)
		return ErrLoginFailed
	}
	return s.establish(res, msgLoginFailed, ErrLoginFailed)
}

// Signup registers and navigates to the dashboard. Any failure shows
// "Signup failed" and returns a *SignupError with the server's message.
func (s *Session) Signup(ctx context.Context, email, password string) error {
	var res authResponse
	if err := s.call(ctx, http.MethodPost, "/api/auth/signup", credentials{email, password}, &res); err != nil {
		s.toast.Error(msgSignupFailed)
		serr := &SignupError{Message: msgSignupDefault}
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			serr.StatusCode = apiErr.StatusCode
			if apiErr.Message != "" {
				serr.Message = apiErr.Message
			}
		}
		return serr
	}
	return s.establish(res, msgSignupFailed, &SignupError{Message: msgSignupDefault})
}

// Logout forgets the token and user and navigates to the login page.
func (s *Session) Logout() {
	s.set("", nil, StateAnonymous)
	s.clearStore()
	s.nav.Navigate(PathLogin)
}

// establish stores a freshly issued token and moves to the dashboard.
// A response without a token is reported with failMsg and failErr.
func (s *Session) establish(res authResponse, failMsg string, failErr error) error {
	if res.Token == "" {
		s.toast.Error(failMsg)
		return failErr
	}
	if err := s.store.Save(res.Token); err != nil {
		slog.Warn("failed to persist token", "error", err)
	}
	user := res.User
	s.set(res.Token, &user, StateAuthenticated)
	s.nav.Navigate(PathDashboard)
	return nil
}

func (s *Session) set(token string, user *User, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.user, s.state = token, user, state
}

func (s *Session) clearStore() {
	if err := s.store.Clear(); err != nil {
		slog.Warn("failed to clear stored token", "error", err)
	}
}

// NewRequest builds an API request with a JSON body and, when signed in,
// the bearer token. path is relative to the API base URL.
func (s *Session) NewRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := s.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}
