package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"golang.org/x/crypto/bcrypt"

	"paisable/internal/feature/auth/domain"
	"paisable/internal/feature/auth/domain/entity"
)

// dummyHash is compared against when no user matches so that login takes
// the same time whether or not the email is registered.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention, the interface is defined by the consumer (usecase),
// not the provider (adapters).
type UserRepository interface {
	// Create persists a new user and fills in its ID and timestamps.
	// It returns ErrEmailAlreadyExists if the email is already taken.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail retrieves the user with the given normalized email.
	// It returns ErrUserNotFound if there is none.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID retrieves the user with the given ID.
	// It returns ErrUserNotFound if there is none.
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// DeleteAll removes every user and returns how many were removed.
	DeleteAll(ctx context.Context) (int64, error)
}

// JWTGenerator issues signed session tokens.
type JWTGenerator interface {
	// GenerateToken returns a signed token for the given user.
	GenerateToken(userID, email string) (string, error)
}

// WelcomeNotifier sends the welcome email after signup.
// Implementations must not block on delivery and must not report failures.
type WelcomeNotifier interface {
	SendWelcomeEmail(ctx context.Context, to, name string)
}

// AuthResult is returned by a successful signup or login.
type AuthResult struct {
	Token  string
	UserID string
	Email  string
}

// authUsecase implements the authentication business logic.
type authUsecase struct {
	users        UserRepository
	jwtGenerator JWTGenerator
	notifier     WelcomeNotifier
	hashCost     int
}

// Option configures an authUsecase.
type Option func(*authUsecase)

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(u *authUsecase) {
		u.hashCost = cost
	}
}

// NewAuthUsecase creates the auth usecase. notifier may be nil, in which case
// no welcome email is sent.
func NewAuthUsecase(users UserRepository, jwtGenerator JWTGenerator, notifier WelcomeNotifier, opts ...Option) *authUsecase {
	u := &authUsecase{
		users:        users,
		jwtGenerator: jwtGenerator,
		notifier:     notifier,
		hashCost:     bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// normalizeEmail trims and lower-cases an email so lookups are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// credentials is the input shared by signup and login.
type credentials struct {
	Email    string
	Password string
}

// validateSignup checks that both fields are present. The email format is
// not checked; any non-empty address is accepted.
func (c credentials) validateSignup() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Email, validation.Required),
		validation.Field(&c.Password, validation.Required),
	)
	if err != nil {
		return domain.ErrMissingFields
	}
	return nil
}

// Signup registers a new user with a hashed password, issues a token and
// dispatches the welcome email.
func (u *authUsecase) Signup(ctx context.Context, email, password string) (*AuthResult, error) {
	in := credentials{Email: normalizeEmail(email), Password: password}
	if err := in.validateSignup(); err != nil {
		return nil, err
	}

	// Explicit uniqueness check; the store's unique index covers the race.
	_, err := u.users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, domain.ErrUserAlreadyExists
	case !errors.Is(err, ErrUserNotFound):
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{Email: in.Email, PasswordHash: string(hashed)}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := u.jwtGenerator.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if u.notifier != nil {
		u.notifier.SendWelcomeEmail(ctx, user.Email, "")
	}

	return &AuthResult{Token: token, UserID: user.ID, Email: user.Email}, nil
}

// Login authenticates a user and returns a token on success.
// An unknown email, a wrong password and missing fields all produce
// domain.ErrInvalidCredentials, and a bcrypt comparison always runs so the
// three cases cannot be told apart by timing either.
func (u *authUsecase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	in := credentials{Email: normalizeEmail(email), Password: password}

	var (
		user *entity.User
		err  error = ErrUserNotFound
	)
	if in.Email != "" && in.Password != "" {
		user, err = u.users.FindByEmail(ctx, in.Email)
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.PasswordHash
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(in.Password))

	if err != nil || compareErr != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := u.jwtGenerator.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	slog.DebugContext(ctx, "issued session token", "user_id", user.ID)
	return &AuthResult{Token: token, UserID: user.ID, Email: user.Email}, nil
}

// CurrentUser returns the user identified by a verified token subject.
func (u *authUsecase) CurrentUser(ctx context.Context, id string) (*entity.User, error) {
	if id == "" {
		return nil, ErrUserNotFound
	}
	return u.users.FindByID(ctx, id)
}
