package jwtmw

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTokenWithSecret signs a token with arbitrary claims for negative tests.
func createTokenWithSecret(secret, sub string, expiresIn time.Duration) string {
	claims := jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(expiresIn).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, _ := token.SignedString([]byte(secret))
	return signed
}

func TestVerifier_RoundTrip(t *testing.T) {
	t.Parallel()

	gen := NewGenerator("round-trip", time.Hour)
	token, err := gen.GenerateToken("user-42", "u@example.com")
	require.NoError(t, err)

	userID, err := NewVerifier("round-trip").VerifyToken(token)

	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestVerifier_Rejects(t *testing.T) {
	t.Parallel()

	const secret = "verifier-secret"

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1"})
	noExpStr, _ := noExp.SignedString([]byte(secret))

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	noneStr, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{"malformed token", "not.a.valid.token"},
		{"random string", "randomstring"},
		{"empty", ""},
		{"wrong secret", createTokenWithSecret("wrong-secret", "user-1", time.Hour)},
		{"expired token", createTokenWithSecret(secret, "user-1", -time.Hour)},
		{"missing exp", noExpStr},
		{"alg none", noneStr},
		{"empty subject", createTokenWithSecret(secret, "", time.Hour)},
	}

	v := NewVerifier(secret)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			userID, err := v.VerifyToken(tt.token)

			assert.Error(t, err)
			assert.Empty(t, userID)
		})
	}
}

func TestVerifier_EmptySubject(t *testing.T) {
	t.Parallel()

	_, err := NewVerifier("s").VerifyToken(createTokenWithSecret("s", "", time.Hour))

	assert.True(t, errors.Is(err, ErrMissingSubject))
}
