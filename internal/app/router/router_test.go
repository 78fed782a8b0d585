package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	authadapters "paisable/internal/feature/auth/adapters"
	authhandler "paisable/internal/feature/auth/transport/handler"
	authusecase "paisable/internal/feature/auth/usecase"
	"paisable/internal/feature/notification/domain"
	notificationusecase "paisable/internal/feature/notification/usecase"
	"paisable/internal/platform/db"
	"paisable/internal/platform/http/handler"
	jwtmw "paisable/internal/platform/jwt"
)

const testSecret = "router-test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// recordingTransport captures every email instead of sending it.
type recordingTransport struct {
	mu   sync.Mutex
	sent []domain.Message
}

func (r *recordingTransport) Name() string { return "recording" }

func (r *recordingTransport) Send(_ context.Context, msg domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingTransport) messages() []domain.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Message(nil), r.sent...)
}

type testApp struct {
	router   *gin.Engine
	users    authusecase.UserRepository
	notifier *notificationusecase.Notifier
	mail     *recordingTransport
}

// newTestApp wires the real usecase, repository and token code over in-memory SQLite.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	gdb, err := db.OpenDB(db.Config{Driver: db.DriverSQLite, SQLitePath: ":memory:", RunMigrations: true}, &authadapters.UserModel{})
	require.NoError(t, err)

	users := authadapters.NewUserGorm(gdb)
	mail := &recordingTransport{}
	notifier := notificationusecase.NewNotifier(mail, notificationusecase.DefaultFrom, nil)
	uc := authusecase.NewAuthUsecase(users, jwtmw.NewGenerator(testSecret, time.Hour), notifier,
		authusecase.WithHashCost(bcrypt.MinCost))

	checks := map[string]handler.CheckFunc{"database": db.PingFunc(gdb)}
	r := NewRouter(authhandler.NewAuthHandler(uc), jwtmw.NewVerifier(testSecret), checks, nil)

	app := &testApp{router: r, users: users, notifier: notifier, mail: mail}
	t.Cleanup(func() {
		notifier.Wait()
		_, _ = users.DeleteAll(context.Background())
	})
	return app
}

func (a *testApp) do(t *testing.T, method, path, body, token string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func TestSignup(t *testing.T) {
	t.Run("creates a user and returns a token", func(t *testing.T) {
		app := newTestApp(t)

		code, body := app.do(t, http.MethodPost, "/api/auth/signup",
			`{"email":"test@example.com","password":"password123"}`, "")

		require.Equal(t, http.StatusCreated, code)
		assert.NotEmpty(t, body["token"])
		assert.NotEmpty(t, body["_id"])
		assert.Equal(t, "test@example.com", body["email"])
		assert.NotContains(t, body, "password")

		stored, err := app.users.FindByEmail(context.Background(), "test@example.com")
		require.NoError(t, err)
		assert.NotEqual(t, "password123", stored.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
	})

	t.Run("sends the welcome email", func(t *testing.T) {
		app := newTestApp(t)

		code, _ := app.do(t, http.MethodPost, "/api/auth/signup",
			`{"email":"welcome@example.com","password":"password123"}`, "")
		require.Equal(t, http.StatusCreated, code)
		app.notifier.Wait()

		msgs := app.mail.messages()
		require.Len(t, msgs, 1)
		assert.Equal(t, "welcome@example.com", msgs[0].To)
		assert.Equal(t, "Welcome to Paisable!", msgs[0].Subject)
	})

	t.Run("rejects a duplicate email and keeps one user", func(t *testing.T) {
		app := newTestApp(t)
		payload := `{"email":"dup@example.com","password":"password123"}`

		code, _ := app.do(t, http.MethodPost, "/api/auth/signup", payload, "")
		require.Equal(t, http.StatusCreated, code)

		code, body := app.do(t, http.MethodPost, "/api/auth/signup",
			`{"email":"DUP@example.com ","password":"other"}`, "")

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "User already exists", body["message"])

		n, err := app.users.DeleteAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name    string
			body    string
			message string
		}{
			{"missing password", `{"email":"a@example.com"}`, "Please enter all fields"},
			{"missing email", `{"password":"password123"}`, "Please enter all fields"},
			{"blank email", `{"email":"   ","password":"password123"}`, "Please enter all fields"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				app := newTestApp(t)

				code, body := app.do(t, http.MethodPost, "/api/auth/signup", tt.body, "")

				assert.Equal(t, http.StatusBadRequest, code)
				assert.Equal(t, tt.message, body["message"])
				assert.Empty(t, app.mail.messages())
			})
		}
	})

	t.Run("email format is not checked", func(t *testing.T) {
		app := newTestApp(t)

		for _, email := range []string{"alice", "user@localhost", "bob@example"} {
			code, body := app.do(t, http.MethodPost, "/api/auth/signup",
				`{"email":"`+email+`","password":"Password123!"}`, "")

			assert.Equal(t, http.StatusCreated, code, email)
			assert.Equal(t, email, body["email"])
		}
	})
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	code, signup := app.do(t, http.MethodPost, "/api/auth/signup",
		`{"email":"login@example.com","password":"password123"}`, "")
	require.Equal(t, http.StatusCreated, code)

	t.Run("valid credentials", func(t *testing.T) {
		code, body := app.do(t, http.MethodPost, "/api/auth/login",
			`{"email":"Login@Example.com","password":"password123"}`, "")

		require.Equal(t, http.StatusOK, code)
		assert.NotEmpty(t, body["token"])
		assert.Equal(t, signup["_id"], body["_id"])
		assert.Equal(t, "login@example.com", body["email"])
	})

	t.Run("failures are indistinguishable", func(t *testing.T) {
		bodies := []string{
			`{"email":"login@example.com","password":"wrong"}`,
			`{"email":"nobody@example.com","password":"password123"}`,
			`{"email":"login@example.com"}`,
			`{}`,
		}

		for _, b := range bodies {
			code, body := app.do(t, http.MethodPost, "/api/auth/login", b, "")

			assert.Equal(t, http.StatusUnauthorized, code, b)
			assert.Equal(t, map[string]any{"message": "Invalid email or password"}, body, b)
		}
	})
}

func TestMe(t *testing.T) {
	app := newTestApp(t)
	code, signup := app.do(t, http.MethodPost, "/api/auth/signup",
		`{"email":"me@example.com","password":"password123"}`, "")
	require.Equal(t, http.StatusCreated, code)
	token := signup["token"].(string)

	t.Run("returns the current user", func(t *testing.T) {
		code, body := app.do(t, http.MethodGet, "/api/auth/me", "", token)

		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, signup["_id"], body["_id"])
		assert.Equal(t, "me@example.com", body["email"])
		assert.NotContains(t, body, "password")
	})

	t.Run("no token", func(t *testing.T) {
		code, body := app.do(t, http.MethodGet, "/api/auth/me", "", "")

		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, "Not authorized, no token", body["message"])
	})

	t.Run("tampered token", func(t *testing.T) {
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		tampered := parts[0] + "." + parts[1] + "x." + parts[2]

		code, body := app.do(t, http.MethodGet, "/api/auth/me", "", tampered)

		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, "Not authorized, token failed", body["message"])
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other, err := jwtmw.NewGenerator("another-secret", time.Hour).GenerateToken(signup["_id"].(string), "me@example.com")
		require.NoError(t, err)

		code, _ := app.do(t, http.MethodGet, "/api/auth/me", "", other)

		assert.Equal(t, http.StatusUnauthorized, code)
	})
}

func TestProbes(t *testing.T) {
	app := newTestApp(t)

	code, body := app.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	code, body = app.do(t, http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"database": "ok"}, body["checks"])
}

func TestCORS(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/me", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.Contains(strings.ToLower(w.Header().Get("Access-Control-Allow-Headers")), "authorization"))
}

func TestCORSConfig_Origins(t *testing.T) {
	cfg := corsConfig([]string{"https://paisable.app"})

	assert.False(t, cfg.AllowAllOrigins)
	assert.Equal(t, []string{"https://paisable.app"}, cfg.AllowOrigins)
	assert.NoError(t, cfg.Validate())
}
