// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"paisable/internal/feature/auth/domain"
	"paisable/internal/feature/auth/domain/entity"
	"paisable/internal/feature/auth/transport/http/dto"
	"paisable/internal/feature/auth/usecase"
	jwtmw "paisable/internal/platform/jwt"
)

// msgServerError is the only message an unexpected failure ever exposes.
const msgServerError = "Server error"

// AuthUsecase はハンドラーが必要とする認証操作を定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Signup registers a new user and returns a session token for it.
	Signup(ctx context.Context, email, password string) (*usecase.AuthResult, error)
	// Login authenticates a user and returns a session token on success.
	Login(ctx context.Context, email, password string) (*usecase.AuthResult, error)
	// CurrentUser returns the user a verified token was issued for.
	CurrentUser(ctx context.Context, id string) (*entity.User, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup はユーザー登録APIエンドポイント（POST /api/auth/signup）を処理します。
// - 成功時はtoken・_id・email付きで201を返却
// - 未入力の項目、登録済みのメールアドレスは400を返却
// - それ以外の失敗は500を返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup request could not be decoded", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.MessageRes{Message: domain.ErrMissingFields.Message})
		return
	}

	res, err := h.auth.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("signup failed", "error", err, "remote_addr", c.ClientIP())
		writeError(c, err)
		return
	}

	slog.Info("user signup successful", "user_id", res.UserID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.AuthRes{Token: res.Token, ID: res.UserID, Email: res.Email})
}

// Login はユーザーログインAPIエンドポイント（POST /api/auth/login）を処理します。
// - 認証成功時はJWTトークン付きで200を返却
// - 不正なJSONを含め、認証失敗はすべて同じ401を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login request could not be decoded", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, dto.MessageRes{Message: domain.ErrInvalidCredentials.Message})
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("login failed", "error", err, "remote_addr", c.ClientIP())
		writeError(c, err)
		return
	}

	slog.Info("user login successful", "user_id", res.UserID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.AuthRes{Token: res.Token, ID: res.UserID, Email: res.Email})
}

// Me handles GET /api/auth/me. It must run behind jwtmw.AuthRequired.
// A token whose user no longer exists is treated as a failed token.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := jwtmw.UserIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.MessageRes{Message: "Not authorized, no token"})
		return
	}

	user, err := h.auth.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			slog.Warn("token subject not found", "user_id", userID, "remote_addr", c.ClientIP())
			c.JSON(http.StatusUnauthorized, dto.MessageRes{Message: "Not authorized, token failed"})
			return
		}
		slog.Error("failed to load current user", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, dto.MessageRes{Message: msgServerError})
		return
	}

	c.JSON(http.StatusOK, dto.UserRes{ID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt})
}

// writeError maps a usecase error to a status and a client-safe message.
// Only domain errors carry their text to the client.
func writeError(c *gin.Context, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		slog.Error("unexpected auth failure", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, dto.MessageRes{Message: msgServerError})
		return
	}

	status := http.StatusBadRequest
	if errors.Is(err, domain.ErrAuth) {
		status = http.StatusUnauthorized
	}
	c.JSON(status, dto.MessageRes{Message: derr.Message})
}
