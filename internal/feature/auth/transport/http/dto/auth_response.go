package dto

import "time"

// AuthRes is returned by a successful signup or login.
type AuthRes struct {
	Token string `json:"token"`
	ID    string `json:"_id"`
	Email string `json:"email"`
}

// UserRes is returned by GET /api/auth/me.
type UserRes struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessageRes carries a client-facing message, used for every error response.
type MessageRes struct {
	Message string `json:"message"`
}
