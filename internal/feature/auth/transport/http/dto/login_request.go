package dto

// LoginReq represents the request body for POST /api/auth/login.
// No binding rules: a missing field must fail exactly like a wrong password.
type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
