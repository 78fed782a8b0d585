// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// SignupReq represents the request body for POST /api/auth/signup.
// Presence and format are checked by the usecase so that the error
// messages stay part of the auth contract.
type SignupReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
