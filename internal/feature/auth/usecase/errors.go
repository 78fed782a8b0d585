// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned by a repository when the unique email
	// constraint rejects a new user.
	ErrEmailAlreadyExists = errors.New("email already exists")
)
