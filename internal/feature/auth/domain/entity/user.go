// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered Paisable account.
type User struct {
	// ID is the opaque identifier assigned by the store
	// (a Mongo ObjectID in hex or a UUID for SQL stores).
	ID string

	// Email is the normalized (trimmed, lower-cased) address used to log in.
	// It is unique across all users.
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	// Plaintext passwords are never stored.
	PasswordHash string

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}
