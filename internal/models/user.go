package models

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the authenticated user bound to a session.
type Identity struct {
	// UserID is the identity provider's opaque user identifier.
	// It is the owner ID written on every Task.
	UserID string `json:"user_id"`

	// Email is the address the user signed in with.
	Email string `json:"email"`
}

// User represents a registered account held by the local password provider.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique, used for login).
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last account change.
	UpdatedAt int64
}

// NewUser builds a User with a fresh ID and timestamps.
func NewUser(email, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Identity returns the session identity for this account.
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Email: u.Email}
}
