// Package auth authenticates users and issues session tokens.
package auth

import (
	"context"
	"errors"

	"github.com/mmynk/splitbill/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("a valid email is required")
)

// IsInvalidInput reports whether err rejects what the caller typed, as
// opposed to a storage or hashing failure.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrWeakPassword) || errors.Is(err, ErrInvalidEmail)
}

// Authenticator signs up and signs in the account owners that records and
// friends belong to.
type Authenticator interface {
	// Register creates an account. Returns ErrEmailExists for a taken email
	// and an IsInvalidInput error for a rejected email or credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the account for a matching email and credential,
	// or ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)
}

// UserStorage is the subset of the store an Authenticator needs.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

var _ Authenticator = (*PasswordAuthenticator)(nil)
