package auth

import (
	"context"
	"errors"
	"time"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/models"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrMissingCredentials  = errors.New("email and password are required")
	ErrWeakPassword        = errors.New("password must be at least 8 characters")
	ErrEmailExists         = errors.New("email already registered")
	ErrSignUpRejected      = errors.New("sign-up rejected by identity provider")
	ErrProviderUnavailable = errors.New("identity provider unavailable")
)

// SignUpStatus is the typed outcome of a registration attempt.
type SignUpStatus int

const (
	// SignUpCreated means a new account exists. The provider may still
	// require email confirmation before SignIn succeeds.
	SignUpCreated SignUpStatus = iota + 1
	// SignUpAlreadyRegistered means the email already has an account.
	SignUpAlreadyRegistered
)

func (s SignUpStatus) String() string {
	switch s {
	case SignUpCreated:
		return "created"
	case SignUpAlreadyRegistered:
		return "already_registered"
	default:
		return "unknown"
	}
}

// Grant is an authenticated session issued by a provider.
type Grant struct {
	Identity    models.Identity
	AccessToken string
	ExpiresAt   time.Time
}

// SignUpResult describes a completed registration call.
type SignUpResult struct {
	Status   SignUpStatus
	Identity models.Identity
	// Grant is set when the provider signs the user in immediately.
	Grant *Grant
}

// TokenVerifier resolves an access token to the identity it was issued for.
type TokenVerifier interface {
	Verify(ctx context.Context, accessToken string) (*models.Identity, error)
}

// Provider defines the interface for identity provider implementations.
// This abstraction allows swapping the hosted auth API for local password
// accounts without changing the session or service layers.
type Provider interface {
	// SignUp registers an account. A duplicate email is reported as
	// SignUpAlreadyRegistered, not as an error.
	SignUp(ctx context.Context, email, password string) (SignUpResult, error)

	// SignIn verifies the credentials and returns a session grant.
	SignIn(ctx context.Context, email, password string) (*Grant, error)

	// SignOut revokes the access token where the provider supports it.
	SignOut(ctx context.Context, accessToken string) error

	TokenVerifier
}

// IsAuthError reports whether err is a credential or registration problem
// the user can fix, as opposed to an infrastructure failure.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrMissingCredentials) ||
		errors.Is(err, ErrWeakPassword) ||
		errors.Is(err, ErrEmailExists) ||
		errors.Is(err, ErrSignUpRejected) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrMissingToken)
}
