package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/models"
)

// Gateway is the application's single entry point to the identity provider.
// It validates input, normalises provider errors into this package's
// sentinels and makes sign-out best-effort.
type Gateway struct {
	provider Provider
	logger   *slog.Logger
}

// NewGateway wraps provider. A nil logger falls back to slog.Default().
func NewGateway(provider Provider, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{provider: provider, logger: logger}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers email/password. Duplicates come back as
// SignUpAlreadyRegistered with a nil error.
func (g *Gateway) SignUp(ctx context.Context, email, password string) (SignUpResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return SignUpResult{}, ErrMissingCredentials
	}

	res, err := g.provider.SignUp(ctx, email, password)
	if err != nil {
		g.logger.Warn("Sign-up failed", "email", email, "error", err)
		return SignUpResult{}, normalize(err)
	}

	g.logger.Info("Sign-up completed", "email", email, "status", res.Status.String(), "user_id", res.Identity.UserID)
	return res, nil
}

// SignIn authenticates and returns a grant. Any rejection of the
// credentials is reported as ErrInvalidCredentials (possibly wrapped in a
// *ProviderError carrying the provider's wording).
func (g *Gateway) SignIn(ctx context.Context, email, password string) (*Grant, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	grant, err := g.provider.SignIn(ctx, email, password)
	if err != nil {
		g.logger.Warn("Sign-in failed", "email", email, "error", err)
		return nil, normalize(err)
	}

	g.logger.Info("User signed in", "user_id", grant.Identity.UserID, "email", grant.Identity.Email)
	return grant, nil
}

// SignOut revokes the token on the provider. Failures are logged and
// swallowed: the caller clears its local session regardless.
func (g *Gateway) SignOut(ctx context.Context, accessToken string) {
	if err := g.provider.SignOut(ctx, accessToken); err != nil {
		g.logger.Warn("Remote sign-out failed", "error", err)
		return
	}
	g.logger.Info("User signed out")
}

// Verify resolves a bearer token to an identity.
func (g *Gateway) Verify(ctx context.Context, accessToken string) (*models.Identity, error) {
	if accessToken == "" {
		return nil, ErrMissingToken
	}
	id, err := g.provider.Verify(ctx, accessToken)
	if err != nil {
		return nil, normalize(err)
	}
	return id, nil
}

// Message returns the text to show a user for err. Provider wording is kept
// when the provider supplied some.
func Message(err error) string {
	var perr *ProviderError
	if errors.As(err, &perr) && perr.Message != "" && !errors.Is(err, ErrProviderUnavailable) {
		return perr.Message
	}
	switch {
	case errors.Is(err, ErrProviderUnavailable):
		return "The sign-in service is unavailable. Please try again."
	case IsAuthError(err):
		for _, sentinel := range []error{
			ErrInvalidCredentials, ErrMissingCredentials, ErrWeakPassword,
			ErrEmailExists, ErrSignUpRejected, ErrInvalidToken, ErrMissingToken,
		} {
			if errors.Is(err, sentinel) {
				return capitalize(sentinel.Error())
			}
		}
	}
	return "Something went wrong. Please try again."
}

// normalize keeps classified errors and marks everything else as a provider
// outage.
func normalize(err error) error {
	if IsAuthError(err) || errors.Is(err, ErrProviderUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
