// Package reqctx carries the authenticated caller through a request context.
package reqctx

import (
	"context"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	userIDKey      contextKey = "user_id"
	emailKey       contextKey = "email"
	accessTokenKey contextKey = "access_token"
)

// WithIdentity returns a context carrying the caller's identity.
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	ctx = context.WithValue(ctx, userIDKey, id.UserID)
	return context.WithValue(ctx, emailKey, id.Email)
}

// WithAccessToken returns a context carrying the caller's provider token.
// Remote stores forward it so the backend can apply its own row policies.
func WithAccessToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, accessTokenKey, token)
}

// UserID extracts the user ID from the context.
// Returns empty string if not found.
func UserID(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

// Email extracts the user email from the context.
// Returns empty string if not found.
func Email(ctx context.Context) string {
	v, _ := ctx.Value(emailKey).(string)
	return v
}

// AccessToken extracts the caller's provider token from the context.
func AccessToken(ctx context.Context) string {
	v, _ := ctx.Value(accessTokenKey).(string)
	return v
}
