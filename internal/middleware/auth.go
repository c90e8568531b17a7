package middleware

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/auth"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/reqctx"
)

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", auth.ErrMissingToken
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", auth.ErrInvalidToken
	}
	return parts[1], nil
}

// RequireAuth returns a middleware that verifies bearer tokens and requires
// authentication. It adds the caller's identity and token to the request
// context.
func RequireAuth(verifier auth.TokenVerifier) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			token, err := bearerToken(req.Header().Get("Authorization"))
			if err != nil {
				slog.Warn("RPC rejected", "procedure", req.Spec().Procedure, "error", err)
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			id, err := verifier.Verify(ctx, token)
			if err != nil {
				slog.Warn("RPC rejected", "procedure", req.Spec().Procedure, "error", err)
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			ctx = reqctx.WithIdentity(ctx, *id)
			ctx = reqctx.WithAccessToken(ctx, token)
			return next(ctx, req)
		}
	}
}

// OptionalAuth returns a middleware that verifies bearer tokens if present,
// but allows requests without authentication. Handlers that need a caller
// check reqctx.UserID themselves.
func OptionalAuth(verifier auth.TokenVerifier) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			token, err := bearerToken(req.Header().Get("Authorization"))
			if err == nil {
				// Invalid tokens are ignored here.
				if id, err := verifier.Verify(ctx, token); err == nil {
					ctx = reqctx.WithIdentity(ctx, *id)
					ctx = reqctx.WithAccessToken(ctx, token)
				}
			}
			return next(ctx, req)
		}
	}
}
