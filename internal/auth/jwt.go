package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
)

// tokenIssuer is stamped into every access token and required on the way back in.
const tokenIssuer = "todo-app"

// sessionClaims is the payload of an access token. The subject carries the
// user id so the token reads like the ones GoTrue hands out.
type sessionClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies the HS256 access tokens of the local
// password backend.
type JWTManager struct {
	key    []byte
	ttl    time.Duration
	parser *jwt.Parser
}

// NewJWTManager returns a manager signing with secret. Tokens stay valid for ttl.
func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		key: []byte(secret),
		ttl: ttl,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(tokenIssuer),
			jwt.WithExpirationRequired(),
		),
	}
}

// Generate signs an access token for id and reports when it expires.
func (m *JWTManager) Generate(id models.Identity) (string, time.Time, error) {
	issued := time.Now()
	expires := issued.Add(m.ttl)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}).SignedString(m.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, expires, nil
}

// Verify implements TokenVerifier.
func (m *JWTManager) Verify(_ context.Context, token string) (*models.Identity, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	var claims sessionClaims
	if _, err := m.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.key, nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &models.Identity{UserID: claims.Subject, Email: claims.Email}, nil
}
