package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/models"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/storage"
)

// MinPasswordLength is the shortest password PasswordProvider accepts.
const MinPasswordLength = 8

// Ensure PasswordProvider implements Provider
var _ Provider = (*PasswordProvider)(nil)

// PasswordProvider implements password-based accounts using bcrypt, with
// sessions issued as signed JWTs.
type PasswordProvider struct {
	storage storage.UserStore
	tokens  *JWTManager
}

// NewPasswordProvider creates a new password-based provider.
func NewPasswordProvider(users storage.UserStore, tokens *JWTManager) *PasswordProvider {
	return &PasswordProvider{
		storage: users,
		tokens:  tokens,
	}
}

// ValidateCredential checks if the password meets minimum requirements.
func (p *PasswordProvider) ValidateCredential(credential string) error {
	if len(credential) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// SignUp creates a new account with a hashed password and signs it in.
func (p *PasswordProvider) SignUp(ctx context.Context, email, password string) (SignUpResult, error) {
	// Validate password strength
	if err := p.ValidateCredential(password); err != nil {
		return SignUpResult{}, err
	}

	// Check if email already exists
	existing, err := p.storage.GetUserByEmail(ctx, email)
	if err != nil {
		return SignUpResult{}, fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		return SignUpResult{Status: SignUpAlreadyRegistered, Identity: existing.Identity()}, nil
	}

	// Hash the password
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return SignUpResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(email, string(hashed))
	if err := p.storage.CreateUser(ctx, user); err != nil {
		// A concurrent sign-up for the same address won the insert.
		if errors.Is(err, storage.ErrDuplicate) {
			return p.alreadyRegistered(ctx, email), nil
		}
		return SignUpResult{}, fmt.Errorf("failed to create user: %w", err)
	}

	grant, err := p.grant(user.Identity())
	if err != nil {
		return SignUpResult{}, err
	}

	return SignUpResult{Status: SignUpCreated, Identity: user.Identity(), Grant: grant}, nil
}

// SignIn verifies the email and password, returning a session grant if valid.
func (p *PasswordProvider) SignIn(ctx context.Context, email, password string) (*Grant, error) {
	user, err := p.storage.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	// Compare password hash
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return p.grant(user.Identity())
}

// SignOut is a no-op: tokens are stateless JWTs and simply expire.
func (p *PasswordProvider) SignOut(ctx context.Context, accessToken string) error {
	return nil
}

// Verify validates the token and checks the account still exists.
func (p *PasswordProvider) Verify(ctx context.Context, accessToken string) (*models.Identity, error) {
	id, err := p.tokens.Verify(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	user, err := p.storage.GetUserByID(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	identity := user.Identity()
	return &identity, nil
}

// alreadyRegistered reports the existing account when it can still be read.
func (p *PasswordProvider) alreadyRegistered(ctx context.Context, email string) SignUpResult {
	res := SignUpResult{Status: SignUpAlreadyRegistered}
	if existing, err := p.storage.GetUserByEmail(ctx, email); err == nil && existing != nil {
		res.Identity = existing.Identity()
	}
	return res
}

func (p *PasswordProvider) grant(id models.Identity) (*Grant, error) {
	token, expiresAt, err := p.tokens.Generate(id)
	if err != nil {
		return nil, err
	}
	return &Grant{Identity: id, AccessToken: token, ExpiresAt: expiresAt}, nil
}
