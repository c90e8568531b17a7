package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/models"
)

// Ensure GoTrueProvider implements Provider
var _ Provider = (*GoTrueProvider)(nil)

// GoTrueConfig holds hosted auth API settings.
type GoTrueConfig struct {
	// BaseURL is the project endpoint; requests go to BaseURL/auth/v1/...
	BaseURL string
	// APIKey is the project access key sent as the apikey header.
	APIKey string
	// HTTPClient is optional; a client with Timeout is built when nil.
	HTTPClient *http.Client
	// Timeout bounds every call. Zero means no timeout.
	Timeout time.Duration
}

// GoTrueProvider talks to a hosted auth service speaking the GoTrue API.
type GoTrueProvider struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// ProviderError carries the message returned by the identity provider.
// Kind classifies it as one of the package's sentinel errors.
type ProviderError struct {
	Status  int
	Code    string
	Message string
	Kind    error
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Kind
}

// NewGoTrueProvider validates cfg and returns a provider.
func NewGoTrueProvider(cfg GoTrueConfig) (*GoTrueProvider, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("auth: base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("auth: API key is required")
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &GoTrueProvider{
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/auth/v1",
		apiKey:   cfg.APIKey,
		client:   client,
	}, nil
}

type gotrueUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	// Identities is nil when absent and empty when the provider hides an
	// existing account behind an obfuscated user.
	Identities *[]json.RawMessage `json:"identities"`
}

type gotrueSession struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
	ExpiresAt   int64       `json:"expires_at"`
	User        *gotrueUser `json:"user"`
}

// signUpResponse covers both answers of /signup: a bare user when email
// confirmation is pending, or a full session when sign-in is immediate.
type signUpResponse struct {
	gotrueUser
	gotrueSession
}

type gotrueError struct {
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
	Msg              string          `json:"msg"`
	Message          string          `json:"message"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers an account. The hosted API does not say "duplicate"
// outright: it answers with a user whose identities list is empty, or with
// a user_already_exists error on newer versions. Both become
// SignUpAlreadyRegistered here so callers get a typed result.
func (p *GoTrueProvider) SignUp(ctx context.Context, email, password string) (SignUpResult, error) {
	var resp signUpResponse
	err := p.do(ctx, http.MethodPost, "/signup", "", credentials{email, password}, &resp)
	if err != nil {
		var perr *ProviderError
		if errors.As(err, &perr) {
			switch {
			case perr.Code == "user_already_exists" || perr.Code == "email_exists" ||
				strings.Contains(strings.ToLower(perr.Message), "already registered"):
				return SignUpResult{Status: SignUpAlreadyRegistered, Identity: models.Identity{Email: email}}, nil
			case perr.Code == "weak_password":
				perr.Kind = ErrWeakPassword
			case perr.Status < 500:
				perr.Kind = ErrSignUpRejected
			}
		}
		return SignUpResult{}, err
	}

	user := &resp.gotrueUser
	if resp.User != nil {
		user = resp.User
	}
	identity := models.Identity{UserID: user.ID, Email: user.Email}
	if identity.Email == "" {
		identity.Email = email
	}

	if resp.AccessToken != "" {
		return SignUpResult{
			Status:   SignUpCreated,
			Identity: identity,
			Grant:    p.grant(identity, resp.gotrueSession),
		}, nil
	}
	if user.Identities != nil && len(*user.Identities) == 0 {
		return SignUpResult{Status: SignUpAlreadyRegistered, Identity: identity}, nil
	}
	if user.ID == "" {
		return SignUpResult{}, fmt.Errorf("%w: sign-up response has no user", ErrProviderUnavailable)
	}
	return SignUpResult{Status: SignUpCreated, Identity: identity}, nil
}

// SignIn exchanges email and password for a session.
func (p *GoTrueProvider) SignIn(ctx context.Context, email, password string) (*Grant, error) {
	var resp gotrueSession
	err := p.do(ctx, http.MethodPost, "/token?grant_type=password", "", credentials{email, password}, &resp)
	if err != nil {
		var perr *ProviderError
		if errors.As(err, &perr) && perr.Status < 500 {
			perr.Kind = ErrInvalidCredentials
		}
		return nil, err
	}
	if resp.AccessToken == "" || resp.User == nil {
		return nil, fmt.Errorf("%w: token response has no session", ErrProviderUnavailable)
	}
	return p.grant(models.Identity{UserID: resp.User.ID, Email: resp.User.Email}, resp), nil
}

// SignOut revokes the session on the provider.
func (p *GoTrueProvider) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	return p.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
}

// Verify asks the provider who owns the token.
func (p *GoTrueProvider) Verify(ctx context.Context, accessToken string) (*models.Identity, error) {
	if accessToken == "" {
		return nil, ErrMissingToken
	}
	var user gotrueUser
	err := p.do(ctx, http.MethodGet, "/user", accessToken, nil, &user)
	if err != nil {
		var perr *ProviderError
		if errors.As(err, &perr) && (perr.Status == http.StatusUnauthorized || perr.Status == http.StatusForbidden) {
			perr.Kind = ErrInvalidToken
		}
		return nil, err
	}
	if user.ID == "" {
		return nil, ErrInvalidToken
	}
	return &models.Identity{UserID: user.ID, Email: user.Email}, nil
}

func (p *GoTrueProvider) grant(id models.Identity, s gotrueSession) *Grant {
	g := &Grant{Identity: id, AccessToken: s.AccessToken}
	switch {
	case s.ExpiresAt > 0:
		g.ExpiresAt = time.Unix(s.ExpiresAt, 0)
	case s.ExpiresIn > 0:
		g.ExpiresAt = time.Now().Add(time.Duration(s.ExpiresIn) * time.Second)
	}
	return g
}

func (p *GoTrueProvider) do(ctx context.Context, method, path, bearer string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", p.apiKey)
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrProviderUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newProviderError(resp.StatusCode, payload)
	}
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrProviderUnavailable, err)
	}
	return nil
}

func newProviderError(status int, payload []byte) *ProviderError {
	perr := &ProviderError{Status: status, Kind: ErrProviderUnavailable}

	var body gotrueError
	if err := json.Unmarshal(payload, &body); err != nil {
		perr.Message = strings.TrimSpace(string(payload))
		return perr
	}

	perr.Code = body.ErrorCode
	// Older GoTrue versions put the HTTP status in "code"; only a string
	// there is an error code.
	if perr.Code == "" && len(body.Code) > 0 && body.Code[0] == '"' {
		var code string
		if err := json.Unmarshal(body.Code, &code); err == nil {
			perr.Code = code
		}
	}
	if perr.Code == "" {
		perr.Code = body.Error
	}
	for _, m := range []string{body.Msg, body.Message, body.ErrorDescription, body.Error} {
		if m != "" {
			perr.Message = m
			break
		}
	}
	return perr
}
