package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/models"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/storage"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/storage/sqlstore"
)

func setupPasswordProvider(t *testing.T) (*PasswordProvider, *sqlstore.Store) {
	t.Helper()

	store, err := sqlstore.NewSQLite(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewPasswordProvider(store, NewJWTManager("test-secret", time.Hour)), store
}

func TestPasswordProviderSignUp(t *testing.T) {
	p, _ := setupPasswordProvider(t)
	ctx := context.Background()

	res, err := p.SignUp(ctx, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if res.Status != SignUpCreated {
		t.Errorf("Status = %v, want created", res.Status)
	}
	if res.Identity.UserID == "" || res.Grant == nil || res.Grant.AccessToken == "" {
		t.Fatalf("Expected identity and grant, got %+v", res)
	}

	again, err := p.SignUp(ctx, "alice@example.com", "another-password")
	if err != nil {
		t.Fatalf("Duplicate SignUp failed: %v", err)
	}
	if again.Status != SignUpAlreadyRegistered {
		t.Errorf("Status = %v, want already_registered", again.Status)
	}
	if again.Grant != nil {
		t.Error("Duplicate sign-up must not issue a grant")
	}

	if _, err := p.SignUp(ctx, "bob@example.com", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("Expected ErrWeakPassword, got %v", err)
	}
}

func TestPasswordProviderSignIn(t *testing.T) {
	p, _ := setupPasswordProvider(t)
	ctx := context.Background()

	if _, err := p.SignUp(ctx, "alice@example.com", "correct-horse"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	grant, err := p.SignIn(ctx, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	id, err := p.Verify(ctx, grant.AccessToken)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if id.UserID != grant.Identity.UserID || id.Email != "alice@example.com" {
		t.Errorf("Verify() = %+v, want %+v", id, grant.Identity)
	}

	if _, err := p.SignIn(ctx, "alice@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Wrong password: got %v", err)
	}
	if _, err := p.SignIn(ctx, "nobody@example.com", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Unknown email: got %v", err)
	}
}

func TestPasswordProviderVerifyUnknownUser(t *testing.T) {
	p, _ := setupPasswordProvider(t)

	token, _, err := p.tokens.Generate(identityFor("ghost"))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := p.Verify(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for deleted account, got %v", err)
	}
}

// lateUserStore hides existing accounts from the email lookup, the way a
// concurrent sign-up sees the table before the other insert commits.
type lateUserStore struct {
	storage.UserStore
	hidden bool
}

func (s *lateUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.hidden {
		s.hidden = false
		return nil, nil
	}
	return s.UserStore.GetUserByEmail(ctx, email)
}

func TestPasswordProviderSignUpLosesInsertRace(t *testing.T) {
	p, store := setupPasswordProvider(t)
	ctx := context.Background()

	first, err := p.SignUp(ctx, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	late := NewPasswordProvider(&lateUserStore{UserStore: store, hidden: true}, p.tokens)
	res, err := late.SignUp(ctx, "alice@example.com", "another-password")
	if err != nil {
		t.Fatalf("Racing SignUp failed: %v", err)
	}
	if res.Status != SignUpAlreadyRegistered {
		t.Errorf("Status = %v, want already_registered", res.Status)
	}
	if res.Grant != nil {
		t.Error("Racing sign-up must not issue a grant")
	}
	if res.Identity.UserID != first.Identity.UserID {
		t.Errorf("Identity = %+v, want existing account %+v", res.Identity, first.Identity)
	}

	racing := NewPasswordProvider(&lateUserStore{UserStore: store, hidden: true}, p.tokens)
	gres, err := NewGateway(racing, nil).SignUp(ctx, "alice@example.com", "another-password")
	if err != nil || gres.Status != SignUpAlreadyRegistered {
		t.Errorf("Gateway SignUp = %+v, %v; want already_registered", gres, err)
	}
}
