package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/auth"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/metrics"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/models"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/session"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/storage/sqlstore"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/tasks"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/testutil"
)

type fixture struct {
	d     *Dispatcher
	store *testutil.FakeTaskStore
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupDispatcher wires a dispatcher to a fake task store and real password
// accounts in a temporary SQLite database.
func setupDispatcher(t *testing.T) *fixture {
	t.Helper()

	users, err := sqlstore.NewSQLite(filepath.Join(t.TempDir(), "users.db"))
	if err != nil {
		t.Fatalf("Failed to create user store: %v", err)
	}
	t.Cleanup(func() { users.Close() })

	provider := auth.NewPasswordProvider(users, auth.NewJWTManager("test-secret", time.Hour))
	store := testutil.NewFakeTaskStore()
	d := NewDispatcher(
		tasks.NewRepository(metrics.InstrumentTaskStore(store, metrics.New())),
		auth.NewGateway(provider, quietLogger()),
		metrics.New(),
		quietLogger(),
	)
	return &fixture{d: d, store: store}
}

// signedIn registers email and returns a session logged in as it.
func (f *fixture) signedIn(t *testing.T, email string) *session.Session {
	t.Helper()
	s := session.New()
	v := f.d.Dispatch(context.Background(), s, Event{Kind: EventSignUp, Email: email, Password: "correct-horse"})
	if !v.Authenticated {
		t.Fatalf("Sign-up did not authenticate: %+v", v.Flash)
	}
	return s
}

func wantFlash(t *testing.T, v *View, kind session.FlashKind, msg string) {
	t.Helper()
	if v.Flash == nil {
		t.Fatalf("Expected flash %q, got none", msg)
	}
	if v.Flash.Kind != kind || v.Flash.Message != msg {
		t.Errorf("Flash = %+v, want %s %q", v.Flash, kind, msg)
	}
}

func TestAddAndList(t *testing.T) {
	f := setupDispatcher(t)
	s := f.signedIn(t, "alice@example.com")
	ctx := context.Background()

	v := f.d.Dispatch(ctx, s, Event{Kind: EventRefresh})
	if !v.Empty() {
		t.Fatalf("Expected empty list, got %+v", v.Tasks)
	}

	v = f.d.Dispatch(ctx, s, Event{Kind: EventAdd, Text: "buy milk"})
	wantFlash(t, v, session.FlashSuccess, msgTaskAdded)
	v = f.d.Dispatch(ctx, s, Event{Kind: EventAdd, Text: "walk dog"})

	if len(v.Tasks) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(v.Tasks))
	}
	for i, want := range []string{"buy milk", "walk dog"} {
		if v.Tasks[i].Number != i+1 || v.Tasks[i].Text != want {
			t.Errorf("Row %d = %+v", i, v.Tasks[i])
		}
	}
	if v.Email != "alice@example.com" {
		t.Errorf("Email = %q", v.Email)
	}
}

func TestAddEmptyTextIsRejected(t *testing.T) {
	f := setupDispatcher(t)
	s := f.signedIn(t, "alice@example.com")

	v := f.d.Dispatch(context.Background(), s, Event{Kind: EventAdd, Text: "   "})
	wantFlash(t, v, session.FlashError, msgEnterTask)
	if f.store.Calls["InsertTask"] != 0 {
		t.Error("Store must not be called for empty text")
	}
}

func TestSignInWithWrongPasswordLeavesIdentityUnset(t *testing.T) {
	f := setupDispatcher(t)
	ctx := context.Background()

	s := f.signedIn(t, "alice@example.com")
	f.d.Dispatch(ctx, s, Event{Kind: EventSignOut})

	fresh := session.New()
	v := f.d.Dispatch(ctx, fresh, Event{Kind: EventSignIn, Email: "alice@example.com", Password: "wrong-password"})

	if v.Authenticated || fresh.Authenticated() {
		t.Fatal("Wrong password must not authenticate")
	}
	if v.Flash == nil || v.Flash.Kind != session.FlashError {
		t.Errorf("Expected error flash, got %+v", v.Flash)
	}

	v = f.d.Dispatch(ctx, fresh, Event{Kind: EventSignIn, Email: "alice@example.com", Password: "correct-horse"})
	if !v.Authenticated {
		t.Fatalf("Correct password rejected: %+v", v.Flash)
	}
	wantFlash(t, v, session.FlashSuccess, "Logged in as alice@example.com")
}

func TestDuplicateSignUpIsReportedAsAlreadyRegistered(t *testing.T) {
	f := setupDispatcher(t)
	f.signedIn(t, "alice@example.com")

	s := session.New()
	s.Mode = session.ModeSignUp
	v := f.d.Dispatch(context.Background(), s, Event{Kind: EventSignUp, Email: "alice@example.com", Password: "correct-horse"})

	wantFlash(t, v, session.FlashInfo, msgAlreadyExists)
	if v.Authenticated {
		t.Error("Duplicate sign-up must not authenticate")
	}
	if v.Mode != session.ModeLogin {
		t.Errorf("Mode = %q, want login", v.Mode)
	}
}

func TestTaskEventsRequireSignIn(t *testing.T) {
	f := setupDispatcher(t)
	s := session.New()

	for _, kind := range []EventKind{EventAdd, EventEdit, EventSave, EventDelete, EventSignOut} {
		v := f.d.Dispatch(context.Background(), s, Event{Kind: kind, TaskID: 1, Text: "x"})
		wantFlash(t, v, session.FlashError, msgSignInFirst)
	}
	if len(f.store.Calls) != 0 {
		t.Errorf("Store was called while unauthenticated: %v", f.store.Calls)
	}
}

func TestEditSaveCancel(t *testing.T) {
	f := setupDispatcher(t)
	s := f.signedIn(t, "alice@example.com")
	ctx := context.Background()

	id := f.store.Seed(s.OwnerID(), "buy milk")

	v := f.d.Dispatch(ctx, s, Event{Kind: EventEdit, TaskID: id})
	if !v.Tasks[0].Editing || v.Tasks[0].Draft != "buy milk" {
		t.Fatalf("Edit row = %+v", v.Tasks[0])
	}

	v = f.d.Dispatch(ctx, s, Event{Kind: EventCancel, TaskID: id})
	if v.Tasks[0].Editing {
		t.Error("Cancel must close the editor")
	}

	f.d.Dispatch(ctx, s, Event{Kind: EventEdit, TaskID: id})
	v = f.d.Dispatch(ctx, s, Event{Kind: EventSave, TaskID: id, Text: "buy oat milk"})
	wantFlash(t, v, session.FlashSuccess, msgTaskUpdated)
	if v.Tasks[0].Text != "buy oat milk" || v.Tasks[0].Editing {
		t.Errorf("Saved row = %+v", v.Tasks[0])
	}
	if _, ok := s.PeekCursor(id); ok {
		t.Error("Cursor must be dropped after save")
	}
}

func TestSaveEmptyKeepsEditorOpen(t *testing.T) {
	f := setupDispatcher(t)
	s := f.signedIn(t, "alice@example.com")
	id := f.store.Seed(s.OwnerID(), "buy milk")

	f.d.Dispatch(context.Background(), s, Event{Kind: EventEdit, TaskID: id})
	v := f.d.Dispatch(context.Background(), s, Event{Kind: EventSave, TaskID: id, Text: ""})

	wantFlash(t, v, session.FlashError, msgEnterTask)
	if !v.Tasks[0].Editing {
		t.Error("Editor must stay open after a rejected save")
	}
	if task, _ := f.store.Get(id); task.Text != "buy milk" {
		t.Errorf("Task changed to %q", task.Text)
	}
}

func TestForeignTasksAreNeitherShownNorModified(t *testing.T) {
	f := setupDispatcher(t)
	ctx := context.Background()
	alice := f.signedIn(t, "alice@example.com")
	bob := f.signedIn(t, "bob@example.com")

	aliceTask := f.store.Seed(alice.OwnerID(), "alice's task")

	v := f.d.Dispatch(ctx, bob, Event{Kind: EventRefresh})
	if len(v.Tasks) != 0 {
		t.Fatalf("Bob sees %+v", v.Tasks)
	}

	v = f.d.Dispatch(ctx, bob, Event{Kind: EventSave, TaskID: aliceTask, Text: "hijacked"})
	wantFlash(t, v, session.FlashError, msgTaskGone)

	v = f.d.Dispatch(ctx, bob, Event{Kind: EventDelete, TaskID: aliceTask})
	wantFlash(t, v, session.FlashInfo, msgTaskGone)

	task, ok := f.store.Get(aliceTask)
	if !ok || task.Text != "alice's task" {
		t.Errorf("Alice's task = %+v, present %v", task, ok)
	}
}

func TestDeleteDropsCursor(t *testing.T) {
	f := setupDispatcher(t)
	s := f.signedIn(t, "alice@example.com")
	ctx := context.Background()

	keep := f.store.Seed(s.OwnerID(), "keep")
	gone := f.store.Seed(s.OwnerID(), "gone")
	f.d.Dispatch(ctx, s, Event{Kind: EventEdit, TaskID: gone})

	v := f.d.Dispatch(ctx, s, Event{Kind: EventDelete, TaskID: gone})
	wantFlash(t, v, session.FlashSuccess, msgTaskDeleted)
	if len(v.Tasks) != 1 || v.Tasks[0].ID != keep || v.Tasks[0].Number != 1 {
		t.Errorf("Remaining rows = %+v", v.Tasks)
	}
	if _, ok := s.PeekCursor(gone); ok {
		t.Error("Cursor of deleted task survived")
	}
}

func TestCursorOfVanishedTaskIsPruned(t *testing.T) {
	f := setupDispatcher(t)
	s := f.signedIn(t, "alice@example.com")
	ctx := context.Background()

	id := f.store.Seed(s.OwnerID(), "elsewhere")
	f.d.Dispatch(ctx, s, Event{Kind: EventEdit, TaskID: id})

	// Removed by another session of the same user.
	if _, err := f.store.DeleteTask(ctx, s.OwnerID(), id); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}

	f.d.Dispatch(ctx, s, Event{Kind: EventRefresh})
	if len(s.Editing) != 0 {
		t.Errorf("Expected no cursors, have %v", s.Editing)
	}
}

func TestStoreUnavailableIsSurfaced(t *testing.T) {
	f := setupDispatcher(t)
	s := f.signedIn(t, "alice@example.com")
	ctx := context.Background()

	f.store.InsertErr = errStore
	v := f.d.Dispatch(ctx, s, Event{Kind: EventAdd, Text: "buy milk"})
	wantFlash(t, v, session.FlashError, msgStoreDown)

	f.store.SelectErr = errStore
	v = f.d.Dispatch(ctx, s, Event{Kind: EventRefresh})
	wantFlash(t, v, session.FlashError, msgStoreDown)
	if !v.Authenticated {
		t.Error("Store failure must not sign the user out")
	}
}

func TestSignOutClearsSession(t *testing.T) {
	f := setupDispatcher(t)
	s := f.signedIn(t, "alice@example.com")
	id := f.store.Seed(s.OwnerID(), "x")
	f.d.Dispatch(context.Background(), s, Event{Kind: EventEdit, TaskID: id})

	v := f.d.Dispatch(context.Background(), s, Event{Kind: EventSignOut})
	wantFlash(t, v, session.FlashInfo, msgSignedOut)
	if v.Authenticated || s.Authenticated() || s.AccessToken != "" || len(s.Editing) != 0 {
		t.Errorf("Session not cleared: %+v", s)
	}
	if len(v.Tasks) != 0 {
		t.Error("Signed-out view must not list tasks")
	}
}

func TestSetModeAndUnknownEvent(t *testing.T) {
	f := setupDispatcher(t)
	s := session.New()

	v := f.d.Dispatch(context.Background(), s, Event{Kind: EventSetMode, Mode: session.ModeSignUp})
	if v.Mode != session.ModeSignUp {
		t.Errorf("Mode = %q", v.Mode)
	}

	v = f.d.Dispatch(context.Background(), s, Event{Kind: "launch"})
	wantFlash(t, v, session.FlashError, msgUnknownAction)
}

// confirmingProvider registers accounts without signing them in, like a
// hosted provider with email confirmation enabled.
type confirmingProvider struct{}

func (confirmingProvider) SignUp(ctx context.Context, email, password string) (auth.SignUpResult, error) {
	return auth.SignUpResult{Status: auth.SignUpCreated, Identity: models.Identity{UserID: "u1", Email: email}}, nil
}

func (confirmingProvider) SignIn(ctx context.Context, email, password string) (*auth.Grant, error) {
	return nil, auth.ErrInvalidCredentials
}

func (confirmingProvider) SignOut(ctx context.Context, accessToken string) error { return nil }

func (confirmingProvider) Verify(ctx context.Context, accessToken string) (*models.Identity, error) {
	return nil, auth.ErrInvalidToken
}

func TestSignUpAwaitingConfirmation(t *testing.T) {
	d := NewDispatcher(
		tasks.NewRepository(testutil.NewFakeTaskStore()),
		auth.NewGateway(confirmingProvider{}, quietLogger()),
		nil,
		quietLogger(),
	)
	s := session.New()
	s.Mode = session.ModeSignUp

	v := d.Dispatch(context.Background(), s, Event{Kind: EventSignUp, Email: "new@example.com", Password: "correct-horse"})
	wantFlash(t, v, session.FlashSuccess, msgConfirmEmail)
	if v.Authenticated {
		t.Error("Unconfirmed account must not be signed in")
	}
	if v.Mode != session.ModeLogin {
		t.Errorf("Mode = %q, want login", v.Mode)
	}
}
