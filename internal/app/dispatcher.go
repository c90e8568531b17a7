package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/auth"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/metrics"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/reqctx"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/session"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/tasks"
)

// User-facing messages.
const (
	msgTaskAdded       = "Task added!"
	msgEnterTask       = "Please enter a task"
	msgTaskUpdated     = "Task updated!"
	msgTaskDeleted     = "Task deleted."
	msgTaskGone        = "That task no longer exists."
	msgStoreDown       = "Could not reach the task store. Please try again."
	msgSignInFirst     = "Please log in to manage your tasks."
	msgAlreadySignedIn = "You are already logged in."
	msgAlreadyExists   = "This email is already registered. Please log in instead."
	msgConfirmEmail    = "Account created! Check your email to confirm it, then log in."
	msgSignedUp        = "Account created! You are now logged in."
	msgSignedOut       = "You have been logged out."
	msgUnknownAction   = "Unknown action."
)

type handlerFunc func(ctx context.Context, s *session.Session, ev Event) string

// Dispatcher maps each event kind to its handler.
type Dispatcher struct {
	repo     *tasks.Repository
	gateway  *auth.Gateway
	metrics  *metrics.Metrics
	logger   *slog.Logger
	handlers map[EventKind]handlerFunc
}

// NewDispatcher creates a dispatcher. metrics may be nil; a nil logger
// falls back to slog.Default().
func NewDispatcher(repo *tasks.Repository, gateway *auth.Gateway, m *metrics.Metrics, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{repo: repo, gateway: gateway, metrics: m, logger: logger}
	d.handlers = map[EventKind]handlerFunc{
		EventRefresh: d.refresh,
		EventSetMode: d.setMode,
		EventSignUp:  d.signUp,
		EventSignIn:  d.signIn,
		EventSignOut: d.signOut,
		EventAdd:     d.add,
		EventEdit:    d.edit,
		EventSave:    d.save,
		EventCancel:  d.cancel,
		EventDelete:  d.delete,
	}
	return d
}

// Dispatch applies ev to s and returns the view to render. It never fails:
// every error ends up as a flash on the returned view.
func (d *Dispatcher) Dispatch(ctx context.Context, s *session.Session, ev Event) *View {
	outcome := d.apply(ctx, s, ev)
	d.metrics.ObserveInteraction(string(ev.Kind), outcome)
	d.logger.Debug("Event dispatched", "session_id", s.ID, "event", ev.String(), "outcome", outcome, "user_id", s.OwnerID())
	return d.render(ctx, s)
}

func (d *Dispatcher) apply(ctx context.Context, s *session.Session, ev Event) string {
	h, ok := d.handlers[ev.Kind]
	if !ok {
		s.SetFlash(session.FlashError, msgUnknownAction)
		return outcomeRejected
	}

	switch accessFor(ev.Kind) {
	case signedInOnly:
		if !s.Authenticated() {
			s.SetFlash(session.FlashError, msgSignInFirst)
			return outcomeRejected
		}
	case guestsOnly:
		if s.Authenticated() {
			s.SetFlash(session.FlashInfo, msgAlreadySignedIn)
			return outcomeRejected
		}
	}
	return h(ctx, s, ev)
}

// render refreshes the list for signed-in sessions and drops edit cursors
// of tasks that are no longer listed.
func (d *Dispatcher) render(ctx context.Context, s *session.Session) *View {
	v := &View{Mode: s.Mode}
	if !s.Authenticated() {
		v.Flash = s.TakeFlash()
		return v
	}

	v.Authenticated = true
	v.Email = s.Identity.Email

	list, err := d.repo.List(d.storeContext(ctx, s), s.OwnerID())
	if err != nil {
		d.logger.Error("Failed to list tasks", "user_id", s.OwnerID(), "error", err)
		s.SetFlash(session.FlashError, msgStoreDown)
		v.Flash = s.TakeFlash()
		return v
	}

	live := make([]int64, 0, len(list))
	v.Tasks = make([]TaskRow, 0, len(list))
	for i, task := range list {
		live = append(live, task.ID)
		row := TaskRow{Number: i + 1, ID: task.ID, Text: task.Text}
		if c, ok := s.PeekCursor(task.ID); ok && c.Editing {
			row.Editing = true
			row.Draft = c.Draft
			if row.Draft == "" {
				row.Draft = task.Text
			}
		}
		v.Tasks = append(v.Tasks, row)
	}
	s.PruneCursors(live)

	v.Flash = s.TakeFlash()
	return v
}

// storeContext carries the caller's identity and provider token to the
// store, which forwards the token when it talks to a remote backend.
func (d *Dispatcher) storeContext(ctx context.Context, s *session.Session) context.Context {
	ctx = reqctx.WithIdentity(ctx, *s.Identity)
	return reqctx.WithAccessToken(ctx, s.AccessToken)
}

func (d *Dispatcher) refresh(context.Context, *session.Session, Event) string {
	return outcomeOK
}

func (d *Dispatcher) setMode(_ context.Context, s *session.Session, ev Event) string {
	s.Mode = ev.Mode
	return outcomeOK
}

func (d *Dispatcher) signUp(ctx context.Context, s *session.Session, ev Event) string {
	res, err := d.gateway.SignUp(ctx, ev.Email, ev.Password)
	if err != nil {
		s.SetFlash(session.FlashError, auth.Message(err))
		return authOutcome(err)
	}

	switch {
	case res.Status == auth.SignUpAlreadyRegistered:
		s.Mode = session.ModeLogin
		s.SetFlash(session.FlashInfo, msgAlreadyExists)
		return outcomeRejected
	case res.Grant != nil:
		s.SignIn(res.Grant.Identity, res.Grant.AccessToken)
		s.SetFlash(session.FlashSuccess, msgSignedUp)
	default:
		s.Mode = session.ModeLogin
		s.SetFlash(session.FlashSuccess, msgConfirmEmail)
	}
	return outcomeOK
}

func (d *Dispatcher) signIn(ctx context.Context, s *session.Session, ev Event) string {
	grant, err := d.gateway.SignIn(ctx, ev.Email, ev.Password)
	if err != nil {
		s.SetFlash(session.FlashError, auth.Message(err))
		return authOutcome(err)
	}

	s.SignIn(grant.Identity, grant.AccessToken)
	s.SetFlash(session.FlashSuccess, fmt.Sprintf("Logged in as %s", grant.Identity.Email))
	return outcomeOK
}

// signOut always clears the session; the provider call is best-effort.
func (d *Dispatcher) signOut(ctx context.Context, s *session.Session, _ Event) string {
	d.gateway.SignOut(ctx, s.AccessToken)
	s.SignOut()
	s.SetFlash(session.FlashInfo, msgSignedOut)
	return outcomeOK
}

func (d *Dispatcher) add(ctx context.Context, s *session.Session, ev Event) string {
	if _, err := d.repo.Create(d.storeContext(ctx, s), s.OwnerID(), ev.Text); err != nil {
		return d.taskFailure(s, "create", err)
	}
	s.SetFlash(session.FlashSuccess, msgTaskAdded)
	return outcomeOK
}

func (d *Dispatcher) edit(_ context.Context, s *session.Session, ev Event) string {
	c := s.Cursor(ev.TaskID)
	c.Editing = true
	c.Draft = ev.Text
	return outcomeOK
}

func (d *Dispatcher) save(ctx context.Context, s *session.Session, ev Event) string {
	err := d.repo.Update(d.storeContext(ctx, s), s.OwnerID(), ev.TaskID, ev.Text)
	switch {
	case err == nil:
		s.DropCursor(ev.TaskID)
		s.SetFlash(session.FlashSuccess, msgTaskUpdated)
		return outcomeOK
	case errors.Is(err, tasks.ErrNotFound):
		s.DropCursor(ev.TaskID)
	default:
		// Keep the editor open with what the user typed.
		c := s.Cursor(ev.TaskID)
		c.Editing = true
		c.Draft = ev.Text
	}
	return d.taskFailure(s, "update", err)
}

func (d *Dispatcher) cancel(_ context.Context, s *session.Session, ev Event) string {
	s.DropCursor(ev.TaskID)
	return outcomeOK
}

func (d *Dispatcher) delete(ctx context.Context, s *session.Session, ev Event) string {
	removed, err := d.repo.Delete(d.storeContext(ctx, s), s.OwnerID(), ev.TaskID)
	if err != nil {
		return d.taskFailure(s, "delete", err)
	}
	s.DropCursor(ev.TaskID)
	if !removed {
		s.SetFlash(session.FlashInfo, msgTaskGone)
		return outcomeNoop
	}
	s.SetFlash(session.FlashSuccess, msgTaskDeleted)
	return outcomeOK
}

// taskFailure turns a repository error into a flash and an outcome.
func (d *Dispatcher) taskFailure(s *session.Session, op string, err error) string {
	switch {
	case errors.Is(err, tasks.ErrValidation):
		s.SetFlash(session.FlashError, msgEnterTask)
		return outcomeRejected
	case errors.Is(err, tasks.ErrNotFound):
		d.logger.Warn("Task not owned or missing", "op", op, "user_id", s.OwnerID(), "error", err)
		s.SetFlash(session.FlashError, msgTaskGone)
		return outcomeRejected
	case errors.Is(err, tasks.ErrUnauthenticated):
		s.SetFlash(session.FlashError, msgSignInFirst)
		return outcomeRejected
	default:
		d.logger.Error("Task store call failed", "op", op, "user_id", s.OwnerID(), "error", err)
		s.SetFlash(session.FlashError, msgStoreDown)
		return outcomeError
	}
}

func authOutcome(err error) string {
	if auth.IsAuthError(err) {
		return outcomeRejected
	}
	return outcomeError
}
