// Package session holds per-browser-session state: who is signed in, which
// auth form is showing, which tasks are being edited and the pending flash
// message.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/models"
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

// Mode selects which auth form the page shows.
type Mode string

const (
	ModeLogin  Mode = "login"
	ModeSignUp Mode = "signup"
)

// ParseMode maps form input to a Mode, defaulting to ModeLogin.
func ParseMode(s string) Mode {
	if Mode(s) == ModeSignUp {
		return ModeSignUp
	}
	return ModeLogin
}

// FlashKind is the severity of a flash message.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
	FlashInfo    FlashKind = "info"
)

// Flash is a one-shot message shown on the next render.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// EditCursor tracks inline editing of one task.
type EditCursor struct {
	Editing bool   `json:"editing"`
	Draft   string `json:"draft"`
}

// Session is the state of one browser session.
type Session struct {
	ID          string                `json:"id"`
	Identity    *models.Identity      `json:"identity,omitempty"`
	AccessToken string                `json:"access_token,omitempty"`
	Mode        Mode                  `json:"mode"`
	Editing     map[int64]*EditCursor `json:"editing,omitempty"`
	Flash       *Flash                `json:"flash,omitempty"`
	LastSeen    time.Time             `json:"last_seen"`
}

// New returns an unauthenticated session with a fresh ID.
func New() *Session {
	return &Session{
		ID:       uuid.NewString(),
		Mode:     ModeLogin,
		Editing:  make(map[int64]*EditCursor),
		LastSeen: time.Now(),
	}
}

// Authenticated reports whether a user is signed in.
func (s *Session) Authenticated() bool {
	return s.Identity != nil && s.Identity.UserID != ""
}

// OwnerID returns the signed-in user's ID, or "" when signed out.
func (s *Session) OwnerID() string {
	if !s.Authenticated() {
		return ""
	}
	return s.Identity.UserID
}

// SignIn binds an identity and provider token to the session.
func (s *Session) SignIn(id models.Identity, accessToken string) {
	s.Identity = &id
	s.AccessToken = accessToken
	s.Editing = make(map[int64]*EditCursor)
}

// SignOut clears the identity and all per-task state.
func (s *Session) SignOut() {
	s.Identity = nil
	s.AccessToken = ""
	s.Editing = make(map[int64]*EditCursor)
	s.Mode = ModeLogin
}

// Cursor returns the edit cursor for taskID, creating it on first use.
func (s *Session) Cursor(taskID int64) *EditCursor {
	if s.Editing == nil {
		s.Editing = make(map[int64]*EditCursor)
	}
	c, ok := s.Editing[taskID]
	if !ok {
		c = &EditCursor{}
		s.Editing[taskID] = c
	}
	return c
}

// PeekCursor returns the cursor for taskID without creating one.
func (s *Session) PeekCursor(taskID int64) (*EditCursor, bool) {
	c, ok := s.Editing[taskID]
	return c, ok
}

// DropCursor forgets the cursor of a removed task.
func (s *Session) DropCursor(taskID int64) {
	delete(s.Editing, taskID)
}

// PruneCursors drops cursors of tasks that are no longer listed.
func (s *Session) PruneCursors(live []int64) {
	keep := make(map[int64]struct{}, len(live))
	for _, id := range live {
		keep[id] = struct{}{}
	}
	for id := range s.Editing {
		if _, ok := keep[id]; !ok {
			delete(s.Editing, id)
		}
	}
}

// SetFlash replaces the pending flash message.
func (s *Session) SetFlash(kind FlashKind, message string) {
	s.Flash = &Flash{Kind: kind, Message: message}
}

// TakeFlash returns the pending flash message and clears it.
func (s *Session) TakeFlash() *Flash {
	f := s.Flash
	s.Flash = nil
	return f
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	c := *s
	if s.Identity != nil {
		id := *s.Identity
		c.Identity = &id
	}
	if s.Flash != nil {
		f := *s.Flash
		c.Flash = &f
	}
	c.Editing = make(map[int64]*EditCursor, len(s.Editing))
	for k, v := range s.Editing {
		cur := *v
		c.Editing[k] = &cur
	}
	return &c
}
