// Package app runs the page's event-dispatch loop: each user interaction is
// one Event, handled by exactly one handler, followed by a list refresh and
// a fresh View.
package app

import (
	"fmt"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/session"
)

// EventKind names a user interaction.
type EventKind string

const (
	EventRefresh EventKind = "refresh"
	EventSetMode EventKind = "set_mode"
	EventSignUp  EventKind = "sign_up"
	EventSignIn  EventKind = "sign_in"
	EventSignOut EventKind = "sign_out"
	EventAdd     EventKind = "add"
	EventEdit    EventKind = "edit"
	EventSave    EventKind = "save"
	EventCancel  EventKind = "cancel"
	EventDelete  EventKind = "delete"
)

// Event is one interaction together with the form values it carries.
// Fields irrelevant to Kind are ignored.
type Event struct {
	Kind     EventKind
	Email    string
	Password string
	Mode     session.Mode
	TaskID   int64
	Text     string
}

func (e Event) String() string {
	if e.TaskID != 0 {
		return fmt.Sprintf("%s(%d)", e.Kind, e.TaskID)
	}
	return string(e.Kind)
}

// access says which session state an event kind is valid in.
type access int

const (
	anyone access = iota
	guestsOnly
	signedInOnly
)

func accessFor(kind EventKind) access {
	switch kind {
	case EventSignUp, EventSignIn:
		return guestsOnly
	case EventSignOut, EventAdd, EventEdit, EventSave, EventCancel, EventDelete:
		return signedInOnly
	default:
		return anyone
	}
}

// Outcomes recorded per interaction.
const (
	outcomeOK       = "ok"
	outcomeNoop     = "noop"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)
