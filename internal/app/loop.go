package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/session"
)

// Loop loads a session, dispatches one event against it and saves it back.
// Interactions of the same session run one at a time; different sessions
// run concurrently.
type Loop struct {
	dispatcher *Dispatcher
	sessions   session.Registry

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewLoop creates a loop over the given registry.
func NewLoop(d *Dispatcher, sessions session.Registry) *Loop {
	return &Loop{
		dispatcher: d,
		sessions:   sessions,
		locks:      make(map[string]*sessionLock),
	}
}

// Run dispatches ev for the session with sessionID. An empty, unknown or
// expired ID starts a fresh session. It returns the view and the ID of the
// session that was used, which the caller must hand back next time.
func (l *Loop) Run(ctx context.Context, sessionID string, ev Event) (*View, string, error) {
	if sessionID != "" {
		unlock := l.lock(sessionID)
		defer unlock()
	}

	s, err := l.load(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}

	view := l.dispatcher.Dispatch(ctx, s, ev)

	if err := l.sessions.Save(ctx, s); err != nil {
		return nil, "", fmt.Errorf("failed to save session: %w", err)
	}
	return view, s.ID, nil
}

// End forgets a session entirely.
func (l *Loop) End(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	unlock := l.lock(sessionID)
	defer unlock()
	return l.sessions.Delete(ctx, sessionID)
}

func (l *Loop) load(ctx context.Context, sessionID string) (*session.Session, error) {
	if sessionID != "" {
		s, err := l.sessions.Get(ctx, sessionID)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, session.ErrNotFound) {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
	}

	s, err := l.sessions.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return s, nil
}

// lock acquires the per-session mutex and returns its release function.
// Entries are removed once nobody holds or waits for them.
func (l *Loop) lock(id string) func() {
	l.mu.Lock()
	sl, ok := l.locks[id]
	if !ok {
		sl = &sessionLock{}
		l.locks[id] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.mu.Lock()
	return func() {
		sl.mu.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
