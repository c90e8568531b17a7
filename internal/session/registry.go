package session

import (
	"context"
	"sync"
	"time"
)

// Registry stores sessions by ID.
type Registry interface {
	// Create stores and returns a fresh unauthenticated session.
	Create(ctx context.Context) (*Session, error)
	// Get returns a copy of the session, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)
	// Save persists s and refreshes its idle timeout.
	Save(ctx context.Context, s *Session) error
	// Delete forgets the session. Unknown IDs are not an error.
	Delete(ctx context.Context, id string) error
}

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 12 * time.Hour

// MemoryRegistry keeps sessions in process memory.
type MemoryRegistry struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*Session
}

var _ Registry = (*MemoryRegistry)(nil)

// NewMemoryRegistry creates a registry expiring sessions idle for ttl.
// A zero ttl uses DefaultTTL.
func NewMemoryRegistry(ttl time.Duration) *MemoryRegistry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryRegistry{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

func (r *MemoryRegistry) Create(ctx context.Context) (*Session, error) {
	s := New()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	s.LastSeen = r.now()
	r.sessions[s.ID] = s.Clone()
	return s, nil
}

func (r *MemoryRegistry) Get(ctx context.Context, id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if r.expired(s) {
		delete(r.sessions, id)
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

func (r *MemoryRegistry) Save(ctx context.Context, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.LastSeen = r.now()
	r.sessions[s.ID] = s.Clone()
	return nil
}

func (r *MemoryRegistry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// Len reports the number of stored sessions, expired ones included.
func (r *MemoryRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *MemoryRegistry) expired(s *Session) bool {
	return r.now().Sub(s.LastSeen) > r.ttl
}

func (r *MemoryRegistry) sweepLocked() {
	for id, s := range r.sessions {
		if r.expired(s) {
			delete(r.sessions, id)
		}
	}
}
