package session

import (
	"sync"

	"github.com/google/uuid"
)

// Registry tracks per-session transient state: which usernames had their
// mode forced for the current session, and one-shot callbacks waiting for
// post-login. Entries are removed on disconnect and on callback retrieval
// so the maps never grow unbounded.
type Registry struct {
	mu sync.Mutex

	forcedMode map[string]struct{}       // keyed by username
	pending    map[uuid.UUID]func()      // keyed by stable session identifier
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		forcedMode: make(map[string]struct{}),
		pending:    make(map[uuid.UUID]func()),
	}
}

// MarkForced records that the username's current session had its mode forced
func (r *Registry) MarkForced(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forcedMode[username] = struct{}{}
}

// WasForced reports whether the username's session had its mode forced
func (r *Registry) WasForced(username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.forcedMode[username]
	return ok
}

// ClearForced removes the forced-mode memo; absent entries are a no-op
func (r *Registry) ClearForced(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.forcedMode, username)
}

// RegisterPendingCallback stores the one-shot callback for a session,
// replacing any previous one
func (r *Registry) RegisterPendingCallback(id uuid.UUID, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[id] = fn
}

// TakePendingCallback removes and returns the callback for a session.
// Removal happens at retrieval, not after execution, so a duplicate
// post-login signal cannot double-schedule it.
func (r *Registry) TakePendingCallback(id uuid.UUID) (func(), bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn, ok := r.pending[id]
	if ok {
		delete(r.pending, id)
	}
	return fn, ok
}
