package kvmap

import (
	"context"
	"sync"

	"github.com/hupe1980/agentsession/core"
)

// InMemory is a volatile core.Map storing sessions in a process local map
// guarded by an RWMutex. Sessions are cloned on write and on read so callers
// never alias internal state. Lifetime is bounded by the process; there is no
// eviction or expiry.
//
// One InMemory instance may back several mode-scoped stores at once: the mutex
// lives with the map, so sharing the map shares the lock.
type InMemory struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
}

// NewInMemory constructs an empty in-memory backing map.
func NewInMemory() *InMemory {
	return &InMemory{sessions: make(map[string]*core.Session)}
}

// Get returns a clone of the stored session and whether it exists.
func (m *InMemory) Get(_ context.Context, sessionID string) (*core.Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, false, nil
	}
	return s.Clone(), true, nil
}

// Set stores a clone of the provided session snapshot.
func (m *InMemory) Set(_ context.Context, s *core.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s.Clone()
	return nil
}

// Delete removes the entry if present; absent ids are a no-op.
func (m *InMemory) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// Range iterates over a snapshot of the map, stopping early when fn returns
// false. The snapshot is taken under the read lock so writes never interleave
// with a scan.
func (m *InMemory) Range(_ context.Context, fn func(*core.Session) bool) error {
	m.mu.RLock()
	snapshot := make([]*core.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		snapshot = append(snapshot, s.Clone())
	}
	m.mu.RUnlock()

	for _, s := range snapshot {
		if !fn(s) {
			return nil
		}
	}
	return nil
}

// Len returns the number of entries across all modes.
func (m *InMemory) Len(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions), nil
}
