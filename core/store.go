package core

import "context"

// Filter narrows session queries. Zero-valued fields are ignored; set fields
// combine with AND semantics. Mode intersects with the store's own mode, so a
// filter naming a foreign mode matches nothing.
type Filter struct {
	UserID   string
	EntityID string
	Mode     Mode
}

// Matches reports whether the session satisfies every set field of the filter.
func (f Filter) Matches(s *Session) bool {
	if f.UserID != "" && s.UserID != f.UserID {
		return false
	}
	if f.EntityID != "" && s.EntityID != f.EntityID {
		return false
	}
	if f.Mode != "" && s.Mode != f.Mode {
		return false
	}
	return true
}

// SessionStore is the mode-scoped session service consumed by agents, teams
// and workflows. Implementations must be safe for concurrent use. Lookups
// signal absence with ErrNotFound; deletes and drops are idempotent.
type SessionStore interface {
	// Upsert inserts or overwrites the session, generating an id when empty,
	// preserving Created on overwrite and refreshing Updated. It returns the
	// stored post-write state.
	Upsert(ctx context.Context, s *Session) (*Session, error)
	// Create is the strict variant of Upsert: it fails with ErrAlreadyExists
	// when the id is already present.
	Create(ctx context.Context, s *Session) (*Session, error)
	// UpsertBatch applies Upsert to every session as one unit; no partial state
	// is visible to other readers mid-batch.
	UpsertBatch(ctx context.Context, sessions []*Session) ([]*Session, error)
	// Read returns the session for the id or ErrNotFound.
	Read(ctx context.Context, sessionID string) (*Session, error)
	// GetAllSessions returns the sessions of the store's mode matching the
	// filter, ordered by Created ascending then ID ascending.
	GetAllSessions(ctx context.Context, f Filter) ([]*Session, error)
	// GetAllSessionIDs returns only the ids, same scope and order as
	// GetAllSessions.
	GetAllSessionIDs(ctx context.Context, f Filter) ([]string, error)
	// GetRecentSessions returns up to limit sessions ordered by Updated
	// descending, ties broken by ID ascending. limit <= 0 yields an empty
	// slice.
	GetRecentSessions(ctx context.Context, limit int, f Filter) ([]*Session, error)
	// DeleteSession removes the entry if present; absent ids are a no-op.
	DeleteSession(ctx context.Context, sessionID string) error
	// Drop removes every entry belonging to the store's mode, leaving entries
	// of other modes in a shared backing map intact.
	Drop(ctx context.Context) error
}

// Map is the minimal associative storage capability a session store needs:
// read, write, delete and iterate. The default is an in-process map, but any
// externally backed implementation (distributed cache, database table)
// satisfying the same contract can be injected at construction time.
//
// Implementations must be safe for concurrent use; a single Map may back
// several mode-scoped stores at once. Range must iterate over a consistent
// snapshot and stop early when fn returns false.
type Map interface {
	Get(ctx context.Context, sessionID string) (*Session, bool, error)
	Set(ctx context.Context, s *Session) error
	Delete(ctx context.Context, sessionID string) error
	Range(ctx context.Context, fn func(*Session) bool) error
	Len(ctx context.Context) (int, error)
}
