package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hupe1980/agentsession/core"
	"github.com/hupe1980/agentsession/kvmap"
	"github.com/hupe1980/agentsession/logging"
)

// Options configures a Store.
type Options struct {
	// Mode the store serves. Fixed for the lifetime of the store.
	Mode core.Mode
	// Map is the backing storage. Defaults to a freshly allocated in-memory
	// map; pass a shared instance to let several mode-scoped stores (or an
	// external persistence collaborator) operate on the same data.
	Map core.Map
	// Logger receives structured diagnostics. Defaults to NoOp.
	Logger logging.Logger
	// IDFunc generates session ids when a session arrives without one.
	IDFunc func() string
}

// Store is a mode-scoped session store over an injected core.Map. All
// operations are safe for concurrent use: a single RWMutex serializes the
// store's compound operations (read-modify-write upserts, scans, drops), and
// backing maps are themselves concurrency-safe, so a map shared across stores
// of different modes stays race-free. Entries of different modes never share a
// session id, so cross-instance writes never collide.
type Store struct {
	mode   core.Mode
	m      core.Map
	logger logging.Logger
	idFunc func() string
	now    func() time.Time
	mu     sync.RWMutex
}

// New constructs a Store. Unset options fall back to mode "agent", an
// in-memory backing map, a NoOp logger and UUID id generation. An unrecognized
// mode is rejected with core.ErrInvalidMode.
func New(optFns ...func(o *Options)) (*Store, error) {
	opts := Options{
		Mode:   core.ModeAgent,
		Logger: logging.NoOpLogger{},
		IDFunc: core.NewID,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if !opts.Mode.Valid() {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidMode, opts.Mode)
	}

	if opts.Map == nil {
		opts.Map = kvmap.NewInMemory()
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	if opts.IDFunc == nil {
		opts.IDFunc = core.NewID
	}

	return &Store{
		mode:   opts.Mode,
		m:      opts.Map,
		logger: opts.Logger,
		idFunc: opts.IDFunc,
		now:    time.Now,
	}, nil
}

// Mode returns the mode this store serves.
func (s *Store) Mode() core.Mode { return s.mode }

// Upsert inserts or overwrites the session. An empty id is generated, the
// store's mode is tagged onto the entry, Created is preserved on overwrite and
// Updated is refreshed (never moving backwards). The stored post-write state
// is returned; overwriting is not an error.
func (s *Store) Upsert(ctx context.Context, sess *core.Session) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertLocked(ctx, sess)
}

// Create is the strict variant of Upsert: it fails with core.ErrAlreadyExists
// when a session with the given id is already present.
func (s *Store) Create(ctx context.Context, sess *core.Session) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess != nil && sess.ID != "" {
		if _, ok, err := s.m.Get(ctx, sess.ID); err != nil {
			return nil, fmt.Errorf("read backing map: %w", err)
		} else if ok {
			return nil, fmt.Errorf("%w: %q", core.ErrAlreadyExists, sess.ID)
		}
	}

	return s.upsertLocked(ctx, sess)
}

// UpsertBatch upserts every session as one unit under a single critical
// section, so no partial state is visible to other readers mid-batch. All
// sessions are validated before the first write; a validation failure leaves
// the store untouched.
func (s *Store) UpsertBatch(ctx context.Context, sessions []*core.Session) ([]*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sess := range sessions {
		if err := s.validate(sess); err != nil {
			return nil, err
		}
	}

	stored := make([]*core.Session, 0, len(sessions))
	for _, sess := range sessions {
		out, err := s.upsertLocked(ctx, sess)
		if err != nil {
			return nil, err
		}
		stored = append(stored, out)
	}

	return stored, nil
}

// Read returns the session for the id or core.ErrNotFound.
func (s *Store) Read(ctx context.Context, sessionID string) (*core.Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: empty session id", core.ErrInvalidArgument)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok, err := s.m.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read backing map: %w", err)
	}
	if !ok || sess.Mode != s.mode {
		return nil, fmt.Errorf("%w: %q", core.ErrNotFound, sessionID)
	}

	return sess, nil
}

// GetAllSessions returns the sessions of the store's mode matching the filter,
// ordered by Created ascending then ID ascending. The order is stable across
// repeated calls with no intervening writes.
func (s *Store) GetAllSessions(ctx context.Context, f core.Filter) ([]*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions, err := s.scanLocked(ctx, f)
	if err != nil {
		return nil, err
	}

	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].Created.Equal(sessions[j].Created) {
			return sessions[i].Created.Before(sessions[j].Created)
		}
		return sessions[i].ID < sessions[j].ID
	})

	return sessions, nil
}

// GetAllSessionIDs returns only the ids, same scope and order as GetAllSessions.
func (s *Store) GetAllSessionIDs(ctx context.Context, f core.Filter) ([]string, error) {
	sessions, err := s.GetAllSessions(ctx, f)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		ids = append(ids, sess.ID)
	}

	return ids, nil
}

// GetRecentSessions returns up to limit sessions ordered by Updated descending
// (most recently modified first), ties broken by ID ascending. A limit <= 0
// yields an empty slice, not an error.
func (s *Store) GetRecentSessions(ctx context.Context, limit int, f core.Filter) ([]*core.Session, error) {
	if limit <= 0 {
		return []*core.Session{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions, err := s.scanLocked(ctx, f)
	if err != nil {
		return nil, err
	}

	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].Updated.Equal(sessions[j].Updated) {
			return sessions[i].Updated.After(sessions[j].Updated)
		}
		return sessions[i].ID < sessions[j].ID
	})

	if len(sessions) > limit {
		sessions = sessions[:limit]
	}

	return sessions, nil
}

// DeleteSession removes the entry if present. Absent ids and foreign-mode
// entries are a no-op, not an error.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: empty session id", core.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok, err := s.m.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("read backing map: %w", err)
	}
	if !ok || sess.Mode != s.mode {
		return nil
	}

	if err := s.m.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete from backing map: %w", err)
	}

	s.logger.Debug("session deleted", "session_id", sessionID, "mode", s.mode)
	return nil
}

// Drop clears every entry belonging to the store's mode from the backing map,
// leaving entries of other modes intact when the map is shared.
func (s *Store) Drop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	err := s.m.Range(ctx, func(sess *core.Session) bool {
		if sess.Mode == s.mode {
			ids = append(ids, sess.ID)
		}
		return true
	})
	if err != nil {
		return fmt.Errorf("scan backing map: %w", err)
	}

	for _, id := range ids {
		if err := s.m.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete from backing map: %w", err)
		}
	}

	s.logger.Info("store dropped", "mode", s.mode, "sessions", len(ids))
	return nil
}

// validate checks the fields Upsert cannot repair itself.
func (s *Store) validate(sess *core.Session) error {
	if sess == nil {
		return fmt.Errorf("%w: nil session", core.ErrInvalidArgument)
	}
	if sess.Mode != "" && sess.Mode != s.mode {
		return fmt.Errorf("%w: session mode %q does not match store mode %q", core.ErrInvalidArgument, sess.Mode, s.mode)
	}
	return nil
}

// upsertLocked performs the insert-or-overwrite; the caller must hold the
// write lock. The input is cloned before mutation so the caller's value is
// never touched.
func (s *Store) upsertLocked(ctx context.Context, sess *core.Session) (*core.Session, error) {
	if err := s.validate(sess); err != nil {
		return nil, err
	}

	stored := sess.Clone()
	stored.Mode = s.mode
	if stored.ID == "" {
		stored.ID = s.idFunc()
	}

	now := s.now()

	existing, ok, err := s.m.Get(ctx, stored.ID)
	if err != nil {
		return nil, fmt.Errorf("read backing map: %w", err)
	}
	if ok {
		stored.Created = existing.Created
		stored.Updated = existing.Updated
	} else if stored.Created.IsZero() {
		stored.Created = now
	}
	stored.Touch(now)

	if err := s.m.Set(ctx, stored); err != nil {
		return nil, fmt.Errorf("write backing map: %w", err)
	}

	s.logger.Debug("session upserted", "session_id", stored.ID, "mode", s.mode, "created", !ok)
	return stored, nil
}

// scanLocked linearly scans the backing map snapshot, keeping entries of the
// store's mode that match the filter. The caller must hold at least the read
// lock.
func (s *Store) scanLocked(ctx context.Context, f core.Filter) ([]*core.Session, error) {
	var sessions []*core.Session
	err := s.m.Range(ctx, func(sess *core.Session) bool {
		if sess.Mode == s.mode && f.Matches(sess) {
			sessions = append(sessions, sess)
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("scan backing map: %w", err)
	}
	return sessions, nil
}
