package core

import (
	"time"

	"github.com/google/uuid"
)

// Session represents one conversational or run context tied to a single
// identifier. Data is an opaque payload (messages, memory, run metadata) that
// the store never interprets; it only stores and retrieves it. Stores hand out
// clones, so a Session value held by a caller never aliases store internals.
type Session struct {
	ID       string         `json:"session_id" dynamodbav:"session_id"`
	Mode     Mode           `json:"mode" dynamodbav:"mode"`
	UserID   string         `json:"user_id,omitempty" dynamodbav:"user_id,omitempty"`
	EntityID string         `json:"entity_id,omitempty" dynamodbav:"entity_id,omitempty"`
	Data     map[string]any `json:"data,omitempty" dynamodbav:"data,omitempty"`
	Created  time.Time      `json:"created_at" dynamodbav:"created_at"`
	Updated  time.Time      `json:"updated_at" dynamodbav:"updated_at"`
}

// NewSession creates a session with the given id (generated when empty) and an
// empty Data payload. Timestamps are initialized to now.
func NewSession(id string, mode Mode) *Session {
	if id == "" {
		id = NewID()
	}
	now := time.Now()
	return &Session{ID: id, Mode: mode, Data: map[string]any{}, Created: now, Updated: now}
}

// Clone returns a deep copy of the session safe for independent mutation.
// Data values are copied per key; nested mutable values remain shared, matching
// the opaque-payload contract (the store never reaches into them).
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	clone := *s
	if s.Data != nil {
		clone.Data = make(map[string]any, len(s.Data))
		for k, v := range s.Data {
			clone.Data[k] = v
		}
	}
	return &clone
}

// Touch refreshes the Updated timestamp, never moving it backwards.
func (s *Session) Touch(now time.Time) {
	if now.After(s.Updated) {
		s.Updated = now
	}
}

// NewID returns a new unique identifier string.
func NewID() string { return uuid.NewString() }
