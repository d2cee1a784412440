package core

import (
	"testing"
	"time"
)

func TestNewSession_Defaults(t *testing.T) {
	s := NewSession("", ModeAgent)
	if s.ID == "" {
		t.Fatal("expected a generated id")
	}
	if s.Mode != ModeAgent {
		t.Fatalf("expected agent mode, got %q", s.Mode)
	}
	if s.Created.IsZero() || s.Updated.IsZero() {
		t.Fatal("timestamps should be initialized")
	}

	named := NewSession("s1", ModeTeam)
	if named.ID != "s1" {
		t.Fatalf("expected given id to be kept, got %q", named.ID)
	}
}

func TestSession_CloneIsolation(t *testing.T) {
	s := NewSession("s1", ModeAgent)
	s.Data["k"] = "v"

	clone := s.Clone()
	if clone == s {
		t.Fatal("clone should be a different pointer")
	}

	clone.Data["k2"] = "v2"
	if _, exists := s.Data["k2"]; exists {
		t.Fatal("original should not see clone's new key")
	}

	var nothing *Session
	if nothing.Clone() != nil {
		t.Fatal("nil clone should stay nil")
	}
}

func TestSession_TouchNonDecreasing(t *testing.T) {
	s := NewSession("s1", ModeAgent)
	before := s.Updated

	s.Touch(before.Add(-time.Hour))
	if !s.Updated.Equal(before) {
		t.Fatal("Touch must never move Updated backwards")
	}

	s.Touch(before.Add(time.Hour))
	if !s.Updated.Equal(before.Add(time.Hour)) {
		t.Fatal("Touch should advance Updated")
	}
}

func TestFilter_Matches(t *testing.T) {
	s := &Session{ID: "s1", Mode: ModeAgent, UserID: "u1", EntityID: "e1"}

	cases := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter", Filter{}, true},
		{"matching user", Filter{UserID: "u1"}, true},
		{"other user", Filter{UserID: "u2"}, false},
		{"matching entity", Filter{EntityID: "e1"}, true},
		{"other entity", Filter{EntityID: "e2"}, false},
		{"matching mode", Filter{Mode: ModeAgent}, true},
		{"other mode", Filter{Mode: ModeTeam}, false},
		{"all fields", Filter{UserID: "u1", EntityID: "e1", Mode: ModeAgent}, true},
		{"one mismatch fails all", Filter{UserID: "u1", EntityID: "e2"}, false},
	}

	for _, tc := range cases {
		if got := tc.filter.Matches(s); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}

	// Sessions lacking a user id never match a user filter.
	anon := &Session{ID: "s2", Mode: ModeAgent}
	if (Filter{UserID: "u1"}).Matches(anon) {
		t.Error("session without user_id must be excluded from user filters")
	}
}
