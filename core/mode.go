package core

import "fmt"

// Mode is the category of entity a session belongs to. A store instance serves
// exactly one mode; the mode is fixed at construction and tagged onto every
// entry so that several mode-scoped stores can share one backing map without
// leaking entries across modes.
type Mode string

const (
	// ModeAgent scopes sessions to a single agent conversation.
	ModeAgent Mode = "agent"
	// ModeTeam scopes sessions to a multi-agent team run.
	ModeTeam Mode = "team"
	// ModeWorkflow scopes sessions to a workflow run.
	ModeWorkflow Mode = "workflow"
	// ModeWorkflowV2 scopes sessions to a v2 workflow run.
	ModeWorkflowV2 Mode = "workflow_v2"
)

// Valid reports whether m is one of the recognized modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeAgent, ModeTeam, ModeWorkflow, ModeWorkflowV2:
		return true
	}
	return false
}

// String returns the wire representation of the mode.
func (m Mode) String() string { return string(m) }

// ParseMode converts a raw string into a Mode or returns ErrInvalidMode.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
	return m, nil
}
