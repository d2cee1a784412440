package core

import "fmt"

var (
	// ErrNotFound is returned by lookups when no session exists for the given
	// id. Callers should treat it as an expected, non-exceptional outcome.
	ErrNotFound = fmt.Errorf("session not found")

	// ErrAlreadyExists is returned by the strict Create when a session with the
	// given id is already present. Upsert never returns it.
	ErrAlreadyExists = fmt.Errorf("session already exists")

	// ErrInvalidMode is returned at construction (or parse) time when a mode is
	// not one of the recognized values.
	ErrInvalidMode = fmt.Errorf("invalid session mode")

	// ErrInvalidArgument is returned when a required field is missing or
	// malformed and the operation cannot proceed.
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
