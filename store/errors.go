package store

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrReferenceViolated is returned when the engine rejects a write because a
	// foreign key points at a missing row.
	ErrReferenceViolated = errors.New("foreign key violation")
)
