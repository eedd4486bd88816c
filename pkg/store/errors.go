package store

import (
	"errors"
)

var (
	// ErrAlreadyExists maps the unique triple constraint: the same
	// (subject, predicate, object) edge is already persisted. Expected
	// under concurrent writers and recoverable by treating the edge as
	// present.
	ErrAlreadyExists = errors.New("store: record already exists")

	// ErrSelfReference rejects relationships whose subject and object
	// are the same entity.
	ErrSelfReference = errors.New("store: relationship references itself")

	// ErrInvalidInput marks malformed arguments: unknown entity type,
	// empty name, out-of-range confidence.
	ErrInvalidInput = errors.New("store: invalid input")

	// ErrMissingEndpoint marks a relationship whose subject or object
	// entity does not exist.
	ErrMissingEndpoint = errors.New("store: relationship endpoint does not exist")
)
