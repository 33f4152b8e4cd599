package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID indicates an entity with the same ID already exists.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrInvalidInput indicates malformed input or an unknown enum value.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidState indicates an operation is not valid for the entity's
	// current lifecycle state (e.g. rejecting an already-accepted proposal).
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidTransition indicates the stage registry forbids the move.
	ErrInvalidTransition = errors.New("invalid stage transition")

	// ErrVersionMismatch indicates an optimistic-concurrency conflict.
	// Callers are expected to re-read the entity and retry.
	ErrVersionMismatch = errors.New("version mismatch")

	// ErrIdentityResolution indicates the identity resolution service
	// could not resolve a masked profile. The proposal stays accepted
	// and disclosure can be retried.
	ErrIdentityResolution = errors.New("identity resolution failed")

	// ErrDisclosureFailed indicates disclosure could not mint a pipeline
	// item for an accepted proposal. The proposal stays accepted and the
	// caller must offer a manual retry.
	ErrDisclosureFailed = errors.New("disclosure failed")

	// ErrConfiguration indicates a malformed board configuration or an
	// undefined stage identifier.
	ErrConfiguration = errors.New("invalid board configuration")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")
)
