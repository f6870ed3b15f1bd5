// Package errors provides centralized error handling for specflow.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrInvalidName indicates a specification name failed the identifier
	// pattern or length bound.
	ErrInvalidName = errors.New("invalid specification name")

	// ErrInvalidDescription indicates a specification description exceeded
	// its length bound.
	ErrInvalidDescription = errors.New("invalid specification description")

	// ErrSpecExists indicates an attempt to initialize a specification whose
	// name is already present in the store.
	ErrSpecExists = errors.New("specification already exists")

	// ErrSpecNotFound indicates the requested specification does not exist.
	ErrSpecNotFound = errors.New("specification not found")

	// ErrIllegalTransition indicates a requested phase transition is not an
	// edge in the phase graph.
	ErrIllegalTransition = errors.New("illegal phase transition")

	// ErrApprovalRequired indicates a transition was requested into a phase
	// that requires a recorded approved decision, and none exists yet.
	ErrApprovalRequired = errors.New("approval required")

	// ErrInvalidPhase indicates an operation named a phase that is not valid
	// for the specification's current position in the workflow.
	ErrInvalidPhase = errors.New("invalid phase for operation")

	// ErrInvalidDecision indicates an unknown approval decision value.
	ErrInvalidDecision = errors.New("invalid approval decision")

	// ErrCorruptState indicates a persisted record failed structural
	// validation. Corrupt state is never retried: rereading the same bytes
	// reproduces the same failure. The error message names the failing field.
	ErrCorruptState = errors.New("corrupted state file")

	// ErrStorageFault indicates an underlying storage I/O failure.
	// A single bounded retry is permitted before surfacing to the caller.
	ErrStorageFault = errors.New("storage fault")

	// ErrLockTimeout indicates a file lock could not be acquired within the
	// configured timeout period.
	ErrLockTimeout = errors.New("lock acquisition timeout")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrValueOutOfRange indicates that a value is outside the allowed range.
	ErrValueOutOfRange = errors.New("value out of range")

	// ErrPathTraversal indicates an attempt to use path traversal in a name.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrUnknownDocument indicates a file reference named a logical document
	// that is not part of the workflow (requirements, design, tasks).
	ErrUnknownDocument = errors.New("unknown document name")

	// ErrConfigInvalid indicates a configuration value failed validation.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")
)
