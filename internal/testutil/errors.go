// Package testutil provides testing utilities for specflow.
//
// This package contains mock errors and test helpers used across test files.
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
// These errors are used to simulate various failure scenarios in tests.
var (
	// ErrMockStoreUnavailable indicates a mock store is unavailable (used in tests).
	ErrMockStoreUnavailable = errors.New("store unavailable")

	// ErrMockEventLogFailed indicates a mock event log append failed (used in tests).
	ErrMockEventLogFailed = errors.New("event log append failed")

	// ErrMockDiskFull indicates a mock disk-full write failure (used in tests).
	ErrMockDiskFull = errors.New("disk full")
)
