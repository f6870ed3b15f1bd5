package domain

import (
	"time"

	"github.com/mrz1836/specflow/internal/constants"
)

// EventAction labels the kind of workflow action an event records.
type EventAction string

// Event action constants.
const (
	// ActionInitialized records creation of a specification.
	ActionInitialized EventAction = "initialized"

	// ActionTransitioned records a committed phase transition.
	ActionTransitioned EventAction = "transitioned"

	// ActionApprovalRecorded records an appended approval decision.
	ActionApprovalRecorded EventAction = "approval_recorded"

	// ActionProgressMarked records a phase status change within a phase.
	ActionProgressMarked EventAction = "progress_marked"

	// ActionDocumentsRefreshed records a file-metadata update.
	ActionDocumentsRefreshed EventAction = "documents_refreshed"
)

// Event is one append-only entry in a specification's workflow history.
// Events exist for audit and status display only: the SpecRecord is always
// the authority, and current state is never reconstructed by replaying events.
//
// Example JSON representation (one line in events.log):
//
//	{"id":"6f1c...","timestamp":"2026-08-28T10:05:00Z","spec_name":"checkout-flow","phase":"design","action":"transitioned","detail":{"from":"requirements"}}
type Event struct {
	// ID uniquely identifies the event.
	ID string `json:"id"`

	// Timestamp is when the action happened. Entries are ordered by
	// timestamp with ties broken by insertion order in the log file.
	Timestamp time.Time `json:"timestamp"`

	// SpecName names the specification the action applied to.
	SpecName string `json:"spec_name"`

	// Phase is the phase the action concerned.
	Phase constants.Phase `json:"phase"`

	// Action labels what happened.
	Action EventAction `json:"action"`

	// Detail carries optional structured context (e.g., the prior phase of
	// a transition or the reviewer of an approval).
	Detail map[string]string `json:"detail,omitempty"`
}
