package domain

import (
	"time"

	"github.com/mrz1836/specflow/internal/constants"
)

// ApprovalRecord captures one reviewer decision gating entry into a phase.
// Records are immutable once created; the approval history is append-only
// and its insertion order is chronological.
//
// Example JSON representation:
//
//	{
//	    "phase": "design",
//	    "approver": "alice",
//	    "decision": "approved",
//	    "comment": "LGTM after the retry-path changes",
//	    "recorded_at": "2026-08-28T10:05:00Z"
//	}
type ApprovalRecord struct {
	// Phase is the phase this decision gates entry into.
	Phase constants.Phase `json:"phase"`

	// Approver is the reviewer's identity.
	Approver string `json:"approver"`

	// Decision is the reviewer's verdict. A rejected decision records
	// intent only; it never changes the specification's current phase.
	Decision constants.ApprovalDecision `json:"decision"`

	// Comment is the reviewer's optional free-text note.
	Comment string `json:"comment,omitempty"`

	// RecordedAt is when the decision was appended to the history.
	RecordedAt time.Time `json:"recorded_at"`
}
