package constants

// Phase represents a stage in a specification's lifecycle.
// Phase values use snake_case for JSON serialization compatibility.
type Phase string

// Phase constants define the ordered stages of the spec-driven workflow.
// Transitions are validated against the phase graph in internal/workflow,
// never inferred from declaration order:
//
//	Init → Requirements → Design → Tasks → Complete
const (
	// PhaseInit is the starting phase of every new specification.
	PhaseInit Phase = "init"

	// PhaseRequirements is the requirements-gathering phase.
	PhaseRequirements Phase = "requirements"

	// PhaseDesign is the design documentation phase.
	PhaseDesign Phase = "design"

	// PhaseTasks is the implementation-task breakdown phase.
	PhaseTasks Phase = "tasks"

	// PhaseComplete is the terminal phase. No transitions leave it.
	PhaseComplete Phase = "complete"
)

// String returns the string representation of the Phase.
// This implements fmt.Stringer for convenient logging and debugging.
func (p Phase) String() string {
	return string(p)
}

// IsValid reports whether p is one of the known phase values.
// Unknown phase values are a construction-time failure, not a runtime surprise.
func (p Phase) IsValid() bool {
	switch p {
	case PhaseInit, PhaseRequirements, PhaseDesign, PhaseTasks, PhaseComplete:
		return true
	}
	return false
}

// TrackedPhases returns the phases that carry a per-phase status on a
// specification record. Init and Complete are lifecycle markers only.
func TrackedPhases() []Phase {
	return []Phase{PhaseRequirements, PhaseDesign, PhaseTasks}
}

// IsTracked reports whether p carries a per-phase status.
func (p Phase) IsTracked() bool {
	switch p {
	case PhaseRequirements, PhaseDesign, PhaseTasks:
		return true
	case PhaseInit, PhaseComplete:
		return false
	}
	return false
}

// PhaseStatus represents the progress state of a tracked phase.
// Status values use snake_case for JSON serialization compatibility.
type PhaseStatus string

// Phase status constants define the valid progress states of a tracked phase.
const (
	// PhaseStatusPending indicates the phase has not been entered yet.
	PhaseStatusPending PhaseStatus = "pending"

	// PhaseStatusInProgress indicates the phase is the one currently being worked.
	PhaseStatusInProgress PhaseStatus = "in_progress"

	// PhaseStatusCompleted indicates the phase's document work is finished.
	// A phase can only be completed after it became in_progress.
	PhaseStatusCompleted PhaseStatus = "completed"
)

// String returns the string representation of the PhaseStatus.
func (s PhaseStatus) String() string {
	return string(s)
}

// IsValid reports whether s is one of the known phase status values.
func (s PhaseStatus) IsValid() bool {
	switch s {
	case PhaseStatusPending, PhaseStatusInProgress, PhaseStatusCompleted:
		return true
	}
	return false
}

// ApprovalDecision represents the outcome of a recorded approval review.
type ApprovalDecision string

// Approval decision constants.
const (
	// DecisionApproved indicates the reviewer approved entry into the phase.
	DecisionApproved ApprovalDecision = "approved"

	// DecisionRejected indicates the reviewer rejected the current material.
	// Rejection records intent only: it never rolls back the current phase.
	DecisionRejected ApprovalDecision = "rejected"
)

// String returns the string representation of the ApprovalDecision.
func (d ApprovalDecision) String() string {
	return string(d)
}

// IsValid reports whether d is one of the known decision values.
func (d ApprovalDecision) IsValid() bool {
	switch d {
	case DecisionApproved, DecisionRejected:
		return true
	}
	return false
}
