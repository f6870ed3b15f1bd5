// Package domain provides shared domain types for the specflow workflow tracker.
// These types are used across all internal packages to ensure consistent data structures.
//
// This package follows strict import rules:
//   - CAN import: internal/constants, internal/errors, standard library
//   - MUST NOT import: any other internal packages
//
// All JSON field names use snake_case per architecture requirements.
package domain

import (
	"time"

	"github.com/mrz1836/specflow/internal/constants"
)

// SpecRecord is the durable aggregate state for one named specification.
// It is created once by the initialize operation and mutated exclusively
// through workflow engine operations; the store is the single source of
// truth for its persisted form.
//
// Example JSON representation:
//
//	{
//	    "name": "checkout-flow",
//	    "description": "payment checkout redesign",
//	    "current_phase": "requirements",
//	    "phase_statuses": {"requirements": "in_progress", "design": "pending", "tasks": "pending"},
//	    "approvals": [...],
//	    "file_refs": {...},
//	    "created_at": "2026-08-28T10:00:00Z",
//	    "last_modified": "2026-08-28T10:05:00Z",
//	    "schema_version": 1
//	}
type SpecRecord struct {
	// Name is the unique identifier for the specification within the store.
	// It is stable for the record's lifetime and matches a restrictive
	// identifier pattern (no path separators or relative-path characters).
	Name string `json:"name"`

	// Description is a human-readable summary of the unit of work.
	Description string `json:"description"`

	// CurrentPhase is the specification's position in the workflow.
	// It is always reachable from init via transitions already recorded.
	CurrentPhase constants.Phase `json:"current_phase"`

	// PhaseStatuses maps each tracked phase (requirements, design, tasks)
	// to its progress state. Init and complete carry no status slot.
	PhaseStatuses map[constants.Phase]constants.PhaseStatus `json:"phase_statuses"`

	// Approvals is the chronological, append-only approval history.
	// Entries are immutable once recorded.
	Approvals []ApprovalRecord `json:"approvals"`

	// FileRefs maps logical document names (requirements, design, tasks)
	// to rendered-file metadata. It is populated by the external document
	// collaborator and is read-only from the engine's perspective.
	FileRefs map[string]FileRef `json:"file_refs,omitempty"`

	// CreatedAt is when the specification was initialized.
	CreatedAt time.Time `json:"created_at"`

	// LastModified is when the specification was last mutated.
	LastModified time.Time `json:"last_modified"`

	// SchemaVersion indicates the version of the SpecRecord schema.
	// This enables forward-compatible schema migrations.
	SchemaVersion int `json:"schema_version"`
}

// FileRef holds metadata about a rendered phase document on disk.
// The engine never reads or writes the document itself.
type FileRef struct {
	// Path is the document's location as reported by the file collaborator.
	Path string `json:"path"`

	// LastModified is the document file's modification time.
	LastModified time.Time `json:"last_modified"`

	// Size is the document file's size in bytes.
	Size int64 `json:"size"`

	// Exists reports whether the document was present at the last refresh.
	Exists bool `json:"exists"`
}

// NewSpecRecord builds a fresh record in the init phase with all tracked
// phase statuses pending and an empty approval history. The caller supplies
// the creation time so engine timestamps stay deterministic under test.
func NewSpecRecord(name, description string, now time.Time) *SpecRecord {
	statuses := make(map[constants.Phase]constants.PhaseStatus, 3)
	for _, p := range constants.TrackedPhases() {
		statuses[p] = constants.PhaseStatusPending
	}
	return &SpecRecord{
		Name:          name,
		Description:   description,
		CurrentPhase:  constants.PhaseInit,
		PhaseStatuses: statuses,
		Approvals:     []ApprovalRecord{},
		CreatedAt:     now,
		LastModified:  now,
		SchemaVersion: constants.SpecSchemaVersion,
	}
}

// HasApproval reports whether the approval history contains at least one
// approved decision for the given phase. Transitions are forward-only, so
// any approved decision for the phase satisfies the pre-entry gate.
func (r *SpecRecord) HasApproval(phase constants.Phase) bool {
	for _, a := range r.Approvals {
		if a.Phase == phase && a.Decision == constants.DecisionApproved {
			return true
		}
	}
	return false
}

// StatusOf returns the progress status of a tracked phase, or pending if the
// phase carries no status slot.
func (r *SpecRecord) StatusOf(phase constants.Phase) constants.PhaseStatus {
	if s, ok := r.PhaseStatuses[phase]; ok {
		return s
	}
	return constants.PhaseStatusPending
}

// Clone returns a deep copy of the record. The store hands out clones so
// callers can never mutate cached state behind the engine's back.
func (r *SpecRecord) Clone() *SpecRecord {
	if r == nil {
		return nil
	}
	cp := *r

	cp.PhaseStatuses = make(map[constants.Phase]constants.PhaseStatus, len(r.PhaseStatuses))
	for k, v := range r.PhaseStatuses {
		cp.PhaseStatuses[k] = v
	}

	cp.Approvals = make([]ApprovalRecord, len(r.Approvals))
	copy(cp.Approvals, r.Approvals)

	if r.FileRefs != nil {
		cp.FileRefs = make(map[string]FileRef, len(r.FileRefs))
		for k, v := range r.FileRefs {
			cp.FileRefs[k] = v
		}
	}

	return &cp
}
