package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/specflow/internal/constants"
)

func TestNewSpecRecord(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	rec := NewSpecRecord("checkout-flow", "payment checkout redesign", now)

	assert.Equal(t, "checkout-flow", rec.Name)
	assert.Equal(t, "payment checkout redesign", rec.Description)
	assert.Equal(t, constants.PhaseInit, rec.CurrentPhase)
	assert.Equal(t, now, rec.CreatedAt)
	assert.Equal(t, now, rec.LastModified)
	assert.Equal(t, constants.SpecSchemaVersion, rec.SchemaVersion)
	assert.Empty(t, rec.Approvals)
	assert.NotNil(t, rec.Approvals, "approvals should serialize as [] not null")

	require.Len(t, rec.PhaseStatuses, 3)
	for _, p := range constants.TrackedPhases() {
		assert.Equal(t, constants.PhaseStatusPending, rec.PhaseStatuses[p])
	}
}

func TestSpecRecordHasApproval(t *testing.T) {
	rec := NewSpecRecord("test", "", time.Now())

	assert.False(t, rec.HasApproval(constants.PhaseRequirements))

	rec.Approvals = append(rec.Approvals, ApprovalRecord{
		Phase:    constants.PhaseRequirements,
		Approver: "alice",
		Decision: constants.DecisionRejected,
	})
	assert.False(t, rec.HasApproval(constants.PhaseRequirements),
		"a rejected decision does not satisfy the gate")

	rec.Approvals = append(rec.Approvals, ApprovalRecord{
		Phase:    constants.PhaseRequirements,
		Approver: "bob",
		Decision: constants.DecisionApproved,
	})
	assert.True(t, rec.HasApproval(constants.PhaseRequirements))
	assert.False(t, rec.HasApproval(constants.PhaseDesign))
}

func TestSpecRecordStatusOf(t *testing.T) {
	rec := NewSpecRecord("test", "", time.Now())

	assert.Equal(t, constants.PhaseStatusPending, rec.StatusOf(constants.PhaseRequirements))
	assert.Equal(t, constants.PhaseStatusPending, rec.StatusOf(constants.PhaseInit),
		"untracked phases report pending")

	rec.PhaseStatuses[constants.PhaseDesign] = constants.PhaseStatusInProgress
	assert.Equal(t, constants.PhaseStatusInProgress, rec.StatusOf(constants.PhaseDesign))
}

func TestSpecRecordClone(t *testing.T) {
	now := time.Now()
	rec := NewSpecRecord("test", "original", now)
	rec.Approvals = append(rec.Approvals, ApprovalRecord{
		Phase:    constants.PhaseRequirements,
		Approver: "alice",
		Decision: constants.DecisionApproved,
	})
	rec.FileRefs = map[string]FileRef{
		"requirements": {Path: "specs/test/requirements.md", Size: 42, Exists: true},
	}

	clone := rec.Clone()
	require.NotNil(t, clone)
	assert.Equal(t, rec, clone)

	// Mutating the clone must not touch the original.
	clone.PhaseStatuses[constants.PhaseDesign] = constants.PhaseStatusCompleted
	clone.Approvals[0].Approver = "mallory"
	clone.FileRefs["requirements"] = FileRef{Path: "elsewhere"}

	assert.Equal(t, constants.PhaseStatusPending, rec.PhaseStatuses[constants.PhaseDesign])
	assert.Equal(t, "alice", rec.Approvals[0].Approver)
	assert.Equal(t, "specs/test/requirements.md", rec.FileRefs["requirements"].Path)
}

func TestSpecRecordCloneNil(t *testing.T) {
	var rec *SpecRecord
	assert.Nil(t, rec.Clone())
}
