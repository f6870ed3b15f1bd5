package tui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/specflow/internal/constants"
	"github.com/mrz1836/specflow/internal/domain"
)

func TestRenderStatus(t *testing.T) {
	CheckNoColor()

	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	record := domain.NewSpecRecord("checkout-flow", "payment checkout redesign", now)
	record.CurrentPhase = constants.PhaseDesign
	record.PhaseStatuses[constants.PhaseRequirements] = constants.PhaseStatusCompleted
	record.PhaseStatuses[constants.PhaseDesign] = constants.PhaseStatusInProgress
	record.Approvals = []domain.ApprovalRecord{
		{Phase: constants.PhaseRequirements, Approver: "alice", Decision: constants.DecisionApproved, Comment: "scope agreed", RecordedAt: now},
		{Phase: constants.PhaseDesign, Approver: "bob", Decision: constants.DecisionRejected, RecordedAt: now.Add(time.Hour)},
	}
	record.FileRefs = map[string]domain.FileRef{
		"requirements": {Path: "specs/checkout-flow/requirements.md", Size: 2048, LastModified: now, Exists: true},
		"design":       {Path: "specs/checkout-flow/design.md", Exists: false},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderStatus(&buf, record))

	got := buf.String()
	assert.Contains(t, got, "checkout-flow")
	assert.Contains(t, got, "payment checkout redesign")
	assert.Contains(t, got, "Phase: design")

	// Checklist with icons and approval markers.
	assert.Contains(t, got, "✓ requirements")
	assert.Contains(t, got, "● design")
	assert.Contains(t, got, "○ tasks")
	assert.Contains(t, got, "approved")

	// Approval history with both decisions.
	assert.Contains(t, got, "Approvals:")
	assert.Contains(t, got, "by alice")
	assert.Contains(t, got, "scope agreed")
	assert.Contains(t, got, "✗ design rejected by bob")

	// Document references sorted, existing and missing.
	assert.Contains(t, got, "Documents:")
	assert.Contains(t, got, "2048 bytes")
	assert.Contains(t, got, "missing")
}

func TestRenderStatusMinimalRecord(t *testing.T) {
	CheckNoColor()

	record := domain.NewSpecRecord("bare", "", time.Now().UTC())

	var buf bytes.Buffer
	require.NoError(t, RenderStatus(&buf, record))

	got := buf.String()
	assert.Contains(t, got, "bare")
	assert.Contains(t, got, "Phase: init")
	assert.NotContains(t, got, "Approvals:")
	assert.NotContains(t, got, "Documents:")
}
