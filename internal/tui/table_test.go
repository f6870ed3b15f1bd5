package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/specflow/internal/constants"
)

func sampleRows() []SpecRow {
	return []SpecRow{
		{Name: "checkout-flow", Phase: constants.PhaseDesign, CompletedPhases: 1, TotalPhases: 3, Approvals: 2, Updated: "2026-08-28 10:05"},
		{Name: "auth-refresh", Phase: constants.PhaseComplete, CompletedPhases: 3, TotalPhases: 3, Approvals: 3, Updated: "2026-08-27 16:40"},
		{Name: "new-idea", Phase: constants.PhaseInit, CompletedPhases: 0, TotalPhases: 3, Approvals: 0, Updated: "2026-08-28 09:00"},
	}
}

func TestSpecTableHeaders(t *testing.T) {
	wide := NewSpecTable(sampleRows(), WithTerminalWidth(120))
	assert.False(t, wide.IsNarrow())
	assert.Equal(t, []string{"NAME", "PHASE", "PROGRESS", "UPDATED"}, wide.Headers())

	narrow := NewSpecTable(sampleRows(), WithTerminalWidth(60))
	assert.True(t, narrow.IsNarrow())
	assert.Equal(t, []string{"NAME", "PHASE", "PROG", "UPD"}, narrow.Headers())
	assert.Equal(t, []string{"NAME", "PHASE", "PROGRESS", "UPDATED"}, narrow.FullHeaders(),
		"JSON output always uses full header names")
}

func TestSpecTableRender(t *testing.T) {
	CheckNoColor()

	var buf bytes.Buffer
	table := NewSpecTable(sampleRows(), WithTerminalWidth(120))
	require.NoError(t, table.Render(&buf))

	got := buf.String()
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	require.Len(t, lines, 4, "one header line plus one line per row")

	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, got, "checkout-flow")
	assert.Contains(t, got, "design")
	assert.Contains(t, got, "1/3 (2✓)")
	assert.Contains(t, got, "0/3")
	assert.Contains(t, got, "○ init")
	assert.Contains(t, got, "✓ complete")
}

func TestSpecTableToJSONData(t *testing.T) {
	table := NewSpecTable(sampleRows(), WithTerminalWidth(120))

	headers, rows := table.ToJSONData()
	assert.Equal(t, []string{"NAME", "PHASE", "PROGRESS", "UPDATED"}, headers)
	require.Len(t, rows, 3)

	assert.Equal(t, "checkout-flow", rows[0][0])
	assert.Equal(t, "● design", rows[0][1])
	assert.Equal(t, "1/3 (2✓)", rows[0][2])
	assert.Equal(t, "2026-08-28 10:05", rows[0][3])

	for _, row := range rows {
		for _, cell := range row {
			assert.NotContains(t, cell, "\x1b[", "JSON cells must be free of ANSI codes")
		}
	}
}

func TestSpecTableRows(t *testing.T) {
	table := NewSpecTable(sampleRows())

	rows := table.Rows()
	require.Len(t, rows, 3)
	rows[0].Name = "mutated"
	assert.Equal(t, "checkout-flow", table.Rows()[0].Name, "Rows returns a copy")

	assert.Nil(t, (&SpecTable{}).Rows())
}

func TestSpecTableConstrainWidths(t *testing.T) {
	longName := strings.Repeat("long-spec-name-", 5)
	rows := []SpecRow{{Name: longName, Phase: constants.PhaseTasks, CompletedPhases: 2, TotalPhases: 3, Updated: "2026-08-28 10:05"}}

	table := NewSpecTable(rows, WithTerminalWidth(70))
	widths := table.calculateColumnWidths()

	const separatorWidth = 6
	total := widths.Name + widths.Phase + widths.Progress + widths.Updated + separatorWidth
	assert.LessOrEqual(t, total, 70, "table must fit the terminal by shrinking the name column")
	assert.GreaterOrEqual(t, widths.Name, minSpecColumnWidths.Name)
}

func TestSpecTableEmptyRows(t *testing.T) {
	CheckNoColor()

	var buf bytes.Buffer
	table := NewSpecTable(nil, WithTerminalWidth(120))
	require.NoError(t, table.Render(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 1, "only the header renders with no rows")
}

func TestFormatProgress(t *testing.T) {
	table := NewSpecTable(nil)
	assert.Equal(t, "0/3", table.formatProgress(SpecRow{TotalPhases: 3}))
	assert.Equal(t, "2/3 (1✓)", table.formatProgress(SpecRow{CompletedPhases: 2, TotalPhases: 3, Approvals: 1}))
}

func TestPhaseMarker(t *testing.T) {
	assert.Equal(t, "○", phaseMarker(constants.PhaseInit))
	assert.Equal(t, "✓", phaseMarker(constants.PhaseComplete))
	assert.Equal(t, "●", phaseMarker(constants.PhaseRequirements))
	assert.Equal(t, "●", phaseMarker(constants.PhaseDesign))
	assert.Equal(t, "●", phaseMarker(constants.PhaseTasks))
}
