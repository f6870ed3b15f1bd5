package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/mrz1836/specflow/internal/constants"
)

// NarrowTerminalWidth is the threshold below which abbreviated headers are used.
const NarrowTerminalWidth = 80

// SpecRow represents one row in the spec listing table.
type SpecRow struct {
	Name string
	// Phase is the spec's current workflow phase.
	Phase constants.Phase
	// CompletedPhases counts tracked phases with Completed status.
	CompletedPhases int
	// TotalPhases is the number of tracked phases.
	TotalPhases int
	// Approvals counts recorded approved decisions.
	Approvals int
	// Updated is a human-readable last-modified timestamp.
	Updated string
}

// SpecColumnWidths holds the widths for each listing column.
type SpecColumnWidths struct {
	Name     int
	Phase    int
	Progress int
	Updated  int
}

// minSpecColumnWidths keeps columns readable with short content.
//
//nolint:gochecknoglobals // package-level minimum widths
var minSpecColumnWidths = SpecColumnWidths{
	Name:     10,
	Phase:    14,
	Progress: 8,
	Updated:  12,
}

// SpecTableOption is a functional option for SpecTable configuration.
type SpecTableOption func(*SpecTable)

// WithTerminalWidth sets a specific terminal width (useful for testing).
func WithTerminalWidth(width int) SpecTableOption {
	return func(t *SpecTable) {
		t.terminalWidth = width
		t.narrow = width > 0 && width < NarrowTerminalWidth
	}
}

// SpecTable renders specs and their workflow progress in a formatted table.
// Supports both TTY and JSON output via ToJSONData.
type SpecTable struct {
	rows          []SpecRow
	styles        *TableStyles
	terminalWidth int
	narrow        bool
}

// NewSpecTable creates a table for the given rows, detecting terminal width.
func NewSpecTable(rows []SpecRow, opts ...SpecTableOption) *SpecTable {
	t := &SpecTable{
		rows:          rows,
		styles:        NewTableStyles(),
		terminalWidth: detectTerminalWidth(),
	}
	t.narrow = t.terminalWidth > 0 && t.terminalWidth < NarrowTerminalWidth

	for _, opt := range opts {
		opt(t)
	}
	return t
}

// detectTerminalWidth returns the current terminal width, assuming a
// standard 80-column terminal when detection fails.
func detectTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}
	return width
}

// IsNarrow reports whether the table is in narrow mode.
func (t *SpecTable) IsNarrow() bool {
	return t.narrow
}

// Headers returns the column headers, abbreviated in narrow mode.
func (t *SpecTable) Headers() []string {
	if t.narrow {
		return []string{"NAME", "PHASE", "PROG", "UPD"}
	}
	return []string{"NAME", "PHASE", "PROGRESS", "UPDATED"}
}

// FullHeaders returns full header names, used for JSON output.
func (t *SpecTable) FullHeaders() []string {
	return []string{"NAME", "PHASE", "PROGRESS", "UPDATED"}
}

// Render writes the formatted table to the writer.
func (t *SpecTable) Render(w io.Writer) error {
	headers := t.Headers()
	widths := t.calculateColumnWidths()
	widthsSlice := []int{widths.Name, widths.Phase, widths.Progress, widths.Updated}

	headerParts := make([]string, len(headers))
	for i, h := range headers {
		headerParts[i] = t.styles.Header.Render(padRight(h, widthsSlice[i]))
	}
	if _, err := fmt.Fprintln(w, strings.Join(headerParts, "  ")); err != nil {
		return err
	}

	for _, row := range t.rows {
		cells := []string{
			padRight(row.Name, widths.Name),
			t.renderPhaseCellPadded(row.Phase, widths.Phase),
			padRight(t.formatProgress(row), widths.Progress),
			t.styles.Dim.Render(padRight(row.Updated, widths.Updated)),
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, "  ")); err != nil {
			return err
		}
	}
	return nil
}

// ToJSONData converts the table to a JSON-compatible headers/rows pair,
// always using full header names and plain (unstyled) cells.
func (t *SpecTable) ToJSONData() ([]string, [][]string) {
	headers := t.FullHeaders()
	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		rows[i] = []string{
			row.Name,
			t.renderPhaseCellPlain(row.Phase),
			t.formatProgress(row),
			row.Updated,
		}
	}
	return headers, rows
}

// Rows returns a copy of the table rows.
func (t *SpecTable) Rows() []SpecRow {
	if t.rows == nil {
		return nil
	}
	result := make([]SpecRow, len(t.rows))
	copy(result, t.rows)
	return result
}

// calculateColumnWidths sizes columns from headers and content, then
// constrains the result to the terminal width.
func (t *SpecTable) calculateColumnWidths() SpecColumnWidths {
	headers := t.Headers()
	widths := SpecColumnWidths{
		Name:     max(minSpecColumnWidths.Name, utf8.RuneCountInString(headers[0])),
		Phase:    max(minSpecColumnWidths.Phase, utf8.RuneCountInString(headers[1])),
		Progress: max(minSpecColumnWidths.Progress, utf8.RuneCountInString(headers[2])),
		Updated:  max(minSpecColumnWidths.Updated, utf8.RuneCountInString(headers[3])),
	}

	for _, row := range t.rows {
		if w := utf8.RuneCountInString(row.Name); w > widths.Name {
			widths.Name = w
		}
		if w := utf8.RuneCountInString(t.renderPhaseCellPlain(row.Phase)); w > widths.Phase {
			widths.Phase = w
		}
		if w := utf8.RuneCountInString(t.formatProgress(row)); w > widths.Progress {
			widths.Progress = w
		}
		if w := utf8.RuneCountInString(row.Updated); w > widths.Updated {
			widths.Updated = w
		}
	}

	return t.constrainWidths(widths)
}

// constrainWidths shrinks the Name column (the only free-form one) until the
// table fits the terminal.
func (t *SpecTable) constrainWidths(widths SpecColumnWidths) SpecColumnWidths {
	const separatorWidth = 6 // 3 separators * 2 spaces
	totalWidth := widths.Name + widths.Phase + widths.Progress + widths.Updated + separatorWidth

	if t.terminalWidth <= 0 || totalWidth <= t.terminalWidth {
		return widths
	}

	overflow := totalWidth - t.terminalWidth
	if widths.Name > minSpecColumnWidths.Name {
		reduction := min(overflow, widths.Name-minSpecColumnWidths.Name)
		widths.Name -= reduction
	}
	return widths
}

// formatProgress formats tracked-phase completion as "completed/total"
// with the approval count when any approvals exist.
func (t *SpecTable) formatProgress(row SpecRow) string {
	base := fmt.Sprintf("%d/%d", row.CompletedPhases, row.TotalPhases)
	if row.Approvals > 0 {
		return fmt.Sprintf("%s (%d✓)", base, row.Approvals)
	}
	return base
}

// renderPhaseCellPlain renders the phase cell without ANSI codes.
// Used for JSON output and width calculations.
func (t *SpecTable) renderPhaseCellPlain(phase constants.Phase) string {
	return phaseMarker(phase) + " " + phase.String()
}

// renderPhaseCellPadded renders the phase cell with color, padding by the
// visible width so ANSI codes do not break alignment.
func (t *SpecTable) renderPhaseCellPadded(phase constants.Phase, width int) string {
	plain := t.renderPhaseCellPlain(phase)
	plainWidth := utf8.RuneCountInString(plain)

	color := t.styles.PhaseColors[phase]
	style := lipgloss.NewStyle().Foreground(color)
	styled := phaseMarker(phase) + " " + style.Render(phase.String())

	if plainWidth >= width {
		return styled
	}
	return styled + strings.Repeat(" ", width-plainWidth)
}

// phaseMarker returns the icon for a phase in the listing table.
func phaseMarker(phase constants.Phase) string {
	switch phase {
	case constants.PhaseInit:
		return "○"
	case constants.PhaseComplete:
		return "✓"
	default:
		return "●"
	}
}
