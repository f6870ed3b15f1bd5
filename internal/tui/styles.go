// Package tui provides terminal output components for specflow.
//
// All colors use AdaptiveColor for light/dark terminal support. Status
// displays keep triple redundancy: icon + color + text. Call CheckNoColor()
// at the start of commands that print styled text to honor the NO_COLOR
// environment variable.
package tui

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/mrz1836/specflow/internal/constants"
)

//nolint:gochecknoglobals // package-level styling API
var (
	// ColorPrimary is blue, used for active phases and primary output.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for completed phases and approvals.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow, used for pending approvals and rejections.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for error output.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for pending phases and secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	// StyleBold applies bold formatting to text.
	StyleBold = lipgloss.NewStyle().Bold(true)

	// StyleDim applies dim formatting to text.
	StyleDim = lipgloss.NewStyle().Faint(true)
)

// PhaseColors returns the semantic color for each workflow phase.
func PhaseColors() map[constants.Phase]lipgloss.AdaptiveColor {
	return map[constants.Phase]lipgloss.AdaptiveColor{
		constants.PhaseInit:         {Light: "#585858", Dark: "#6C6C6C"}, // Gray
		constants.PhaseRequirements: {Light: "#0087AF", Dark: "#00D7FF"}, // Blue
		constants.PhaseDesign:       {Light: "#0087AF", Dark: "#00D7FF"}, // Blue
		constants.PhaseTasks:        {Light: "#0087AF", Dark: "#00D7FF"}, // Blue
		constants.PhaseComplete:     {Light: "#00875F", Dark: "#00FF87"}, // Green
	}
}

// PhaseStatusColors returns the semantic color for each per-phase status.
func PhaseStatusColors() map[constants.PhaseStatus]lipgloss.AdaptiveColor {
	return map[constants.PhaseStatus]lipgloss.AdaptiveColor{
		constants.PhaseStatusPending:    {Light: "#585858", Dark: "#6C6C6C"},
		constants.PhaseStatusInProgress: {Light: "#0087AF", Dark: "#00D7FF"},
		constants.PhaseStatusCompleted:  {Light: "#00875F", Dark: "#00FF87"},
	}
}

// PhaseIcon returns the icon for a workflow phase based on its position
// relative to the spec's current phase.
func PhaseIcon(status constants.PhaseStatus) string {
	icons := map[constants.PhaseStatus]string{
		constants.PhaseStatusPending:    "○", // waiting
		constants.PhaseStatusInProgress: "●", // active
		constants.PhaseStatusCompleted:  "✓", // done
	}
	if icon, ok := icons[status]; ok {
		return icon
	}
	return "?"
}

// DecisionIcon returns the icon for an approval decision.
func DecisionIcon(decision constants.ApprovalDecision) string {
	switch decision {
	case constants.DecisionApproved:
		return "✓"
	case constants.DecisionRejected:
		return "✗"
	default:
		return "?"
	}
}

// FormatPhaseWithIcon formats a phase status with its icon for triple
// redundancy (icon + color + text).
func FormatPhaseWithIcon(status constants.PhaseStatus, text string) string {
	return PhaseIcon(status) + " " + text
}

// OutputStyles holds common output styles.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
}

// NewOutputStyles creates common output styles using AdaptiveColor.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(ColorWarning),
		Info: lipgloss.NewStyle().
			Foreground(ColorPrimary),
		Dim: lipgloss.NewStyle().
			Foreground(ColorMuted),
	}
}

// TableStyles holds lipgloss styles for table rendering.
type TableStyles struct {
	Header      lipgloss.Style
	Dim         lipgloss.Style
	PhaseColors map[constants.Phase]lipgloss.AdaptiveColor
}

// NewTableStyles creates styles for table rendering.
func NewTableStyles() *TableStyles {
	return &TableStyles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}),
		Dim: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}),
		PhaseColors: PhaseColors(),
	}
}

// CheckNoColor respects the NO_COLOR environment variable.
// Call this at the start of commands that output styled text.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport returns true if the terminal supports colors.
// Returns false if NO_COLOR is set (any value, including empty) or TERM=dumb,
// following https://no-color.org/.
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return true
}

// padRight pads a string with spaces to the target rune width, truncating
// when the string is already wider.
func padRight(s string, width int) string {
	runeCount := utf8.RuneCountInString(s)
	if runeCount >= width {
		runes := []rune(s)
		return string(runes[:width])
	}
	return s + strings.Repeat(" ", width-runeCount)
}
