package tui

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mrz1836/specflow/internal/constants"
	"github.com/mrz1836/specflow/internal/domain"
)

// RenderStatus writes a human-readable status view for a spec: phase
// checklist, recorded approvals, and tracked document references.
func RenderStatus(w io.Writer, record *domain.SpecRecord) error {
	styles := NewOutputStyles()
	phaseColors := PhaseStatusColors()

	header := StyleBold.Render(record.Name)
	if record.Description != "" {
		header += " " + styles.Dim.Render("— "+record.Description)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	currentColor := PhaseColors()[record.CurrentPhase]
	currentStyle := lipgloss.NewStyle().Foreground(currentColor).Bold(true)
	if _, err := fmt.Fprintf(w, "Phase: %s\n\n", currentStyle.Render(record.CurrentPhase.String())); err != nil {
		return err
	}

	for _, phase := range constants.TrackedPhases() {
		status := record.StatusOf(phase)
		style := lipgloss.NewStyle().Foreground(phaseColors[status])
		line := "  " + FormatPhaseWithIcon(status, phase.String())
		suffix := ""
		if record.HasApproval(phase) {
			suffix = styles.Success.Render(" approved")
		}
		if _, err := fmt.Fprintln(w, style.Render(line)+suffix); err != nil {
			return err
		}
	}

	if len(record.Approvals) > 0 {
		if _, err := fmt.Fprintln(w, "\nApprovals:"); err != nil {
			return err
		}
		for _, approval := range record.Approvals {
			line := fmt.Sprintf("  %s %s %s by %s (%s)",
				DecisionIcon(approval.Decision),
				approval.Phase,
				approval.Decision,
				approval.Approver,
				approval.RecordedAt.Format(time.RFC3339))
			if approval.Comment != "" {
				line += styles.Dim.Render(" — " + approval.Comment)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}

	if len(record.FileRefs) > 0 {
		if _, err := fmt.Fprintln(w, "\nDocuments:"); err != nil {
			return err
		}
		names := make([]string, 0, len(record.FileRefs))
		for name := range record.FileRefs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			ref := record.FileRefs[name]
			marker := "✓"
			detail := fmt.Sprintf("%d bytes, modified %s", ref.Size, ref.LastModified.Format(time.RFC3339))
			if !ref.Exists {
				marker = "✗"
				detail = "missing"
			}
			line := fmt.Sprintf("  %s %s %s", marker, padRight(name, 14), styles.Dim.Render(ref.Path+" ("+detail+")"))
			if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
				return err
			}
		}
	}

	return nil
}
