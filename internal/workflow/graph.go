// Package workflow provides the specification workflow state engine.
//
// This file implements the phase graph: the static table of legal phase
// transitions and approval gates. The graph is pure lookup with no state,
// so it is safe to share across all concurrent callers without
// synchronization.
//
// Import rules:
//   - CAN import: internal/constants, internal/domain, internal/errors, std lib
//   - MUST NOT import: internal/config, internal/cli, internal/tui
package workflow

import "github.com/mrz1836/specflow/internal/constants"

// phaseGraph defines all allowed phase transitions in the workflow lifecycle.
// Format: from_phase -> []to_phases
//
// The workflow follows this strictly forward, single-step flow:
//
//	Init → Requirements
//	Requirements → Design
//	Design → Tasks
//	Tasks → Complete
//	Complete → (terminal)
//
// Transitions never skip phases and never move backward, which keeps the
// reachability invariant on CurrentPhase trivially checkable.
//
//nolint:gochecknoglobals // Read-only lookup table
var phaseGraph = map[constants.Phase][]constants.Phase{
	constants.PhaseInit:         {constants.PhaseRequirements},
	constants.PhaseRequirements: {constants.PhaseDesign},
	constants.PhaseDesign:       {constants.PhaseTasks},
	constants.PhaseTasks:        {constants.PhaseComplete},
	constants.PhaseComplete:     {},
}

// approvalGated marks the phases whose entry requires a prior approved
// decision. Init is the starting phase and Complete only closes out work
// already approved at Tasks entry, so neither is gated.
//
//nolint:gochecknoglobals // Read-only lookup table
var approvalGated = map[constants.Phase]bool{
	constants.PhaseRequirements: true,
	constants.PhaseDesign:       true,
	constants.PhaseTasks:        true,
}

// AllowedNext returns the set of phases reachable from the given phase in a
// single transition. Returns an empty slice for the terminal phase and nil
// for unknown phases. The returned slice is a copy.
func AllowedNext(from constants.Phase) []constants.Phase {
	targets, exists := phaseGraph[from]
	if !exists {
		return nil
	}
	result := make([]constants.Phase, len(targets))
	copy(result, targets)
	return result
}

// IsValidTransition checks if a single-step transition between two phases is
// an edge in the phase graph.
func IsValidTransition(from, to constants.Phase) bool {
	for _, target := range phaseGraph[from] {
		if target == to {
			return true
		}
	}
	return false
}

// RequiresApproval reports whether entering the given phase requires an
// approved decision recorded beforehand.
func RequiresApproval(phase constants.Phase) bool {
	return approvalGated[phase]
}

// IsTerminalPhase reports whether no transitions leave the given phase.
func IsTerminalPhase(phase constants.Phase) bool {
	targets, exists := phaseGraph[phase]
	return exists && len(targets) == 0
}

// NextPhase returns the single successor of the given phase. The second
// return value is false for the terminal phase and for unknown phases.
// The graph is a straight line, so every non-terminal phase has exactly
// one successor.
func NextPhase(from constants.Phase) (constants.Phase, bool) {
	targets, exists := phaseGraph[from]
	if !exists || len(targets) == 0 {
		return "", false
	}
	return targets[0], true
}
