// Package workflow provides the specification workflow state engine.
//
// This file implements the Engine, which orchestrates transition validation,
// approval recording and progress marking, and delegates persistence to the
// Store. The engine never caches records itself: every read goes through the
// store, which owns the only cache.
//
// Concurrency contract: all mutating operations on the same specification
// name are serialized by a per-name mutex; operations on different names
// proceed fully in parallel. No operation acquires a second name's lock
// while holding one, so no cross-name deadlock is possible.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/specflow/internal/clock"
	"github.com/mrz1836/specflow/internal/constants"
	"github.com/mrz1836/specflow/internal/ctxutil"
	"github.com/mrz1836/specflow/internal/domain"
	specerrors "github.com/mrz1836/specflow/internal/errors"
	"github.com/mrz1836/specflow/internal/logging"
)

// Engine owns a specification's phase state: it validates transitions,
// records approvals, and persists every mutation through the store.
type Engine struct {
	store  Store
	events EventLog
	locks  *nameLocks
	clk    clock.Clock
	logger zerolog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEngineClock sets the clock used for record timestamps.
// Primarily intended for tests.
func WithEngineClock(c clock.Clock) EngineOption {
	return func(e *Engine) {
		e.clk = c
	}
}

// NewEngine creates a workflow engine with the given dependencies.
// The store is used for record persistence and the event log for the
// append-only action history.
func NewEngine(store Store, events EventLog, logger zerolog.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		store:  store,
		events: events,
		locks:  newNameLocks(),
		clk:    clock.RealClock{},
		logger: logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialize creates a new specification record in the init phase with all
// tracked phase statuses pending and an empty approval history.
// Returns ErrSpecExists if the name is already present, ErrInvalidName if
// the name fails the identifier pattern or length bound, and
// ErrInvalidDescription if the description exceeds its bound.
func (e *Engine) Initialize(ctx context.Context, name, description string) (*domain.SpecRecord, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if len(description) > constants.MaxDescriptionLength {
		return nil, fmt.Errorf("description too long (max %d characters): %w",
			constants.MaxDescriptionLength, specerrors.ErrInvalidDescription)
	}

	unlock := e.locks.Lock(name)
	defer unlock()

	rec := domain.NewSpecRecord(name, description, e.clk.Now().UTC())
	if err := e.store.Create(ctx, rec); err != nil {
		return nil, err
	}

	e.appendEvent(ctx, rec, domain.ActionInitialized, nil)

	e.logger.Info().
		Str("spec", name).
		Str("phase", rec.CurrentPhase.String()).
		Str("description", logging.SafeValue(description)).
		Msg("specification initialized")

	return rec, nil
}

// RequestTransition moves the specification into the target phase.
//
// Fails with ErrSpecNotFound if no record exists, ErrIllegalTransition if
// the target is not an edge from the current phase, and ErrApprovalRequired
// if the target phase is approval-gated and no approved decision for it has
// been recorded. Requesting the current phase as the target is a no-op
// success so callers can safely retry an ambiguous-outcome request.
func (e *Engine) RequestTransition(ctx context.Context, name string, target constants.Phase) (*domain.SpecRecord, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if !target.IsValid() {
		return nil, fmt.Errorf("unknown phase %q: %w", target, specerrors.ErrInvalidPhase)
	}

	unlock := e.locks.Lock(name)
	defer unlock()

	rec, err := e.loadRecord(ctx, name)
	if err != nil {
		return nil, err
	}

	from := rec.CurrentPhase

	// Idempotent retry: a transition to the already-current phase is a
	// success with no state change, never a double advance.
	if target == from {
		e.logger.Debug().
			Str("spec", name).
			Str("phase", from.String()).
			Msg("transition to current phase is a no-op")
		return rec, nil
	}

	if !IsValidTransition(from, target) {
		return nil, fmt.Errorf("spec '%s' cannot move from %s to %s: %w",
			name, from, target, specerrors.ErrIllegalTransition)
	}

	if RequiresApproval(target) && !rec.HasApproval(target) {
		return nil, fmt.Errorf("spec '%s' needs an approved decision before entering %s: %w",
			name, target, specerrors.ErrApprovalRequired)
	}

	rec.CurrentPhase = target
	switch {
	case target.IsTracked():
		rec.PhaseStatuses[target] = constants.PhaseStatusInProgress
	case target == constants.PhaseComplete:
		// The terminal phase carries no status slot of its own; entering it
		// finalizes the tasks phase.
		rec.PhaseStatuses[constants.PhaseTasks] = constants.PhaseStatusCompleted
	}
	rec.LastModified = e.clk.Now().UTC()

	if err := e.store.Update(ctx, rec); err != nil {
		return nil, err
	}

	e.appendEvent(ctx, rec, domain.ActionTransitioned, map[string]string{
		"from": from.String(),
	})

	e.logger.Info().
		Str("spec", name).
		Str("from", from.String()).
		Str("to", target.String()).
		Msg("phase transition committed")

	return rec, nil
}

// RecordApproval appends an immutable reviewer decision for the phase the
// specification would next transition into.
//
// Fails with ErrSpecNotFound if no record exists and ErrInvalidPhase if the
// named phase is not currently pending approval (not the next phase, not
// approval-gated, or the record is already past it). A rejected decision
// records intent only: phase status and current phase are left unchanged,
// and it does not block a later approved decision.
func (e *Engine) RecordApproval(ctx context.Context, name string, phase constants.Phase, approver string, decision constants.ApprovalDecision, comment string) (*domain.ApprovalRecord, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	if approver == "" {
		return nil, fmt.Errorf("approver %w", specerrors.ErrEmptyValue)
	}
	if len(approver) > constants.MaxApproverLength {
		return nil, fmt.Errorf("approver too long (max %d characters): %w",
			constants.MaxApproverLength, specerrors.ErrValueOutOfRange)
	}
	if len(comment) > constants.MaxCommentLength {
		return nil, fmt.Errorf("comment too long (max %d characters): %w",
			constants.MaxCommentLength, specerrors.ErrValueOutOfRange)
	}
	if !decision.IsValid() {
		return nil, fmt.Errorf("unknown decision %q: %w", decision, specerrors.ErrInvalidDecision)
	}
	if !phase.IsValid() {
		return nil, fmt.Errorf("unknown phase %q: %w", phase, specerrors.ErrInvalidPhase)
	}

	unlock := e.locks.Lock(name)
	defer unlock()

	rec, err := e.loadRecord(ctx, name)
	if err != nil {
		return nil, err
	}

	next, ok := NextPhase(rec.CurrentPhase)
	if !ok {
		return nil, fmt.Errorf("spec '%s' is complete, nothing is pending approval: %w",
			name, specerrors.ErrInvalidPhase)
	}
	if phase != next || !RequiresApproval(phase) {
		return nil, fmt.Errorf("spec '%s' is pending approval for %s, not %s: %w",
			name, next, phase, specerrors.ErrInvalidPhase)
	}

	approval := domain.ApprovalRecord{
		Phase:      phase,
		Approver:   approver,
		Decision:   decision,
		Comment:    comment,
		RecordedAt: e.clk.Now().UTC(),
	}
	rec.Approvals = append(rec.Approvals, approval)
	rec.LastModified = approval.RecordedAt

	if err := e.store.Update(ctx, rec); err != nil {
		return nil, err
	}

	e.appendEvent(ctx, rec, domain.ActionApprovalRecorded, map[string]string{
		"phase":    phase.String(),
		"approver": approver,
		"decision": decision.String(),
	})

	e.logger.Info().
		Str("spec", name).
		Str("phase", phase.String()).
		Str("approver", logging.SafeValue(approver)).
		Str("decision", decision.String()).
		Msg("approval recorded")

	return &approval, nil
}

// MarkPhaseProgress updates the current phase's status to completed, or back
// to in_progress when completed is false. This lets a status reporter
// reflect partial completion within a phase before the formal transition.
// Fails with ErrInvalidPhase if the phase is not the record's current phase
// or carries no status slot.
func (e *Engine) MarkPhaseProgress(ctx context.Context, name string, phase constants.Phase, completed bool) (*domain.SpecRecord, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if !phase.IsValid() {
		return nil, fmt.Errorf("unknown phase %q: %w", phase, specerrors.ErrInvalidPhase)
	}

	unlock := e.locks.Lock(name)
	defer unlock()

	rec, err := e.loadRecord(ctx, name)
	if err != nil {
		return nil, err
	}

	if phase != rec.CurrentPhase {
		return nil, fmt.Errorf("spec '%s' is in %s, cannot mark progress for %s: %w",
			name, rec.CurrentPhase, phase, specerrors.ErrInvalidPhase)
	}
	if !phase.IsTracked() {
		return nil, fmt.Errorf("phase %s carries no progress status: %w",
			phase, specerrors.ErrInvalidPhase)
	}

	status := constants.PhaseStatusInProgress
	if completed {
		// A phase only completes after it became in_progress, which happened
		// when the transition entered it; a pending current phase means the
		// record was tampered with outside the engine.
		if rec.StatusOf(phase) == constants.PhaseStatusPending {
			return nil, fmt.Errorf("phase %s was never entered: %w", phase, specerrors.ErrInvalidPhase)
		}
		status = constants.PhaseStatusCompleted
	}

	rec.PhaseStatuses[phase] = status
	rec.LastModified = e.clk.Now().UTC()

	if err := e.store.Update(ctx, rec); err != nil {
		return nil, err
	}

	e.appendEvent(ctx, rec, domain.ActionProgressMarked, map[string]string{
		"phase":  phase.String(),
		"status": status.String(),
	})

	return rec, nil
}

// UpdateFileRefs replaces the record's document metadata with refs supplied
// by the file collaborator. Logical document names must be one of the
// tracked phase names (requirements, design, tasks).
func (e *Engine) UpdateFileRefs(ctx context.Context, name string, refs map[string]domain.FileRef) (*domain.SpecRecord, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	for doc := range refs {
		if !constants.Phase(doc).IsTracked() {
			return nil, fmt.Errorf("document %q: %w", doc, specerrors.ErrUnknownDocument)
		}
	}

	unlock := e.locks.Lock(name)
	defer unlock()

	rec, err := e.loadRecord(ctx, name)
	if err != nil {
		return nil, err
	}

	if rec.FileRefs == nil {
		rec.FileRefs = make(map[string]domain.FileRef, len(refs))
	}
	for doc, ref := range refs {
		rec.FileRefs[doc] = ref
	}
	rec.LastModified = e.clk.Now().UTC()

	if err := e.store.Update(ctx, rec); err != nil {
		return nil, err
	}

	e.appendEvent(ctx, rec, domain.ActionDocumentsRefreshed, map[string]string{
		"documents": fmt.Sprintf("%d", len(refs)),
	})

	return rec, nil
}

// GetStatus returns the store's current authoritative value for the
// specification. The engine holds no private copy: immediately after a
// mutating operation returns, this observes the updated value.
func (e *Engine) GetStatus(ctx context.Context, name string) (*domain.SpecRecord, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	return e.loadRecord(ctx, name)
}

// List returns all specifications ordered by creation time.
func (e *Engine) List(ctx context.Context) ([]*domain.SpecRecord, error) {
	return e.store.List(ctx)
}

// History returns up to limit event log entries for the specification,
// most recent last.
func (e *Engine) History(ctx context.Context, name string, limit int) ([]domain.Event, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	return e.events.Tail(ctx, name, limit)
}

// loadRecord reads the record from the store with one bounded retry for
// transient storage faults. Corrupt state is never retried: rereading the
// same bytes reproduces the same failure.
func (e *Engine) loadRecord(ctx context.Context, name string) (*domain.SpecRecord, error) {
	rec, err := e.store.Get(ctx, name)
	if err != nil && errors.Is(err, specerrors.ErrStorageFault) {
		e.logger.Warn().
			Str("spec", name).
			Err(err).
			Msg("storage fault on read, retrying once")
		rec, err = e.store.Get(ctx, name)
	}
	return rec, err
}

// appendEvent records a workflow action in the audit log. The record is
// already persisted when this runs; an audit append failure is reported in
// the log but does not fail the committed operation, since events are never
// used to reconstruct state.
func (e *Engine) appendEvent(ctx context.Context, rec *domain.SpecRecord, action domain.EventAction, detail map[string]string) {
	event := &domain.Event{
		ID:        uuid.NewString(),
		Timestamp: e.clk.Now().UTC(),
		SpecName:  rec.Name,
		Phase:     rec.CurrentPhase,
		Action:    action,
		Detail:    detail,
	}
	if err := e.events.Append(ctx, event); err != nil {
		e.logger.Error().
			Str("spec", rec.Name).
			Str("action", string(action)).
			Interface("detail", logging.SafeDetail(detail)).
			Err(err).
			Msg("failed to append workflow event")
	}
}
