// Package workflow provides the specification workflow state engine.
// This file implements the append-only event log kept alongside each
// specification's state file in JSON-lines format.
package workflow

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/mrz1836/specflow/internal/ctxutil"
	"github.com/mrz1836/specflow/internal/domain"
	specerrors "github.com/mrz1836/specflow/internal/errors"
)

// EventLog defines the interface for the append-only workflow history.
// The log exists for audit and status display only. SpecRecord is always
// the authority; current state is never reconstructed from events.
type EventLog interface {
	// Append adds one entry to the specification's history.
	// It never fails except on an underlying storage fault, which is
	// reported to the caller, not swallowed.
	Append(ctx context.Context, event *domain.Event) error

	// Tail returns up to limit entries for the specification, oldest first
	// (most recent last). A non-positive limit returns all entries.
	Tail(ctx context.Context, name string, limit int) ([]domain.Event, error)
}

// FileEventLog implements EventLog as a JSON-lines file next to the
// specification's state file. It shares the store's per-spec lock file so
// log appends and state writes never interleave across processes.
type FileEventLog struct {
	store  *FileStore
	logger zerolog.Logger
}

// NewFileEventLog creates an event log backed by the given store's layout.
func NewFileEventLog(store *FileStore, logger zerolog.Logger) *FileEventLog {
	return &FileEventLog{store: store, logger: logger}
}

// Append adds one entry to the specification's history file.
func (l *FileEventLog) Append(ctx context.Context, event *domain.Event) error {
	// Check for cancellation at entry
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if event == nil {
		return fmt.Errorf("failed to append event: event %w", specerrors.ErrEmptyValue)
	}
	if err := ValidateName(event.SpecName); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	// The spec must exist; the event log never outlives its record.
	if _, err := os.Stat(l.store.specFilePath(event.SpecName)); os.IsNotExist(err) {
		return fmt.Errorf("failed to append event: spec '%s' %w", event.SpecName, specerrors.ErrSpecNotFound)
	}

	entry, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to append event for spec '%s': %w", event.SpecName, err)
	}
	entry = append(entry, '\n')

	// Acquire the shared per-spec lock to prevent concurrent log writes
	lockFile, err := l.store.acquireLock(ctx, event.SpecName)
	if err != nil {
		return fmt.Errorf("failed to append event for spec '%s': %w", event.SpecName, err)
	}
	defer func() { _ = l.store.releaseLock(lockFile) }()

	logPath := l.store.eventLogPath(event.SpecName)
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm) //#nosec G304 -- path is constructed internally
	if err != nil {
		return fmt.Errorf("failed to append event for spec '%s': %v: %w", event.SpecName, err, specerrors.ErrStorageFault)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(entry); err != nil {
		return fmt.Errorf("failed to append event for spec '%s': %v: %w", event.SpecName, err, specerrors.ErrStorageFault)
	}

	// Sync to disk
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync event log for spec '%s': %v: %w", event.SpecName, err, specerrors.ErrStorageFault)
	}

	return nil
}

// Tail returns up to limit entries for the specification, most recent last.
func (l *FileEventLog) Tail(ctx context.Context, name string, limit int) ([]domain.Event, error) {
	// Check for cancellation at entry
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	if err := ValidateName(name); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	if _, err := os.Stat(l.store.specFilePath(name)); os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read events: spec '%s' %w", name, specerrors.ErrSpecNotFound)
	}

	logPath := l.store.eventLogPath(name)
	data, err := os.ReadFile(logPath) //#nosec G304 -- path is constructed internally
	if err != nil {
		if os.IsNotExist(err) {
			// A spec with no recorded events has an empty history.
			return []domain.Event{}, nil
		}
		return nil, fmt.Errorf("failed to read events for spec '%s': %v: %w", name, err, specerrors.ErrStorageFault)
	}

	events := make([]domain.Event, 0, 64)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var ev domain.Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			// The log is display-only; one bad line must not make history
			// unreadable. Report it and continue.
			l.logger.Warn().
				Str("spec", name).
				Int("line", line).
				Err(err).
				Msg("skipping malformed event log entry")
			continue
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan events for spec '%s': %v: %w", name, err, specerrors.ErrStorageFault)
	}

	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	return events, nil
}
