// Package workflow provides the specification workflow state engine.
// This file implements the storage layer for specification state files,
// with atomic writes, file locking and a bounded-freshness read cache.
package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mrz1836/specflow/internal/clock"
	"github.com/mrz1836/specflow/internal/constants"
	"github.com/mrz1836/specflow/internal/ctxutil"
	"github.com/mrz1836/specflow/internal/domain"
	specerrors "github.com/mrz1836/specflow/internal/errors"
	"github.com/mrz1836/specflow/internal/flock"
)

// Directory and file permission constants.
const (
	dirPerm  = 0o750 // Secure directory permissions
	filePerm = 0o600 // Secure file permissions
)

// lockRetryInterval is the pause between file lock acquisition attempts.
const lockRetryInterval = 50 * time.Millisecond

// validNameRegex matches valid specification names (alphanumeric start,
// then alphanumeric, dash, underscore).
var validNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// Store defines the interface for specification persistence operations.
// The store is the single source of truth: nothing else may hold
// authoritative state longer than one in-flight operation.
type Store interface {
	// Create persists a new specification record.
	// Returns ErrSpecExists if a record with that name already exists.
	Create(ctx context.Context, rec *domain.SpecRecord) error

	// Get retrieves a specification by name. Returns ErrSpecNotFound if not
	// found and ErrCorruptState if the persisted form fails validation.
	// Cached entries may be served within the freshness window; every save
	// overwrites the cache so a writer's own reads are never stale.
	Get(ctx context.Context, name string) (*domain.SpecRecord, error)

	// Update persists changes to an existing record (atomic write).
	// Returns ErrSpecNotFound if the record doesn't exist.
	Update(ctx context.Context, rec *domain.SpecRecord) error

	// List returns all specifications ordered by creation time (oldest first).
	// Returns an empty slice if none exist.
	List(ctx context.Context) ([]*domain.SpecRecord, error)

	// Exists returns true if a specification with the given name exists.
	Exists(ctx context.Context, name string) (bool, error)
}

// cacheEntry is one in-memory copy of a persisted record.
type cacheEntry struct {
	record   *domain.SpecRecord
	loadedAt time.Time
}

// FileStore implements Store using the local filesystem.
// Records live at <baseDir>/specs/<name>/spec.json, guarded by a lock file
// for cross-process exclusion. Reads within the freshness window are served
// from an in-memory cache owned exclusively by the store.
type FileStore struct {
	baseDir     string // Usually ~/.specflow
	freshness   time.Duration
	lockTimeout time.Duration
	clk         clock.Clock

	cacheMu sync.RWMutex
	cache   map[string]cacheEntry
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithFreshnessWindow sets how long cached reads may be served before
// re-consulting the file. Zero disables caching entirely.
func WithFreshnessWindow(d time.Duration) FileStoreOption {
	return func(s *FileStore) {
		s.freshness = d
	}
}

// WithLockTimeout sets the maximum wait for acquiring a file lock.
func WithLockTimeout(d time.Duration) FileStoreOption {
	return func(s *FileStore) {
		s.lockTimeout = d
	}
}

// WithClock sets the clock used for cache freshness decisions.
// Primarily intended for tests.
func WithClock(c clock.Clock) FileStoreOption {
	return func(s *FileStore) {
		s.clk = c
	}
}

// NewFileStore creates a new FileStore rooted at the given base directory.
// If baseDir is empty, uses the default ~/.specflow directory.
func NewFileStore(baseDir string, opts ...FileStoreOption) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		baseDir = filepath.Join(home, constants.SpecflowHome)
	}
	s := &FileStore{
		baseDir:     baseDir,
		freshness:   constants.DefaultFreshnessWindow,
		lockTimeout: constants.DefaultLockTimeout,
		clk:         clock.RealClock{},
		cache:       make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create persists a new specification record.
func (s *FileStore) Create(ctx context.Context, rec *domain.SpecRecord) error {
	// Check for cancellation at entry
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if rec == nil {
		return fmt.Errorf("failed to create spec: record %w", specerrors.ErrEmptyValue)
	}
	if err := ValidateName(rec.Name); err != nil {
		return fmt.Errorf("failed to create spec: %w", err)
	}

	specDir := s.specDir(rec.Name)
	specFile := s.specFilePath(rec.Name)

	// Check if spec.json already exists (directory may exist with a stale lock file)
	if _, err := os.Stat(specFile); err == nil {
		return fmt.Errorf("failed to create spec '%s': %w", rec.Name, specerrors.ErrSpecExists)
	}

	if err := os.MkdirAll(specDir, dirPerm); err != nil {
		return fmt.Errorf("failed to create spec directory '%s': %v: %w", rec.Name, err, specerrors.ErrStorageFault)
	}

	// Set schema version before saving
	rec.SchemaVersion = constants.SpecSchemaVersion

	// Acquire lock for write operation
	lockFile, err := s.acquireLock(ctx, rec.Name)
	if err != nil {
		// Clean up directory on lock failure
		_ = os.RemoveAll(specDir)
		return fmt.Errorf("failed to create spec '%s': %w", rec.Name, err)
	}
	defer func() { _ = s.releaseLock(lockFile) }()

	// Re-check under the lock: a concurrent creator may have won the race
	// between the stat above and lock acquisition.
	if _, err := os.Stat(specFile); err == nil {
		return fmt.Errorf("failed to create spec '%s': %w", rec.Name, specerrors.ErrSpecExists)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		_ = os.RemoveAll(specDir)
		return fmt.Errorf("failed to create spec '%s': %w", rec.Name, err)
	}

	if err := atomicWrite(specFile, data); err != nil {
		_ = os.RemoveAll(specDir)
		return fmt.Errorf("failed to create spec '%s': %v: %w", rec.Name, err, specerrors.ErrStorageFault)
	}

	s.storeInCache(rec)
	return nil
}

// Get retrieves a specification by name.
func (s *FileStore) Get(ctx context.Context, name string) (*domain.SpecRecord, error) {
	// Check for cancellation at entry
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	if err := ValidateName(name); err != nil {
		return nil, fmt.Errorf("failed to read spec: %w", err)
	}

	// Serve a cached entry when still within the freshness window.
	if rec, ok := s.fromCache(name); ok {
		return rec, nil
	}

	specDir := s.specDir(name)
	if _, err := os.Stat(specDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read spec '%s': %w", name, specerrors.ErrSpecNotFound)
	}

	// Acquire lock for read operation
	lockFile, err := s.acquireLock(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec '%s': %w", name, err)
	}
	defer func() { _ = s.releaseLock(lockFile) }()

	specFile := s.specFilePath(name)
	data, err := os.ReadFile(specFile) //#nosec G304 -- path is validated and constructed from trusted base
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read spec '%s': %w", name, specerrors.ErrSpecNotFound)
		}
		return nil, fmt.Errorf("failed to read spec '%s': %v: %w", name, err, specerrors.ErrStorageFault)
	}

	var rec domain.SpecRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("spec '%s': invalid JSON (%v): %w", name, err, specerrors.ErrCorruptState)
	}

	// Structural validation: a partially populated record is never returned.
	if err := validateRecord(&rec); err != nil {
		return nil, fmt.Errorf("spec '%s': %w", name, err)
	}

	// Schema version tracking for forward compatibility. All versions up to
	// the current one (including 0 from pre-versioning) load as-is; records
	// written by a newer specflow are accepted field-compatible.

	s.storeInCache(&rec)
	return rec.Clone(), nil
}

// Update persists changes to an existing specification record.
func (s *FileStore) Update(ctx context.Context, rec *domain.SpecRecord) error {
	// Check for cancellation at entry
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if rec == nil {
		return fmt.Errorf("failed to update spec: record %w", specerrors.ErrEmptyValue)
	}
	if err := ValidateName(rec.Name); err != nil {
		return fmt.Errorf("failed to update spec: %w", err)
	}

	specFile := s.specFilePath(rec.Name)
	if _, err := os.Stat(specFile); os.IsNotExist(err) {
		return fmt.Errorf("failed to update spec '%s': %w", rec.Name, specerrors.ErrSpecNotFound)
	}

	// Acquire lock for write operation
	lockFile, err := s.acquireLock(ctx, rec.Name)
	if err != nil {
		return fmt.Errorf("failed to update spec '%s': %w", rec.Name, err)
	}
	defer func() { _ = s.releaseLock(lockFile) }()

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to update spec '%s': %w", rec.Name, err)
	}

	if err := atomicWrite(specFile, data); err != nil {
		return fmt.Errorf("failed to update spec '%s': %v: %w", rec.Name, err, specerrors.ErrStorageFault)
	}

	// Overwrite the cache entry immediately so the writer's own subsequent
	// reads observe the new value within this process.
	s.storeInCache(rec)
	return nil
}

// List returns all specifications ordered by creation time (oldest first).
func (s *FileStore) List(ctx context.Context) ([]*domain.SpecRecord, error) {
	// Check for cancellation at entry
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	specsDir := s.specsDir()
	if _, err := os.Stat(specsDir); os.IsNotExist(err) {
		return []*domain.SpecRecord{}, nil
	}

	entries, err := os.ReadDir(specsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list specs: %v: %w", err, specerrors.ErrStorageFault)
	}

	records := make([]*domain.SpecRecord, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if !validNameRegex.MatchString(entry.Name()) {
			continue
		}

		// Check for cancellation during iteration
		if err := ctxutil.Canceled(ctx); err != nil {
			return nil, err
		}

		rec, err := s.Get(ctx, entry.Name())
		if err != nil {
			// Skip directories without a loadable spec.json; corrupt records
			// surface individually on direct Get of that name.
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})

	return records, nil
}

// Exists returns true if a specification with the given name exists.
func (s *FileStore) Exists(ctx context.Context, name string) (bool, error) {
	// Check for cancellation at entry
	if err := ctxutil.Canceled(ctx); err != nil {
		return false, err
	}

	if err := ValidateName(name); err != nil {
		return false, fmt.Errorf("failed to check spec '%s': %w", name, err)
	}

	if _, err := os.Stat(s.specFilePath(name)); os.IsNotExist(err) {
		return false, nil
	}
	return true, nil
}

// fromCache returns a clone of the cached record if it is still fresh.
func (s *FileStore) fromCache(name string) (*domain.SpecRecord, bool) {
	if s.freshness <= 0 {
		return nil, false
	}
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()

	entry, ok := s.cache[name]
	if !ok {
		return nil, false
	}
	if s.clk.Now().Sub(entry.loadedAt) > s.freshness {
		return nil, false
	}
	return entry.record.Clone(), true
}

// storeInCache records a clone of the given record as the freshest known value.
func (s *FileStore) storeInCache(rec *domain.SpecRecord) {
	if s.freshness <= 0 {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.cache[rec.Name] = cacheEntry{record: rec.Clone(), loadedAt: s.clk.Now()}
}

// ValidateName checks if a specification name is a valid identifier.
// The pattern forbids path separators and relative-path characters so a
// name can never escape the store's directory layout.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("spec name cannot be empty: %w", specerrors.ErrInvalidName)
	}
	if len(name) > constants.MaxNameLength {
		return fmt.Errorf("spec name too long (max %d characters): %w", constants.MaxNameLength, specerrors.ErrInvalidName)
	}
	// Check for path traversal attempts before the pattern so the error
	// names the sharper cause. Both sentinels match via errors.Is.
	if strings.Contains(name, "..") || strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return fmt.Errorf("spec name contains path characters: %w: %w",
			specerrors.ErrPathTraversal, specerrors.ErrInvalidName)
	}
	if !validNameRegex.MatchString(name) {
		return fmt.Errorf("spec name contains invalid characters (use alphanumeric, dash, underscore): %w", specerrors.ErrInvalidName)
	}
	return nil
}

// validateRecord performs structural validation of a loaded record.
// Every failure names the field that failed so manual recovery is possible.
func validateRecord(rec *domain.SpecRecord) error {
	if rec.Name == "" {
		return fmt.Errorf("missing required field \"name\": %w", specerrors.ErrCorruptState)
	}
	if !rec.CurrentPhase.IsValid() {
		return fmt.Errorf("field \"current_phase\" has unknown value %q: %w", rec.CurrentPhase, specerrors.ErrCorruptState)
	}
	if rec.CreatedAt.IsZero() {
		return fmt.Errorf("missing required field \"created_at\": %w", specerrors.ErrCorruptState)
	}
	if rec.PhaseStatuses == nil {
		return fmt.Errorf("missing required field \"phase_statuses\": %w", specerrors.ErrCorruptState)
	}
	for _, p := range constants.TrackedPhases() {
		status, ok := rec.PhaseStatuses[p]
		if !ok {
			return fmt.Errorf("field \"phase_statuses\" missing entry for %q: %w", p, specerrors.ErrCorruptState)
		}
		if !status.IsValid() {
			return fmt.Errorf("field \"phase_statuses[%s]\" has unknown value %q: %w", p, status, specerrors.ErrCorruptState)
		}
	}
	for i, a := range rec.Approvals {
		if !a.Phase.IsValid() {
			return fmt.Errorf("field \"approvals[%d].phase\" has unknown value %q: %w", i, a.Phase, specerrors.ErrCorruptState)
		}
		if !a.Decision.IsValid() {
			return fmt.Errorf("field \"approvals[%d].decision\" has unknown value %q: %w", i, a.Decision, specerrors.ErrCorruptState)
		}
	}
	return nil
}

// Helper methods for path construction

// specsDir returns the path to the specifications directory.
func (s *FileStore) specsDir() string {
	return filepath.Join(s.baseDir, constants.SpecsDir)
}

// specDir returns the path to a specific specification's directory.
func (s *FileStore) specDir(name string) string {
	return filepath.Join(s.specsDir(), name)
}

// specFilePath returns the path to a specification's JSON file.
func (s *FileStore) specFilePath(name string) string {
	return filepath.Join(s.specDir(name), constants.SpecFileName)
}

// eventLogPath returns the path to a specification's event log file.
func (s *FileStore) eventLogPath(name string) string {
	return filepath.Join(s.specDir(name), constants.EventLogFileName)
}

// lockFilePath returns the path to a specification's lock file.
// The spec file and event log share one lock.
func (s *FileStore) lockFilePath(name string) string {
	return filepath.Join(s.specDir(name), constants.SpecFileName+".lock")
}

// acquireLock acquires an exclusive file lock for the specification.
// It respects context cancellation during the lock acquisition retry loop.
func (s *FileStore) acquireLock(ctx context.Context, name string) (*os.File, error) {
	lockPath := s.lockFilePath(name)

	// Ensure spec directory exists for lock file
	if err := os.MkdirAll(s.specDir(name), dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %v: %w", err, specerrors.ErrStorageFault)
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, filePerm) //#nosec G302,G304 -- lock file needs write access, path is constructed from validated name
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %v: %w", err, specerrors.ErrStorageFault)
	}

	// Try to acquire lock with timeout
	deadline := s.clk.Now().Add(s.lockTimeout)
	for {
		// Check for context cancellation
		select {
		case <-ctx.Done():
			_ = f.Close()
			return nil, ctx.Err()
		default:
		}

		if err := flock.Exclusive(f.Fd()); err == nil {
			return f, nil
		}

		if s.clk.Now().After(deadline) {
			_ = f.Close()
			return nil, fmt.Errorf("failed to acquire lock: %w", specerrors.ErrLockTimeout)
		}

		// Wait a bit before retrying
		time.Sleep(lockRetryInterval)
	}
}

// releaseLock releases a file lock.
func (s *FileStore) releaseLock(f *os.File) error {
	if f == nil {
		return nil
	}

	if err := flock.Unlock(f.Fd()); err != nil {
		// Still try to close the file
		_ = f.Close()
		return fmt.Errorf("failed to release lock: %w", err)
	}

	return f.Close()
}

// atomicWrite writes data to a file atomically using write-then-rename.
// The target is never left half-written: the temp file is synced to disk
// before the rename replaces the target in one step.
func atomicWrite(path string, data []byte) error {
	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm) //#nosec G304 -- path is constructed internally
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write data: %w", err)
	}

	// Sync to disk (ensure data is persisted before rename)
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
