// Package constants provides centralized constant values used throughout specflow.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// File names used by specflow for state persistence.
const (
	// SpecFileName is the name of the JSON file that stores a specification's state.
	SpecFileName = "spec.json"

	// EventLogFileName is the name of the JSON-lines file that stores a
	// specification's workflow event history.
	EventLogFileName = "events.log"
)

// Directory names and paths used by specflow for organizing data.
const (
	// SpecflowHome is the hidden directory name where specflow stores all its data.
	// This directory is created in the user's home directory.
	SpecflowHome = ".specflow"

	// SpecsDir is the directory name where specification state is stored.
	SpecsDir = "specs"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// DefaultDocumentsDir is the directory, relative to the working directory,
	// where the document-rendering collaborator places phase documents.
	DefaultDocumentsDir = "specs"
)

// Log and configuration file names.
const (
	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.specflow/logs/specflow.log
	CLILogFileName = "specflow.log"

	// GlobalConfigName is the name of the global specflow configuration file.
	// This file is located in the specflow home directory.
	GlobalConfigName = "config.yaml"

	// ProjectConfigDir is the directory name for project-local configuration.
	ProjectConfigDir = ".specflow"
)

// Log rotation settings for the global CLI log file.
const (
	// LogMaxSizeMB is the maximum size in megabytes before log rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files to retain.
	LogMaxBackups = 3

	// LogMaxAgeDays is the maximum age in days of a rotated log file.
	LogMaxAgeDays = 30

	// LogCompress enables gzip compression of rotated log files.
	LogCompress = true
)

// Validation bounds for caller-supplied fields.
const (
	// MaxNameLength is the maximum byte length of a specification name.
	MaxNameLength = 64

	// MaxDescriptionLength is the maximum byte length of a specification description.
	MaxDescriptionLength = 500

	// MaxApproverLength is the maximum byte length of an approver identity.
	MaxApproverLength = 100

	// MaxCommentLength is the maximum byte length of an approval comment.
	MaxCommentLength = 1000
)

// Store tuning defaults. These can be overridden through configuration.
const (
	// DefaultFreshnessWindow is how long a cached record may be served for
	// reads before the store re-consults the durable file. A writer's own
	// subsequent reads are never stale: every save overwrites the cache entry.
	DefaultFreshnessWindow = 3 * time.Minute

	// DefaultLockTimeout is the maximum duration to wait for acquiring a
	// per-specification file lock.
	DefaultLockTimeout = 5 * time.Second

	// DefaultHistoryLimit is the number of event log entries returned by
	// history queries when the caller does not specify a limit.
	DefaultHistoryLimit = 20
)

// Schema version constants for data migration support.
const (
	// SpecSchemaVersion is the current version of the specification JSON schema.
	// This enables forward-compatible schema migrations: unknown optional
	// fields in newer records are preserved by loaders, missing required
	// fields are a corruption error.
	SpecSchemaVersion = 1
)
