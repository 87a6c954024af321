package config

import "time"

// Default runtime limits and guardrails for the Data Console MCP Server.
// These values are conservative and can be overridden via CLI flags or the
// environment variables below. They are referenced by internal/runtime.

const (
	// Concurrency
	DefaultMaxConcurrentRequests = 10

	// File and dataset bounds
	DefaultMaxFileBytes   = 2 * 1024 * 1024 // 2MB per file read
	DefaultMaxDatasetRows = 50_000
	DefaultPreviewRows    = 5 // First 5 matching rows in filter previews

	// Database query bounds
	DefaultQueryLimit = 10
	MaxQueryLimit     = 100
)

const (
	// Timeouts
	DefaultOperationTimeout      = 30 * time.Second
	DefaultAcquireRequestTimeout = 2 * time.Second
)

// Environment variable names honored at bootstrap.
const (
	EnvDataDir  = "DATACONSOLE_DATA_DIR"
	EnvDBPath   = "DATACONSOLE_DB_PATH"
	EnvReadOnly = "DATACONSOLE_READ_ONLY"
)

// Filesystem defaults used when neither flags nor environment provide values.
const (
	DefaultDataDir = "data"
	DefaultDBPath  = "data_console.db"
)
