package mcperr

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Code defines a canonical MCP error code used across tools.
type Code string

const (
	// Validation & Input
	Validation Code = "VALIDATION"

	// Filesystem
	NotFound     Code = "NOT_FOUND"
	FileAccess   Code = "FILE_ACCESS"
	FileTooLarge Code = "FILE_TOO_LARGE"

	// Storage
	Storage Code = "STORAGE"

	// Resource & Limits
	BusyResource  Code = "BUSY_RESOURCE"
	Timeout       Code = "TIMEOUT"
	LimitExceeded Code = "LIMIT_EXCEEDED"

	// Fallback
	Internal Code = "INTERNAL"
)

// Entry documents a code's standard message, retry semantics, and next steps.
type Entry struct {
	Code      Code
	Message   string
	Retryable bool
	NextSteps []string
}

// catalog maps canonical codes to guidance. Messages can be overridden per error.
var catalog = map[Code]Entry{
	Validation: {Code: Validation, Message: "invalid inputs", Retryable: true, NextSteps: []string{"Correct the inputs per schema and retry", "See examples in tool description"}},

	NotFound:     {Code: NotFound, Message: "file not found", Retryable: true, NextSteps: []string{"Call list_files to see available files", "Check spelling and extension"}},
	FileAccess:   {Code: FileAccess, Message: "access outside data directory is forbidden", Retryable: false, NextSteps: []string{"Use a plain filename relative to the data directory"}},
	FileTooLarge: {Code: FileTooLarge, Message: "file exceeds configured size", Retryable: false, NextSteps: []string{"Use a smaller file or increase the limit"}},

	Storage: {Code: Storage, Message: "database operation failed", Retryable: true, NextSteps: []string{"Retry after a short delay", "Verify the database file is writable"}},

	BusyResource:  {Code: BusyResource, Message: "concurrent request limit reached", Retryable: true, NextSteps: []string{"Retry after a short delay"}},
	Timeout:       {Code: Timeout, Message: "operation exceeded configured time limit", Retryable: true, NextSteps: []string{"Retry, or narrow the request (smaller file, lower limit)"}},
	LimitExceeded: {Code: LimitExceeded, Message: "operation exceeded configured limits", Retryable: true, NextSteps: []string{"Use a smaller dataset or lower limit"}},

	Internal: {Code: Internal, Message: "unexpected internal error", Retryable: true, NextSteps: []string{"Retry; report if the error persists"}},
}

// normalize builds a standard error string including next steps for MCP clients that
// surface only a message string. Format: "CODE: message" followed by a guidance tail.
func normalize(code Code, msg string) string {
	base := strings.TrimSpace(msg)
	e, ok := catalog[code]
	if !ok {
		// Unknown code; preserve as-is
		if base == "" {
			return string(code)
		}
		return fmt.Sprintf("%s: %s", string(code), base)
	}
	if base == "" {
		base = e.Message
	}
	// Append compact nextSteps guidance inline to aid clients lacking structured fields.
	guidance := ""
	if len(e.NextSteps) > 0 {
		guidance = " | nextSteps: " + strings.Join(e.NextSteps, "; ")
	}
	return fmt.Sprintf("%s: %s%s", e.Code, base, guidance)
}

// New returns an MCP error result for a given code and optional message override.
func New(code Code, message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(normalize(code, message))
}

// Wrapf formats details and returns an MCP error result for the code.
func Wrapf(code Code, format string, args ...any) *mcp.CallToolResult {
	return mcp.NewToolResultError(normalize(code, fmt.Sprintf(format, args...)))
}

// Retryable reports whether the catalog marks a code as safe to retry.
func Retryable(code Code) bool {
	e, ok := catalog[code]
	return ok && e.Retryable
}
