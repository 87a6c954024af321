package registry

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gauthk/dataconsole/internal/files"
	"github.com/gauthk/dataconsole/internal/security"
	"github.com/gauthk/dataconsole/internal/store"
	"github.com/gauthk/dataconsole/internal/tabular"
	"github.com/gauthk/dataconsole/pkg/mcperr"
)

// errorResult classifies a file or tabular service failure into a canonical
// coded reply. Every failure crosses the gateway boundary as an IsError tool
// result; nothing propagates to the transport as a raw Go error.
func errorResult(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, security.ErrOutsideRoot):
		return mcperr.New(mcperr.FileAccess, "Access outside data directory is forbidden")
	case errors.Is(err, security.ErrNotFound):
		return mcperr.New(mcperr.NotFound, "File not found")
	case errors.Is(err, files.ErrTooLarge):
		return mcperr.New(mcperr.FileTooLarge, err.Error())
	case errors.Is(err, tabular.ErrTooManyRows):
		return mcperr.New(mcperr.LimitExceeded, err.Error())
	case errors.Is(err, tabular.ErrMalformed),
		errors.Is(err, tabular.ErrUnsupported),
		errors.Is(err, tabular.ErrColumnNotFound):
		return mcperr.New(mcperr.Validation, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return mcperr.New(mcperr.Timeout, "")
	}
	return mcperr.New(mcperr.Internal, err.Error())
}

// storeErrorResult classifies record-store failures. Residual errors (disk,
// corruption, busy database) surface under the STORAGE code rather than the
// internal bucket so the caller knows the backend, not the input, failed.
func storeErrorResult(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, store.ErrInvalidTable):
		return mcperr.New(mcperr.Validation, "Invalid table name")
	case errors.Is(err, store.ErrSchemaMismatch),
		errors.Is(err, store.ErrUnsupportedValue):
		return mcperr.New(mcperr.Validation, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return mcperr.New(mcperr.Timeout, "")
	}
	return mcperr.New(mcperr.Storage, err.Error())
}
