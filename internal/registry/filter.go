package registry

import (
	"context"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gauthk/dataconsole/config"
)

// writeTools names the tools hidden from discovery in read-only mode.
// insert_database_record is the only tool that mutates state.
var writeTools = map[string]struct{}{
	"insert_database_record": {},
}

// ReadOnlyToolFilter hides write tools when the server runs read-only.
// Enable with DATACONSOLE_READ_ONLY=true; writes are visible by default.
type ReadOnlyToolFilter struct {
	readOnly bool
}

// NewReadOnlyToolFilterFromEnv constructs a filter using DATACONSOLE_READ_ONLY.
func NewReadOnlyToolFilterFromEnv() *ReadOnlyToolFilter {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(config.EnvReadOnly)))
	ro := v == "1" || v == "true" || v == "yes"
	return &ReadOnlyToolFilter{readOnly: ro}
}

// FilterTools implements server tool filtering semantics.
func (f *ReadOnlyToolFilter) FilterTools(ctx context.Context, tools []mcp.Tool) []mcp.Tool {
	if !f.readOnly {
		return tools
	}
	out := make([]mcp.Tool, 0, len(tools))
	for _, t := range tools {
		if _, hidden := writeTools[t.Name]; hidden {
			continue
		}
		out = append(out, t)
	}
	return out
}
