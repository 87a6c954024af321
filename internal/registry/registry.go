// Package registry declares the data-console tool catalogue and dispatches
// tool calls into the service layer.
package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tmc/langchaingo/llms"
)

// Registry records every tool definition registered on the server so the
// catalogue can be inspected independently of the transport.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]mcp.Tool
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{tools: map[string]mcp.Tool{}}
}

// Register stores a tool definition for discovery.
func (r *Registry) Register(tool mcp.Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name] = tool
}

// Tools lists the registered definitions sorted by name so discovery output
// is stable across calls.
func (r *Registry) Tools(ctx context.Context) ([]mcp.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]mcp.Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, tool)
	}
	sort.Slice(tools, func(i, j int) bool {
		return tools[i].Name < tools[j].Name
	})
	return tools, nil
}

// ModelContextSize reports the context window of the client model, used at
// bootstrap to log how much room tool replies have.
func (r *Registry) ModelContextSize(modelName string) int {
	return llms.GetModelContextSize(modelName)
}
