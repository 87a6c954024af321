package registry

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/gauthk/dataconsole/internal/files"
	"github.com/gauthk/dataconsole/internal/runtime"
	"github.com/gauthk/dataconsole/internal/security"
	"github.com/gauthk/dataconsole/internal/store"
	"github.com/gauthk/dataconsole/internal/tabular"
	"github.com/gauthk/dataconsole/internal/weather"
)

// Deps carries the service layer every tool handler dispatches into.
type Deps struct {
	Security *security.Manager
	Weather  *weather.Service
	Files    *files.Service
	Tabular  *tabular.Service
	Store    *store.Store
	Limits   runtime.Limits
}

// RegisterTools declares the full tool catalogue on the server and records
// each definition in the registry for discovery.
func RegisterTools(s *server.MCPServer, reg *Registry, d Deps) {
	registerWeatherTools(s, reg, d)
	registerFileTools(s, reg, d)
	registerCSVTools(s, reg, d)
	registerDatabaseTools(s, reg, d)
}
