package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/gauthk/dataconsole/config"
	"github.com/gauthk/dataconsole/internal/files"
	"github.com/gauthk/dataconsole/internal/registry"
	"github.com/gauthk/dataconsole/internal/runtime"
	"github.com/gauthk/dataconsole/internal/security"
	"github.com/gauthk/dataconsole/internal/store"
	"github.com/gauthk/dataconsole/internal/tabular"
	"github.com/gauthk/dataconsole/internal/telemetry"
	"github.com/gauthk/dataconsole/internal/weather"
	"github.com/gauthk/dataconsole/pkg/version"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	var (
		useStdio        bool
		dataDir         string
		dbPath          string
		shutdownTimeout time.Duration
	)

	flag.BoolVar(&useStdio, "stdio", false, "Run server over stdio transport")
	flag.StringVar(&dataDir, "data-dir", envOr(config.EnvDataDir, config.DefaultDataDir), "Directory all file operations are confined to")
	flag.StringVar(&dbPath, "db", envOr(config.EnvDBPath, config.DefaultDBPath), "Path to the SQLite log database")
	flag.DurationVar(&shutdownTimeout, "shutdown-timeout", 5*time.Second, "Graceful shutdown timeout")
	flag.Parse()

	// All logging goes to stderr; stdout belongs to the stdio transport.
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "dataconsole-server").Logger()
	ctx := logger.WithContext(context.Background())

	// Security: canonicalize the data root on startup (fail-safe on error).
	secMgr, err := security.NewManager(dataDir)
	if err != nil {
		logger.Error().Err(err).Str("data_dir", dataDir).Msg("security: failed to initialize data root")
		fmt.Fprintln(os.Stderr, "invalid data directory; create it or set", config.EnvDataDir)
		os.Exit(1)
	}
	logger.Info().Str("data_root", secMgr.Root()).Msg("security data root configured")

	st, err := store.Open(ctx, dbPath)
	if err != nil {
		logger.Error().Err(err).Str("db", dbPath).Msg("store: failed to open database")
		fmt.Fprintln(os.Stderr, "cannot open log database; check", config.EnvDBPath)
		os.Exit(1)
	}
	if err := st.EnsureSchema(ctx); err != nil {
		logger.Error().Err(err).Msg("store: failed to ensure schema")
		_ = st.Close()
		os.Exit(1)
	}

	limits := runtime.NewLimits(config.DefaultMaxConcurrentRequests)
	runtimeController := runtime.NewController(limits)
	runtimeMW := runtime.NewMiddleware(runtimeController, logger)

	toolRegistry := registry.New()
	readOnlyFilter := registry.NewReadOnlyToolFilterFromEnv()

	srv := server.NewMCPServer(
		"Data Console MCP Server",
		version.Version(),
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithHooks(telemetry.ServerHooks(logger)),
		server.WithToolHandlerMiddleware(runtimeMW.ToolMiddleware),
		server.WithToolFilter(func(ctx context.Context, tools []mcp.Tool) []mcp.Tool { return readOnlyFilter.FilterTools(ctx, tools) }),
	)

	deps := registry.Deps{
		Security: secMgr,
		Weather:  weather.NewService(),
		Files:    files.NewService(secMgr, limits.MaxFileBytes),
		Tabular:  tabular.NewService(limits.MaxDatasetRows, limits.PreviewRows),
		Store:    st,
		Limits:   limits,
	}
	registry.RegisterTools(srv, toolRegistry, deps)

	toolContextSize := toolRegistry.ModelContextSize("gpt-4o")

	logger.Info().
		Ctx(ctx).
		Str("version", version.Version()).
		Int("max_concurrent_requests", limits.MaxConcurrentRequests).
		Int64("max_file_bytes", limits.MaxFileBytes).
		Str("db", dbPath).
		Int("model_context_size", toolContextSize).
		Bool("stdio", useStdio).
		Msg("server bootstrap configured")

	if useStdio {
		serveErr := server.ServeStdio(srv)
		closeStore(st, shutdownTimeout, logger)
		if serveErr != nil {
			// Use stderr for transport errors so clients don't misinterpret output
			fmt.Fprintf(os.Stderr, "Server error: %v\n", serveErr)
			os.Exit(1)
		}
		return
	}

	closeStore(st, shutdownTimeout, logger)
	// If no transport flags provided, print usage and exit non-zero
	fmt.Fprintln(os.Stderr, "no transport selected; use --stdio to run over stdio")
	os.Exit(2)
}

// closeStore bounds store shutdown so a wedged database cannot hang exit.
func closeStore(st *store.Store, timeout time.Duration, logger zerolog.Logger) {
	done := make(chan error, 1)
	go func() { done <- st.Close() }()
	select {
	case err := <-done:
		if err != nil {
			logger.Error().Err(err).Msg("store close failed")
		}
	case <-time.After(timeout):
		logger.Error().Dur("timeout", timeout).Msg("store close timed out")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
