package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// Middleware enforces runtime limits for tool calls using the Controller.
// It bounds global concurrency, applies an operation timeout to each call,
// and logs every call under a fresh correlation id.
type Middleware struct {
	ctrl   *Controller
	logger zerolog.Logger
}

// NewMiddleware constructs a Middleware bound to the provided Controller.
func NewMiddleware(ctrl *Controller, logger zerolog.Logger) *Middleware {
	return &Middleware{ctrl: ctrl, logger: logger}
}

// ToolMiddleware implements mcp-go's tool handler middleware interface.
// It acquires a request slot, applies a timeout, and guarantees release.
func (m *Middleware) ToolMiddleware(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		callID := uuid.NewString()
		logger := m.logger.With().Str("call_id", callID).Str("tool", req.Params.Name).Logger()

		// Attempt to acquire request capacity with a bounded wait.
		acquireCtx := ctx
		if m.ctrl.limits.AcquireRequestTimeout > 0 {
			var cancel context.CancelFunc
			acquireCtx, cancel = context.WithTimeout(ctx, m.ctrl.limits.AcquireRequestTimeout)
			defer cancel()
		}

		if err := m.ctrl.AcquireRequest(acquireCtx); err != nil {
			logger.Warn().Msg("request capacity saturated")
			// Return a tool-level error so the client can self-correct/retry.
			msg := fmt.Sprintf("BUSY_RESOURCE: concurrent request limit reached (max=%d). Please retry shortly.", m.ctrl.limits.MaxConcurrentRequests)
			return mcp.NewToolResultError(msg), nil
		}
		defer m.ctrl.ReleaseRequest()

		callCtx := logger.WithContext(ctx)
		cancel := func() {}
		// Apply operation timeout to bound execution time.
		if m.ctrl.limits.OperationTimeout > 0 {
			callCtx, cancel = context.WithTimeout(callCtx, m.ctrl.limits.OperationTimeout)
		}
		defer cancel()

		logger.Info().Msg("tool call started")
		start := time.Now()

		// Delegate to the next handler.
		res, err := next(callCtx, req)

		// If the underlying handler surfaced a context deadline, prefer a tool-level timeout error.
		if err == context.DeadlineExceeded || (callCtx.Err() == context.DeadlineExceeded && err == nil && res == nil) {
			logger.Error().Dur("duration", time.Since(start)).Msg("tool call timed out")
			return mcp.NewToolResultError("TIMEOUT: operation exceeded configured time limit"), nil
		}

		evt := logger.Info().Dur("duration", time.Since(start))
		if err != nil {
			logger.Error().Dur("duration", time.Since(start)).Err(err).Msg("tool call failed")
			return res, err
		}
		if res != nil && res.IsError {
			evt = evt.Bool("is_error", true)
		}
		evt.Msg("tool call finished")

		return res, nil
	}
}
