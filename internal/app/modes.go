package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/mark3labs/mcp-go/server"

	"svcctl/internal/api/tools"
	"svcctl/internal/inspect"
	"svcctl/internal/services"
	"svcctl/pkg/logging"
)

// For mocking in tests
var (
	clipboardWriteAll = clipboard.WriteAll
	runInteractive    = inspect.Run
	serveStdio        = func(s *server.MCPServer) error { return server.ServeStdio(s) }
)

// resolveAll resolves ids in order, or every manifest ID when ids is empty.
// It keeps going after a failure and returns all failures joined.
func (a *Application) resolveAll(ctx context.Context, ids []services.ID) error {
	if len(ids) == 0 {
		ids = a.services.Manifest.IDs()
	}

	var errs []error
	for _, id := range ids {
		svc, err := a.services.Registry.Get(ctx, id)
		switch {
		case err != nil:
			logging.Warn("CLI", "Resolving service %d failed: %v", id, err)
			errs = append(errs, err)
		case svc == nil:
			logging.Info("CLI", "Service %d failed earlier, skipping", id)
		default:
			logging.Debug("CLI", "Resolved service %d", id)
		}
	}
	return errors.Join(errs...)
}

// Run resolves ids, destroys everything and prints the recorded trace.
func (a *Application) Run(ctx context.Context, ids []services.ID) error {
	out := a.config.Output

	resolveErr := a.resolveAll(ctx, ids)
	destroyErr := a.teardown(ctx)
	if destroyErr != nil {
		logging.Error("CLI", destroyErr, "Teardown failed")
	}

	for _, e := range a.services.Trace.Events() {
		fmt.Fprintf(out, "%-8s %3d  %s\n", e.Phase, e.ID, e.Name)
	}
	for _, err := range a.services.Trace.Errors() {
		fmt.Fprintf(out, "destructor error: %v\n", err)
	}

	return errors.Join(resolveErr, destroyErr)
}

// InspectOptions controls the inspect mode.
type InspectOptions struct {
	Resolve     []services.ID
	Resolved    bool // resolve before rendering; empty Resolve means all
	Interactive bool
	Copy        bool
}

// Inspect renders the slot table, optionally after resolving services.
func (a *Application) Inspect(ctx context.Context, opts InspectOptions) error {
	var resolveErr error
	if opts.Resolved || len(opts.Resolve) > 0 {
		resolveErr = a.resolveAll(ctx, opts.Resolve)
	}

	if opts.Interactive {
		return runInteractive(a.services.Registry)
	}

	slots := a.services.Registry.Snapshot()
	fmt.Fprintln(a.config.Output, inspect.Render(slots))

	if opts.Copy {
		if err := clipboardWriteAll(inspect.RenderPlain(slots)); err != nil {
			logging.Error("CLI", err, "Failed to copy table")
			return fmt.Errorf("failed to copy table to clipboard: %w", err)
		}
		logging.Info("CLI", "Table copied to clipboard")
	}

	// Failures are visible in the table; report them only through the exit code.
	return resolveErr
}

// NewMCPServer builds the MCP server exposing the registry tools.
func (a *Application) NewMCPServer() *server.MCPServer {
	settings := a.config.Settings
	version := settings.MCP.Version
	if version == "" {
		version = a.config.Version
	}

	s := server.NewMCPServer(
		settings.MCP.Name,
		version,
		server.WithToolCapabilities(true),
	)
	tools.NewRegistryTools(a.services.Registry).Register(s)
	return s
}

// ServeMCP serves the registry tools on stdio until the client disconnects,
// then destroys every live service. A non-empty metricsAddr overrides the
// configured metrics endpoint.
func (a *Application) ServeMCP(ctx context.Context, metricsAddr string) error {
	settings := a.config.Settings
	if metricsAddr == "" && settings.Metrics.IsEnabled() {
		metricsAddr = settings.Metrics.Address
	}

	if metricsAddr != "" {
		status := NewStatusServer(metricsAddr, a.services.Prometheus, a.Ready)
		status.Start()
		defer func() {
			if err := status.Stop(); err != nil {
				logging.Warn("Status", "Failed to stop status server: %v", err)
			}
		}()
	}

	logging.Info("MCP", "Serving %d registry tools on stdio", len(tools.NewRegistryTools(a.services.Registry).GetTools()))
	serveErr := serveStdio(a.NewMCPServer())

	destroyErr := a.teardown(ctx)
	if destroyErr != nil {
		logging.Error("MCP", destroyErr, "Teardown failed")
	}
	return errors.Join(serveErr, destroyErr)
}
