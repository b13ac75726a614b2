package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpschema "github.com/viant/mcp-protocol/schema"
	mcpserver "github.com/viant/mcp/server"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/polypulse/config"
	"github.com/guttosm/polypulse/internal/app"
	"github.com/guttosm/polypulse/internal/bridge"
	"github.com/guttosm/polypulse/internal/logger"
)

// buildServer configures the HTTP server for the aggregate data service.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - addr (string): The host:port pair the server listens on.
//
// Returns:
//   - *http.Server: The configured HTTP server instance, not yet listening.
func buildServer(router http.Handler, addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// runAPI starts the aggregate data service and blocks until it exits.
//
// Two goroutines run under an errgroup: one serves HTTP, the other waits for
// an OS interrupt signal (SIGINT, SIGTERM) or a serve failure and then shuts
// the server down with a 10s grace period.
//
// Parameters:
//   - ctx (context.Context): Base context for the server lifecycle.
//   - cfg (*config.Config): Loaded application configuration.
//   - addr (string): The host:port pair to listen on.
//
// Returns:
//   - error: The first failure from serving or shutdown, or nil on a clean exit.
func runAPI(ctx context.Context, cfg *config.Config, addr string) error {
	router, cleanup, err := app.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	server := buildServer(router, addr)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.L().Info().Str("addr", addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case <-quit:
			logger.L().Info().Msg("shutting down server")
		case <-gctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// runBridge serves the agent tool bridge over stdio and blocks until the
// transport closes. All logging goes to stderr; stdout carries the JSON-RPC
// frames.
func runBridge(ctx context.Context, cfg *config.Config) error {
	handler := bridge.NewHandler(bridge.NewService(cfg.ServiceURL()))

	srv, err := mcpserver.New(
		mcpserver.WithNewHandler(bridge.NewHandlerFactory(handler)),
		mcpserver.WithImplementation(mcpschema.Implementation{
			Name:    app.ServiceName,
			Version: app.ServiceVersion,
		}),
	)
	if err != nil {
		return err
	}

	logger.L().Info().Str("service", cfg.ServiceURL()).Msg("tool bridge listening on stdio")
	return srv.Stdio(ctx).ListenAndServe()
}

// main is the entry point of the polypulse application.
//
// Modes (selected via --mode flag):
//   - api:    Starts the HTTP API that fetches aggregate bars from Polygon.io.
//   - bridge: Starts the agent tool bridge on stdio, forwarding tool calls to the API.
//
// Flags:
//   - --mode: Execution mode ("api" or "bridge"). Default: "api".
//   - --port: Port for the API server. Defaults to value from config (POLY_MCP_PORT).
func main() {
	ctx := context.Background()

	mode := flag.String("mode", "api", "Mode: api or bridge")
	port := flag.String("port", "", "Port for API mode (overrides POLY_MCP_PORT)")
	flag.Parse()

	// Bridge logs must not interleave with the JSON-RPC stream on stdout
	if *mode == "bridge" {
		logger.InitStderr()
	} else {
		logger.Init()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.L().Fatal().Err(err).Msg("config load error")
	}

	switch *mode {
	case "api":
		addr := cfg.ServiceAddr()
		if *port != "" {
			addr = cfg.Server.Host + ":" + *port
		}
		if err := runAPI(ctx, cfg, addr); err != nil {
			logger.L().Fatal().Err(err).Msg("api server error")
		}
		logger.L().Info().Msg("server exited gracefully")

	case "bridge":
		if err := runBridge(ctx, cfg); err != nil {
			logger.L().Fatal().Err(err).Msg("tool bridge error")
		}

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
