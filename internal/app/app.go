package app

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/polypulse/config"
	"github.com/guttosm/polypulse/internal/api"
	"github.com/guttosm/polypulse/internal/provider"
	"github.com/guttosm/polypulse/internal/service"
)

// ServiceName and ServiceVersion identify the aggregate data service in the
// root metadata payload and in the MCP implementation info.
const (
	ServiceName    = "polypulse"
	ServiceVersion = "1.0.0"
)

// InitializeApp sets up all application dependencies for the aggregate data
// service and returns a fully configured Gin router, a cleanup function for
// graceful shutdown, and any error encountered during initialization.
//
// Responsibilities:
//   - Constructs the upstream provider from the configured credential.
//   - Initializes the service layer (validation, fetch, truncation).
//   - Creates the HTTP handler layer and the Gin router with all routes.
//   - Registers the root metadata and health endpoints.
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error, including a missing credential.
func InitializeApp(cfg *config.Config) (*gin.Engine, func(), error) {
	// Fail fast on a missing upstream credential
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, nil, err
	}

	// Upstream provider (Polygon.io vendor client)
	upstream, err := provider.New(cfg.Polygon.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize upstream provider: %w", err)
	}

	// Service layer (business logic)
	svc := service.NewAggsService(upstream)

	// HTTP handler layer (business logic to HTTP mapping)
	handler := api.NewHandler(svc)

	// Setup Gin router with routes
	router := api.NewRouter(handler)

	// Register root metadata and health endpoints
	api.NewInfoHandler(ServiceName, ServiceVersion).Register(router)

	// No pooled resources to release; kept for symmetry with callers
	cleanup := func() {}

	return router, cleanup, nil
}
