package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/polypulse/internal/middleware"
)

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery).
//   - Adds request timeout handling (30 seconds, the same ceiling the bridge
//     client enforces).
//   - Configures the v1 API routes (/v1).
//
// Note:
//   - Root and health endpoints (/ and /health) are registered in
//     app.InitializeApp().
func NewRouter(handler *Handler) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
	)

	// ─── Timeout ──────────────────────────────────
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// ─── API v1 ───────────────────────────────────
	v1 := router.Group("/v1")
	{
		v1.GET("/list_aggs", handler.ListAggs)
	}

	return router
}
