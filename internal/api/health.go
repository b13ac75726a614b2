package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/polypulse/internal/domain/dto"
)

// InfoHandler serves the static root metadata and the liveness probe.
//
// Both endpoints carry no upstream dependency: they answer whether the
// process is up and what it is, regardless of credential validity.
type InfoHandler struct {
	name    string
	version string
}

// NewInfoHandler constructs an InfoHandler with the given service identity.
func NewInfoHandler(name, version string) *InfoHandler {
	return &InfoHandler{name: name, version: version}
}

// Register mounts the root and health endpoints onto the provided router.
//
// Routes:
//   - GET /: Static service metadata.
//   - GET /health: Always returns a fixed success payload.
func (h *InfoHandler) Register(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.ServiceInfo{
			Service: h.name,
			Version: h.version,
			Status:  "running",
			Endpoints: map[string]string{
				"list_aggs": "/v1/list_aggs",
				"health":    "/health",
			},
		})
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	})
}
