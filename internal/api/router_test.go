package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/polypulse/internal/domain/dto"
)

func TestNewRouter_WiringAndMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Provide a service that returns a valid result so the handler returns 200
	svc := &mockAggsService{res: barsResult(2, 100)}
	h := NewHandler(svc)
	r := NewRouter(h)

	// Hit the aggregates route through the router created by NewRouter
	req := httptest.NewRequest(http.MethodGet, "/v1/list_aggs?ticker=AAPL", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	// Ensure RequestID middleware injected header
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}

	// Ensure JSON body carries the envelope fields
	var out dto.ListAggsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if out.Ticker != "AAPL" || out.Count != 2 {
		t.Fatalf("unexpected body: %+v", out)
	}
}

func TestNewRouter_UnknownRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(NewHandler(&mockAggsService{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
