package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/guttosm/polypulse/config"
)

// TestInitializeApp_MissingAPIKey ensures initialization fails fast without a
// configured upstream credential.
func TestInitializeApp_MissingAPIKey(t *testing.T) {
	cfg := &config.Config{}

	router, cleanup, err := InitializeApp(cfg)
	if err == nil || router != nil {
		if cleanup != nil {
			cleanup()
		}
		t.Fatalf("expected error from InitializeApp without POLYGON_API_KEY")
	}
}

func TestInitializeApp_HappyPath(t *testing.T) {
	cfg := &config.Config{
		Server:  config.ServerConfig{Host: "localhost", Port: "3000"},
		Polygon: config.PolygonConfig{APIKey: "test-key"},
	}

	router, cleanup, err := InitializeApp(cfg)
	if err != nil || router == nil || cleanup == nil {
		t.Fatalf("InitializeApp failed: err=%v", err)
	}
	t.Cleanup(cleanup)

	// Root metadata endpoint
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("root status=%d", w.Code)
	}

	// Health endpoint
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w2, req2)
	if w2.Code != http.StatusOK {
		t.Fatalf("health status=%d", w2.Code)
	}
}
