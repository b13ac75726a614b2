package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment
// variables or a .env file.
//
// It is constructed once at process entry by Load() and passed explicitly
// into the components that need it; nothing in the codebase reads the
// environment ad hoc after startup.
//
// Example YAML/ENV equivalent:
//
//	POLYGON_API_KEY=pk_xxxxxxxx
//	POLY_MCP_HOST=localhost
//	POLY_MCP_PORT=3000
type Config struct {
	Server  ServerConfig  // Aggregate data service bind address
	Polygon PolygonConfig // Upstream provider credentials
}

// ServerConfig holds the address of the aggregate data service. The bridge
// uses the same host/port pair to resolve the service it targets, so both
// processes agree on a single source of truth.
type ServerConfig struct {
	Host string // Hostname the HTTP server binds to and the bridge dials (e.g., "localhost")
	Port string // TCP port for the HTTP server (e.g., "3000")
}

// PolygonConfig defines the upstream Polygon.io credential.
type PolygonConfig struct {
	APIKey string // API key used by the vendor client; required in api mode
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults for the bind address.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// The Polygon API key is deliberately not validated here: the bridge mode
// never needs it. Callers that do need it must call RequireAPIKey.
func Load() (*Config, error) {
	v := viper.New()

	// Default values
	v.SetDefault("POLY_MCP_HOST", "localhost")
	v.SetDefault("POLY_MCP_PORT", "3000")

	// Optionally read from .env if present (common in local dev)
	v.SetConfigFile(".env")
	_ = v.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("POLY_MCP_HOST"),
			Port: v.GetString("POLY_MCP_PORT"),
		},
		Polygon: PolygonConfig{
			APIKey: v.GetString("POLYGON_API_KEY"),
		},
	}

	if cfg.Server.Host == "" || cfg.Server.Port == "" {
		return nil, fmt.Errorf("config: POLY_MCP_HOST and POLY_MCP_PORT must not be empty")
	}

	return cfg, nil
}

// RequireAPIKey ensures the upstream credential is present. The aggregate
// data service calls this at startup so a missing key fails fast instead of
// surfacing on the first request.
func (c *Config) RequireAPIKey() error {
	if c.Polygon.APIKey == "" {
		return fmt.Errorf("config: POLYGON_API_KEY environment variable is required")
	}
	return nil
}

// ServiceAddr returns the host:port pair the aggregate data service binds to.
func (c *Config) ServiceAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// ServiceURL returns the base URL the bridge uses to reach the aggregate
// data service.
func (c *Config) ServiceURL() string {
	return fmt.Sprintf("http://%s:%s", c.Server.Host, c.Server.Port)
}
