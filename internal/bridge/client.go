package bridge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/guttosm/polypulse/internal/domain/models"
	"github.com/guttosm/polypulse/internal/logger"
)

// requestTimeout bounds a single call against the aggregate data service.
const requestTimeout = 30 * time.Second

// Service issues HTTP requests against the aggregate data service on behalf
// of tool calls. It holds the resolved base URL and a client with a fixed
// request timeout; it never retries.
type Service struct {
	baseURL string
	client  *http.Client
}

// NewService returns a Service targeting the aggregate data service at
// baseURL (e.g. "http://localhost:3000").
func NewService(baseURL string) *Service {
	return &Service{
		baseURL: baseURL,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// ListAggs issues exactly one GET against /v1/list_aggs with the given query
// and returns the raw response body on a 2xx status.
//
// A non-2xx status or a transport failure is returned as an error carrying
// the status and the service's body, so the tool caller sees the same
// diagnostics an HTTP client would.
func (s *Service) ListAggs(ctx context.Context, q models.AggsQuery) (string, error) {
	q.Normalize()

	reqURL := s.baseURL + "/v1/list_aggs?" + q.Values().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	logger.L().Info().Str("ticker", q.Ticker).Str("url", reqURL).Msg("forwarding tool call to aggregate service")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error calling aggregate service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(body))
	}
	return string(body), nil
}
