package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/polypulse/internal/domain/dto"
	"github.com/guttosm/polypulse/internal/domain/models"
	"github.com/guttosm/polypulse/internal/provider"
	"github.com/guttosm/polypulse/internal/service"
)

// mockAggsService returns canned results and records invocations.
type mockAggsService struct {
	res   *service.AggsResult
	err   error
	calls int
}

func (m *mockAggsService) ListAggs(_ context.Context, q models.AggsQuery) (*service.AggsResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.res != nil {
		return m.res, nil
	}
	// Default: behave like the real service for wiring-level tests
	q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, errors.Join(service.ErrInvalidQuery, err)
	}
	return &service.AggsResult{Query: q}, nil
}

var _ service.AggsService = (*mockAggsService)(nil)

func setupRouterWithMock(s service.AggsService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s)
	r := gin.New()
	v1 := r.Group("/v1")
	v1.GET("/list_aggs", h.ListAggs)
	return r
}

func barsResult(total, max int) *service.AggsResult {
	q := models.AggsQuery{Ticker: "AAPL", MaxResults: max}
	q.Normalize()
	bars := make([]models.Bar, total)
	for i := range bars {
		bars[i] = models.Bar{Timestamp: int64(1672617600000 + i*60000), Open: 1, Close: 2, Volume: 10}
	}
	res := &service.AggsResult{Query: q, Total: total, Bars: bars}
	if total > q.MaxResults {
		res.Bars = bars[:q.MaxResults]
		res.Note = "Showing first 1 of 3 total aggregates"
	}
	return res
}

func TestListAggs_TableDriven(t *testing.T) {
	cases := []struct {
		name   string
		svc    *mockAggsService
		query  string
		status int
		assert func(t *testing.T, body []byte)
	}{
		{
			name:   "missing ticker",
			svc:    &mockAggsService{err: errors.Join(service.ErrInvalidQuery, errors.New("ticker is required"))},
			query:  "/v1/list_aggs",
			status: http.StatusBadRequest,
		},
		{
			name:   "non-integer multiplier rejected before service",
			svc:    &mockAggsService{},
			query:  "/v1/list_aggs?ticker=AAPL&multiplier=two",
			status: http.StatusBadRequest,
			assert: func(t *testing.T, _ []byte) {},
		},
		{
			name:   "invalid timespan",
			svc:    &mockAggsService{err: errors.Join(service.ErrInvalidQuery, errors.New("invalid timespan"))},
			query:  "/v1/list_aggs?ticker=AAPL&timespan=decade",
			status: http.StatusBadRequest,
		},
		{
			name:   "upstream auth failure",
			svc:    &mockAggsService{err: &provider.UpstreamError{StatusCode: 401, Message: "unknown API key"}},
			query:  "/v1/list_aggs?ticker=AAPL",
			status: http.StatusBadGateway,
			assert: func(t *testing.T, body []byte) {
				var out dto.ErrorResponse
				if err := json.Unmarshal(body, &out); err != nil {
					t.Fatalf("invalid json: %v", err)
				}
				if out.ErrorDetails == "" {
					t.Fatalf("upstream message not preserved: %+v", out)
				}
			},
		},
		{
			name:   "provider not configured",
			svc:    &mockAggsService{err: service.ErrNotConfigured},
			query:  "/v1/list_aggs?ticker=AAPL",
			status: http.StatusServiceUnavailable,
		},
		{
			name:   "unexpected error",
			svc:    &mockAggsService{err: errors.New("boom")},
			query:  "/v1/list_aggs?ticker=AAPL",
			status: http.StatusInternalServerError,
		},
		{
			name:   "success without truncation",
			svc:    &mockAggsService{res: barsResult(3, 100)},
			query:  "/v1/list_aggs?ticker=AAPL",
			status: http.StatusOK,
			assert: func(t *testing.T, body []byte) {
				var out dto.ListAggsResponse
				if err := json.Unmarshal(body, &out); err != nil {
					t.Fatalf("invalid json: %v", err)
				}
				if out.Ticker != "AAPL" || out.Count != 3 || len(out.Aggregates) != 3 {
					t.Fatalf("unexpected body: %+v", out)
				}
				if out.Note != nil {
					t.Fatalf("unexpected truncation note: %q", *out.Note)
				}
				if out.Timespan != "1 minute" {
					t.Fatalf("unexpected timespan label: %q", out.Timespan)
				}
			},
		},
		{
			name:   "success with truncation note",
			svc:    &mockAggsService{res: barsResult(3, 1)},
			query:  "/v1/list_aggs?ticker=AAPL&max_results=1",
			status: http.StatusOK,
			assert: func(t *testing.T, body []byte) {
				var out dto.ListAggsResponse
				if err := json.Unmarshal(body, &out); err != nil {
					t.Fatalf("invalid json: %v", err)
				}
				if out.Count != 1 || len(out.Aggregates) != 1 {
					t.Fatalf("expected exactly 1 bar: %+v", out)
				}
				// First bar in upstream order
				if out.Aggregates[0].Timestamp != 1672617600000 {
					t.Fatalf("wrong bar kept: %+v", out.Aggregates[0])
				}
				if out.Note == nil || *out.Note != "Showing first 1 of 3 total aggregates" {
					t.Fatalf("missing or wrong note: %v", out.Note)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouterWithMock(tc.svc)
			req := httptest.NewRequest(http.MethodGet, tc.query, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d (body: %s)", tc.status, w.Code, w.Body.String())
			}
			if tc.assert != nil {
				tc.assert(t, w.Body.Bytes())
			}
		})
	}
}

func TestListAggs_MalformedIntsSkipService(t *testing.T) {
	for _, q := range []string{
		"/v1/list_aggs?ticker=AAPL&multiplier=abc",
		"/v1/list_aggs?ticker=AAPL&limit=ten",
		"/v1/list_aggs?ticker=AAPL&max_results=1.5",
	} {
		svc := &mockAggsService{}
		r := setupRouterWithMock(svc)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, q, nil))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, w.Code)
		}
		if svc.calls != 0 {
			t.Fatalf("%s: service contacted for malformed parameter", q)
		}
	}
}
