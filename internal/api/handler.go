package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/polypulse/internal/domain/dto"
	"github.com/guttosm/polypulse/internal/domain/models"
	"github.com/guttosm/polypulse/internal/provider"
	"github.com/guttosm/polypulse/internal/service"
)

// Handler provides the HTTP handlers of the aggregate data service.
//
// Responsibilities:
//   - Parse incoming HTTP query parameters into an AggsQuery
//   - Delegate to the service layer for fetching and truncation
//   - Translate service results and errors into JSON responses with
//     appropriate HTTP status codes
type Handler struct {
	svc service.AggsService
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc service.AggsService) *Handler {
	return &Handler{svc: svc}
}

// ListAggs handles GET /v1/list_aggs requests.
//
// Query Parameters:
//   - ticker (string, required): Stock ticker symbol (e.g., "AAPL").
//   - multiplier (int, optional): Size of the timespan multiplier, default 1.
//   - timespan (string, optional): minute|hour|day|week|month|quarter|year, default "minute".
//   - from, to (string, optional): Date range in YYYY-MM-DD format.
//   - limit (int, optional): Cap on bars fetched upstream, default 50000.
//   - max_results (int, optional): Cap on bars returned, default 100.
//
// Responses:
//   - 200 OK: ListAggsResponse with the (possibly truncated) bar list.
//   - 400 Bad Request: Missing or invalid query parameters; upstream not contacted.
//   - 502 Bad Gateway: Upstream provider call failed; status/message preserved.
//   - 503 Service Unavailable: Upstream provider not configured.
//   - 500 Internal Server Error: Anything else.
func (h *Handler) ListAggs(c *gin.Context) {
	// ─── Parse query params ───────────────────────────────────
	q, err := parseAggsQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid query parameters", err))
		return
	}

	// ─── Fetch via service (with request context) ─────────────
	res, err := h.svc.ListAggs(c.Request.Context(), q)
	if err != nil {
		status, msg := statusForError(err)
		c.JSON(status, dto.NewErrorResponse(msg, err))
		return
	}

	// ─── Build and return response DTO ────────────────────────
	resp := dto.ListAggsResponse{
		Ticker:     res.Query.Ticker,
		Timespan:   res.Query.WindowLabel(),
		From:       res.Query.From,
		To:         res.Query.To,
		Count:      len(res.Bars),
		Aggregates: res.Bars,
	}
	if res.Truncated() {
		note := res.Note
		resp.Note = &note
	}

	c.JSON(http.StatusOK, resp)
}

// parseAggsQuery reads the raw query string into an AggsQuery. Numeric
// parameters that fail to parse are client errors; semantic validation
// (timespan enum, date formats) happens in the service before any upstream
// call.
func parseAggsQuery(c *gin.Context) (models.AggsQuery, error) {
	q := models.AggsQuery{
		Ticker:   c.Query("ticker"),
		Timespan: c.Query("timespan"),
		From:     c.Query("from"),
		To:       c.Query("to"),
	}

	var err error
	if q.Multiplier, err = intParam(c, "multiplier"); err != nil {
		return q, err
	}
	if q.Limit, err = intParam(c, "limit"); err != nil {
		return q, err
	}
	if q.MaxResults, err = intParam(c, "max_results"); err != nil {
		return q, err
	}
	return q, nil
}

// intParam parses an optional positive integer query parameter, returning
// zero when absent so Normalize can apply the default.
func intParam(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return n, nil
}

// statusForError maps service errors onto the error taxonomy: client errors
// become 400, upstream failures 502, missing wiring 503, the rest 500.
func statusForError(err error) (int, string) {
	var ue *provider.UpstreamError
	switch {
	case errors.Is(err, service.ErrInvalidQuery):
		return http.StatusBadRequest, "invalid query parameters"
	case errors.Is(err, service.ErrNotConfigured):
		return http.StatusServiceUnavailable, "upstream provider not configured, please ensure POLYGON_API_KEY is set"
	case errors.As(err, &ue):
		return http.StatusBadGateway, "upstream provider call failed"
	default:
		return http.StatusInternalServerError, "failed to fetch aggregates"
	}
}
