package dto

import "github.com/guttosm/polypulse/internal/domain/models"

// ListAggsResponse is the JSON envelope returned by GET /v1/list_aggs.
//
// Count always equals len(Aggregates): the number of bars handed to the
// caller after truncation to max_results. Note is present exactly when
// truncation dropped bars.
type ListAggsResponse struct {
	Ticker     string       `json:"ticker" example:"AAPL"`       // Ticker the aggregates belong to
	Timespan   string       `json:"timespan" example:"1 minute"` // Resolved window, "<multiplier> <unit>"
	From       string       `json:"from_date" example:"2023-01-01"`
	To         string       `json:"to_date" example:"2023-06-13"`
	Count      int          `json:"count"`          // Bars returned, after truncation
	Aggregates []models.Bar `json:"aggregates"`     // Bar list, upstream order
	Note       *string      `json:"note,omitempty"` // Set only when Aggregates was truncated
}

// ServiceInfo is the static metadata payload served at the root endpoint.
type ServiceInfo struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
}

// HealthResponse is the fixed liveness payload. It carries no upstream
// dependency: the endpoint answers whether the process is up, nothing more.
type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	Timestamp string `json:"timestamp"`
}
