package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/guttosm/polypulse/internal/domain/models"
	"github.com/guttosm/polypulse/internal/logger"
	"github.com/guttosm/polypulse/internal/provider"
)

// ErrInvalidQuery marks a request rejected before any upstream call.
var ErrInvalidQuery = errors.New("invalid query")

// ErrNotConfigured is returned when no upstream provider is wired in. Startup
// fails fast on a missing credential, so in practice this only guards
// mis-assembled wiring.
var ErrNotConfigured = errors.New("upstream provider not configured")

// AggsService defines the business logic of the aggregate data service.
type AggsService interface {
	ListAggs(ctx context.Context, q models.AggsQuery) (*AggsResult, error)
}

// AggsResult is a fetched, truncated set of aggregate bars.
type AggsResult struct {
	Query models.AggsQuery // Query after normalization, echoed to the caller
	Total int              // Bars retrieved from upstream before truncation
	Bars  []models.Bar     // At most Query.MaxResults bars, upstream order
	Note  string           // Set only when Bars was truncated
}

// Truncated reports whether fewer bars are returned than were retrieved.
func (r *AggsResult) Truncated() bool {
	return len(r.Bars) < r.Total
}

type aggsService struct {
	provider provider.AggsProvider
}

func NewAggsService(p provider.AggsProvider) AggsService {
	return &aggsService{provider: p}
}

// ListAggs normalizes and validates the query, fetches bars once from the
// upstream provider, and truncates the result to MaxResults preserving
// upstream order. Validation failures never reach the provider.
func (s *aggsService) ListAggs(ctx context.Context, q models.AggsQuery) (*AggsResult, error) {
	if s.provider == nil {
		return nil, ErrNotConfigured
	}

	q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	bars, err := s.provider.ListAggs(ctx, q)
	if err != nil {
		return nil, err
	}

	result := &AggsResult{Query: q, Total: len(bars), Bars: bars}
	if len(bars) > q.MaxResults {
		result.Bars = bars[:q.MaxResults]
		result.Note = fmt.Sprintf("Showing first %d of %d total aggregates", q.MaxResults, len(bars))
	}

	logger.L().Info().
		Str("ticker", q.Ticker).
		Int("retrieved", result.Total).
		Int("returned", len(result.Bars)).
		Msg("aggregates fetched")

	return result, nil
}
