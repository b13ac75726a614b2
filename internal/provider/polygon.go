package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	polymodels "github.com/polygon-io/client-go/rest/models"

	"github.com/guttosm/polypulse/internal/domain/models"
	"github.com/guttosm/polypulse/internal/logger"
)

// AggsProvider defines the contract for fetching aggregate bars from the
// upstream financial-data provider.
//
// Implementations perform a single pass per request: no retry, no backoff.
// A failed upstream call surfaces as *UpstreamError so callers can preserve
// the provider's status and message.
type AggsProvider interface {
	ListAggs(ctx context.Context, q models.AggsQuery) ([]models.Bar, error)
}

// UpstreamError carries the status and message of a failed upstream call.
// StatusCode is zero when the failure happened below HTTP (DNS, timeout).
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("upstream call failed: %s", e.Message)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Message)
}

type polygonProvider struct {
	client *polygon.Client
}

// New constructs an AggsProvider backed by the Polygon.io REST client.
// The API key is fixed at construction; an empty key is a configuration
// error, reported here so the process can fail fast at startup.
func New(apiKey string) (AggsProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("provider: api key must not be empty")
	}
	return &polygonProvider{client: polygon.New(apiKey)}, nil
}

// ListAggs fetches aggregate bars for the query, mapping each vendor record
// into a typed Bar at this boundary. Records missing a timestamp fail the
// whole call rather than propagating partial objects downstream.
func (p *polygonProvider) ListAggs(ctx context.Context, q models.AggsQuery) ([]models.Bar, error) {
	from, to, err := q.DateRange()
	if err != nil {
		return nil, fmt.Errorf("provider: invalid date range: %w", err)
	}

	params := polymodels.ListAggsParams{
		Ticker:     q.Ticker,
		Multiplier: q.Multiplier,
		Timespan:   polymodels.Timespan(q.Timespan),
		From:       polymodels.Millis(from),
		To:         polymodels.Millis(to),
	}.WithOrder(polymodels.Asc).WithAdjusted(true).WithLimit(q.Limit)

	logger.L().Debug().
		Str("ticker", q.Ticker).
		Str("window", q.WindowLabel()).
		Str("from", q.From).
		Str("to", q.To).
		Msg("fetching aggregates from upstream")

	iter := p.client.ListAggs(ctx, params)

	var bars []models.Bar
	for iter.Next() {
		bar, err := mapAgg(iter.Item())
		if err != nil {
			return nil, err
		}
		bars = append(bars, bar)
	}
	if err := iter.Err(); err != nil {
		return nil, asUpstreamError(err)
	}

	return bars, nil
}

// mapAgg converts one vendor aggregate into the typed domain record.
func mapAgg(a polymodels.Agg) (models.Bar, error) {
	ts := time.Time(a.Timestamp).UnixMilli()
	if ts <= 0 {
		return models.Bar{}, &UpstreamError{Message: "aggregate record missing timestamp"}
	}

	bar := models.Bar{
		Timestamp: ts,
		Open:      a.Open,
		High:      a.High,
		Low:       a.Low,
		Close:     a.Close,
		Volume:    int64(a.Volume),
	}
	if a.VWAP != 0 {
		vwap := a.VWAP
		bar.VWAP = &vwap
	}
	if a.Transactions != 0 {
		txn := a.Transactions
		bar.Transactions = &txn
	}
	return bar, nil
}

// asUpstreamError normalizes vendor client failures, keeping the provider's
// HTTP status when the SDK exposes one.
func asUpstreamError(err error) error {
	var er *polymodels.ErrorResponse
	if errors.As(err, &er) {
		return &UpstreamError{StatusCode: er.StatusCode, Message: err.Error()}
	}
	return &UpstreamError{Message: err.Error()}
}
