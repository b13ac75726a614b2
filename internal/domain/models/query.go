package models

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Defaults applied by AggsQuery.Normalize when a parameter is omitted.
// The date range matches the upstream examples the service was built
// against; callers almost always pass their own range.
const (
	DefaultMultiplier = 1
	DefaultTimespan   = "minute"
	DefaultFrom       = "2023-01-01"
	DefaultTo         = "2023-06-13"
	DefaultLimit      = 50000
	DefaultMaxResults = 100
)

// DateLayout is the calendar date format accepted for the from/to parameters.
const DateLayout = "2006-01-02"

// validTimespans enumerates the aggregation windows the upstream provider
// accepts.
var validTimespans = map[string]bool{
	"minute":  true,
	"hour":    true,
	"day":     true,
	"week":    true,
	"month":   true,
	"quarter": true,
	"year":    true,
}

// AggsQuery carries the parameters of one aggregate-bars request.
//
// It is the single definition of the request surface: the HTTP handler parses
// into it, the service validates it, the upstream provider reads it, and the
// bridge encodes it back into a query string. Neither side duplicates
// request-construction logic.
type AggsQuery struct {
	Ticker     string // Stock ticker symbol (required)
	Multiplier int    // Size of the timespan multiplier
	Timespan   string // Aggregation window: minute, hour, day, week, month, quarter, year
	From       string // Start date, YYYY-MM-DD
	To         string // End date, YYYY-MM-DD
	Limit      int    // Cap on bars fetched from the upstream provider
	MaxResults int    // Cap on bars returned to the caller
}

// Normalize trims the ticker and fills every omitted parameter with its
// default. It never overrides a caller-supplied value.
func (q *AggsQuery) Normalize() {
	q.Ticker = strings.ToUpper(strings.TrimSpace(q.Ticker))
	if q.Multiplier == 0 {
		q.Multiplier = DefaultMultiplier
	}
	if q.Timespan == "" {
		q.Timespan = DefaultTimespan
	}
	if q.From == "" {
		q.From = DefaultFrom
	}
	if q.To == "" {
		q.To = DefaultTo
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.MaxResults == 0 {
		q.MaxResults = DefaultMaxResults
	}
}

// Validate checks the query against the parameter contract. It must be called
// before any upstream request is issued; a non-nil error maps to a client
// error, never to an upstream call.
func (q *AggsQuery) Validate() error {
	if q.Ticker == "" {
		return fmt.Errorf("ticker is required")
	}
	if q.Multiplier <= 0 {
		return fmt.Errorf("multiplier must be a positive integer")
	}
	if !validTimespans[q.Timespan] {
		return fmt.Errorf("invalid timespan %q, expected one of minute, hour, day, week, month, quarter, year", q.Timespan)
	}
	from, err := time.Parse(DateLayout, q.From)
	if err != nil {
		return fmt.Errorf("invalid from date %q, expected YYYY-MM-DD", q.From)
	}
	to, err := time.Parse(DateLayout, q.To)
	if err != nil {
		return fmt.Errorf("invalid to date %q, expected YYYY-MM-DD", q.To)
	}
	if to.Before(from) {
		return fmt.Errorf("to date %q precedes from date %q", q.To, q.From)
	}
	if q.Limit <= 0 {
		return fmt.Errorf("limit must be a positive integer")
	}
	if q.MaxResults <= 0 {
		return fmt.Errorf("max_results must be a positive integer")
	}
	return nil
}

// DateRange returns the parsed from/to dates. Call Validate first.
func (q *AggsQuery) DateRange() (time.Time, time.Time, error) {
	from, err := time.Parse(DateLayout, q.From)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := time.Parse(DateLayout, q.To)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

// WindowLabel renders the resolved aggregation window, e.g. "1 minute".
func (q *AggsQuery) WindowLabel() string {
	return fmt.Sprintf("%d %s", q.Multiplier, q.Timespan)
}

// Values encodes the query as HTTP query parameters. The bridge uses this to
// build its request against the aggregate data service, so the wire names
// stay in lockstep with what the handler parses.
func (q *AggsQuery) Values() url.Values {
	v := url.Values{}
	v.Set("ticker", q.Ticker)
	v.Set("multiplier", strconv.Itoa(q.Multiplier))
	v.Set("timespan", q.Timespan)
	v.Set("from", q.From)
	v.Set("to", q.To)
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("max_results", strconv.Itoa(q.MaxResults))
	return v
}
