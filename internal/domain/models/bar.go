package models

// Bar is one OHLCV aggregate for a fixed time window of a traded instrument,
// as produced by the upstream provider.
//
// VWAP and Transactions are optional upstream fields: the provider omits them
// for some instruments, so they are pointers and absent from the JSON output
// when not supplied.
type Bar struct {
	Timestamp    int64    `json:"timestamp"` // Window start, epoch milliseconds
	Open         float64  `json:"open"`
	High         float64  `json:"high"`
	Low          float64  `json:"low"`
	Close        float64  `json:"close"`
	Volume       int64    `json:"volume"`
	VWAP         *float64 `json:"vwap,omitempty"`         // Volume weighted average price
	Transactions *int64   `json:"transactions,omitempty"` // Number of trades in the window
}
