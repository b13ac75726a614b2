package dto

import "time"

// ErrorResponse is the JSON error envelope returned by every failing
// endpoint.
//
// Fields match the API contract and may differ from internal errors; the
// inner error text is exposed verbatim so upstream provider messages survive
// the trip to the caller.
type ErrorResponse struct {
	Message      string    `json:"message" example:"invalid timespan"` // Human-readable summary
	ErrorDetails string    `json:"error,omitempty"`                    // Underlying error text, when available
	Timestamp    time.Time `json:"timestamp"`                          // Time the error was produced
}

// NewErrorResponse builds an ErrorResponse from a message and an optional
// underlying error.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}

// Error implements the error interface so an ErrorResponse can travel as a
// regular error value.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}
