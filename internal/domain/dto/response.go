package dto

import (
	"net/http"
	"time"

	"github.com/guttosm/nutriplate/internal/domain/model"
)

// Error codes carried in ErrorResponse.Error. Clients branch on these; the
// message is localized and may change.
const (
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeInternal        = "internal_error"
	ErrCodeNotFound        = "not_found"
	ErrCodeRateLimit       = "rate_limit_exceeded"
	ErrCodeTimeout         = "timeout"
	ErrCodePayloadTooLarge = "payload_too_large"
	ErrCodeMissingInput    = "missing_input"
	ErrCodeInvalidImage    = "invalid_image"
	// ErrCodeAnalysisFailed means the model replied with nothing usable.
	ErrCodeAnalysisFailed = "analysis_failed"
	// ErrCodeUpstream means the model service could not be reached.
	ErrCodeUpstream = "upstream_unavailable"
)

// SuccessResponse wraps successful API responses with metadata.
// @Description Successful API response wrapper
type SuccessResponse struct {
	// Data contains the endpoint payload (AnalysisResult for the analyze endpoints)
	Data      interface{} `json:"data" swaggertype:"object"`
	RequestID string      `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time   `json:"timestamp" example:"2026-01-28T10:00:00Z"`
} // @name SuccessResponse

// ErrorResponse is the body of every non-2xx API response.
// @Description Standardized error response
type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_request"`
	Message string `json:"message,omitempty" example:"Please provide an image or a text description."`
	// Details maps a field to what is wrong with it
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time         `json:"timestamp" example:"2026-01-28T10:00:00Z"`
} // @name ErrorResponse

// NewError returns an ErrorResponse stamped with the current UTC time.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// WithRequestID returns a copy of e carrying requestID.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

var codeByStatus = map[int]string{
	http.StatusBadRequest:            ErrCodeInvalidRequest,
	http.StatusNotFound:              ErrCodeNotFound,
	http.StatusRequestTimeout:        ErrCodeTimeout,
	http.StatusRequestEntityTooLarge: ErrCodePayloadTooLarge,
	http.StatusTooManyRequests:       ErrCodeRateLimit,
	http.StatusBadGateway:            ErrCodeUpstream,
	http.StatusServiceUnavailable:    ErrCodeUpstream,
	http.StatusGatewayTimeout:        ErrCodeTimeout,
}

// ErrCodeFromStatus returns the generic code for status, used when a handler
// has no more specific one.
func ErrCodeFromStatus(status int) string {
	if code, ok := codeByStatus[status]; ok {
		return code
	}
	return ErrCodeInternal
}

// AnalysisResponse documents the success envelope of the analyze endpoints.
// @Description Successful meal analysis
type AnalysisResponse struct {
	Data      model.AnalysisResult `json:"data"`
	RequestID string               `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time            `json:"timestamp" example:"2026-01-28T10:00:00Z"`
} // @name AnalysisResponse
