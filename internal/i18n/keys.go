package i18n

// Error message translation keys.
const (
	// ErrKeyInvalidRequest indicates an invalid request.
	ErrKeyInvalidRequest = "error.invalid_request"
	// ErrKeyInvalidRequestBody indicates an invalid request body.
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	// ErrKeyInternalError indicates an internal server error.
	ErrKeyInternalError = "error.internal_error"
	// ErrKeyNotFound indicates a resource was not found.
	ErrKeyNotFound = "error.not_found"
	// ErrKeyRateLimitExceeded indicates rate limit exceeded.
	ErrKeyRateLimitExceeded = "error.rate_limit_exceeded"
	// ErrKeyTimeout indicates a request timeout.
	ErrKeyTimeout = "error.timeout"
	// ErrKeyPayloadTooLarge indicates the body exceeded the upload limit.
	ErrKeyPayloadTooLarge = "error.payload_too_large"
	// ErrKeyValidationFamily indicates a negative family count.
	ErrKeyValidationFamily = "error.validation.family"
	// ErrKeyMissingInput indicates neither a description nor a photo was sent.
	ErrKeyMissingInput = "error.missing_input"
	// ErrKeyInvalidImage indicates an image that is not valid base64 or cannot be decoded.
	ErrKeyInvalidImage = "error.invalid_image"
	// ErrKeyAnalysisNoResponse indicates the model returned an empty reply.
	ErrKeyAnalysisNoResponse = "error.analysis_no_response"
	// ErrKeyAnalysisParse indicates the model reply did not match the result schema.
	ErrKeyAnalysisParse = "error.analysis_parse"
	// ErrKeyAnalysisUnavailable indicates the model service could not be reached.
	ErrKeyAnalysisUnavailable = "error.analysis_unavailable"
)

// Success message translation keys.
const (
	// SuccessKeyMealAnalyzed indicates a completed analysis.
	SuccessKeyMealAnalyzed = "success.meal_analyzed"
)
