package models

// Error codes carried in ErrorResponse.Code.
const (
	CodeValidation  = "VALIDATION_ERROR"
	CodeNotFound    = "NOT_FOUND"
	CodeInternal    = "INTERNAL_ERROR"
	CodeRateLimited = "RATE_LIMITED"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}
