package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`

	// Fields are copied to the top level of the problem document.
	Fields map[string]any `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// WithField returns a copy of e carrying an extra top-level field.
func (e *APIError) WithField(key string, value any) *APIError {
	cp := *e
	cp.Fields = make(map[string]any, len(e.Fields)+1)
	for k, v := range e.Fields {
		cp.Fields[k] = v
	}
	cp.Fields[key] = value
	return &cp
}

// ValidationError represents validation errors
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details any) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeMissingParameter = "MISSING_PARAMETER"
	CodeNotFound         = "NOT_FOUND"
	CodeDatasetNotFound  = "DATASET_NOT_FOUND"
	CodeUnknownChart     = "UNKNOWN_CHART_KIND"
	CodeUnreadableFile   = "UNREADABLE_FILE"
	CodeMissingColumn    = "MISSING_COLUMN"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeUnsupportedMedia = "UNSUPPORTED_MEDIA_TYPE"
	CodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	CodeInternal         = "INTERNAL_SERVER_ERROR"
	CodeWebSocketUpgrade = "WEBSOCKET_UPGRADE_FAILED"
	CodeUnavailable      = "SERVICE_UNAVAILABLE"
)

// Predefined error types for common scenarios
var (
	// 400 Bad Request
	ErrInvalidRequest   = New(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format")
	ErrValidationFailed = New(http.StatusBadRequest, CodeValidationFailed, "Request validation failed")

	// 404 Not Found
	ErrNotFound = New(http.StatusNotFound, CodeNotFound, "Resource not found")

	// 413 Payload Too Large
	ErrPayloadTooLarge = New(http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "Uploaded file is too large")

	// 429 Too Many Requests
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, CodeRateLimited, "Rate limit exceeded")

	// 500 Internal Server Error
	ErrInternalServer   = New(http.StatusInternalServerError, CodeInternal, "Internal server error")
	ErrWebSocketUpgrade = New(http.StatusInternalServerError, CodeWebSocketUpgrade, "WebSocket upgrade failed")

	// 503 Service Unavailable
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, CodeUnavailable, "Service temporarily unavailable")
)

// InvalidRequestWithError creates an invalid request error with details
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
}

// MissingParameter reports a required request parameter that was absent.
func MissingParameter(name string) *APIError {
	return New(http.StatusBadRequest, CodeMissingParameter, fmt.Sprintf("Required parameter %q is missing", name)).
		WithField("parameter", name)
}

// ErrValidation creates a validation error with field details
func ErrValidation(field, message string) *APIError {
	return NewValidationErrors([]ValidationError{{Field: field, Message: message}})
}

// NewValidationErrors creates validation errors from multiple fields
func NewValidationErrors(errs []ValidationError) *APIError {
	return NewWithDetails(
		http.StatusBadRequest,
		CodeValidationFailed,
		"Request validation failed",
		ValidationErrors{Errors: errs},
	)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// NotFoundError creates a not found error with details
func NotFoundError(resource string) *APIError {
	return NewWithDetails(http.StatusNotFound, CodeNotFound, fmt.Sprintf("%s not found", resource), resource)
}

// DatasetNotFound reports an unknown dataset ID.
func DatasetNotFound(id string) *APIError {
	return New(http.StatusNotFound, CodeDatasetNotFound, fmt.Sprintf("dataset %s not found", id)).
		WithField("dataset_id", id)
}

// UnknownChartKind reports a chart key outside the catalogue.
func UnknownChartKind(key string) *APIError {
	return New(http.StatusBadRequest, CodeUnknownChart, fmt.Sprintf("unknown chart kind %q", key)).
		WithField("chart", key)
}

// UnreadableFile reports an upload that could not be parsed as a table.
func UnreadableFile(err error) *APIError {
	return NewWithDetails(http.StatusUnprocessableEntity, CodeUnreadableFile,
		"The uploaded file could not be read as a table", err.Error())
}

// MissingColumn reports a chart that needs a column the dataset lacks.
func MissingColumn(column string) *APIError {
	return New(http.StatusUnprocessableEntity, CodeMissingColumn,
		fmt.Sprintf("required column `%s` missing", column)).
		WithField("column", column)
}

// PayloadTooLarge reports an upload over the configured limit.
func PayloadTooLarge(limit int64) *APIError {
	return ErrPayloadTooLarge.WithField("limit_bytes", limit)
}

// NewInternalError creates a simple internal server error
func NewInternalError(message string) *APIError {
	return New(http.StatusInternalServerError, CodeInternal, message)
}
