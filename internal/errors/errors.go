package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrDuplicateEmail is returned when registering an email that already exists.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidAccessToken is returned when the shared access token is absent or wrong.
	ErrInvalidAccessToken = errors.New("invalid access token")
	// ErrInvalidCredentials is returned for unknown email or wrong password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrProductNotFound is returned when a product id does not exist.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidProductName is returned when a product name is empty after trimming.
	ErrInvalidProductName = errors.New("product name must not be empty")
	// ErrSessionInvalid is returned when a session handle is absent, unknown or expired.
	ErrSessionInvalid = errors.New("session invalid or expired")
	// ErrTooManyAttempts is returned when login attempts for an email are throttled.
	ErrTooManyAttempts = errors.New("too many login attempts")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrDuplicateEmail:
		return NewHTTPError(http.StatusConflict, err.Error(), "DUPLICATE_EMAIL")
	case ErrInvalidAccessToken:
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_ACCESS_TOKEN")
	case ErrInvalidCredentials:
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case ErrProductNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "PRODUCT_NOT_FOUND")
	case ErrInvalidProductName:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_PRODUCT_NAME")
	case ErrSessionInvalid:
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "SESSION_INVALID")
	case ErrTooManyAttempts:
		return NewHTTPError(http.StatusTooManyRequests, err.Error(), "TOO_MANY_ATTEMPTS")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
