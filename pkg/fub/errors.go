package fub

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is the closed classification set for API failures. It is
// authoritative for all downstream retry decisions: only KindAuth is ever
// retried automatically.
type ErrorKind string

const (
	// KindAuth covers 401/403 and token-expiry failures.
	KindAuth ErrorKind = "auth"

	// KindNotFound covers 404.
	KindNotFound ErrorKind = "not_found"

	// KindRateLimit covers 429.
	KindRateLimit ErrorKind = "rate_limit"

	// KindValidation covers 400/422.
	KindValidation ErrorKind = "validation"

	// KindServer covers all 5xx responses.
	KindServer ErrorKind = "server"

	// KindGeneric covers everything else, including failures with no status
	// code such as timeouts and connection errors.
	KindGeneric ErrorKind = "generic"
)

// Static errors for err113 compliance.
var (
	ErrAPIKeyRequired       = errors.New("API key is required")
	ErrBaseURLRequired      = errors.New("base URL is required")
	ErrAllStrategiesFailed  = errors.New("all pagination strategies failed to extract data")
	ErrOffsetCapReached     = errors.New("offset pagination cap reached")
	ErrIncompleteExtraction = errors.New("concurrent extraction incomplete")
	ErrAuthRetriesExhausted = errors.New("authentication failed after retries")
	ErrSessionClosed        = errors.New("session is closed")
	ErrNoContent            = errors.New("no content")
)

// APIError is a classified failure from the remote API or the transport.
type APIError struct {
	Kind         ErrorKind
	StatusCode   int
	Message      string
	ResponseData map[string]interface{}
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fub: [status %d] %s", e.StatusCode, e.Message)
	}

	return fmt.Sprintf("fub: %s", e.Message)
}

// KindForStatus maps a status code onto the closed error taxonomy. Unknown
// or absent codes fall to KindGeneric.
func KindForStatus(statusCode int) ErrorKind {
	switch {
	case statusCode == 401 || statusCode == 403:
		return KindAuth
	case statusCode == 404:
		return KindNotFound
	case statusCode == 429:
		return KindRateLimit
	case statusCode == 400 || statusCode == 422:
		return KindValidation
	case statusCode >= 500 && statusCode <= 599:
		return KindServer
	default:
		return KindGeneric
	}
}

// Classify wraps a failed response into an APIError. statusCode 0 means the
// failure never produced a response (timeout, connection error).
func Classify(statusCode int, message string, responseData map[string]interface{}) *APIError {
	return &APIError{
		Kind:         KindForStatus(statusCode),
		StatusCode:   statusCode,
		Message:      message,
		ResponseData: responseData,
	}
}

// authIndicators are message fragments that mark a failure as
// authentication-related even when no status code is available.
var authIndicators = []string{
	"access token has expired",
	"unauthorized",
	"401",
	"authentication failed",
	"invalid token",
	"token expired",
}

// IsAuthError reports whether err is an authentication-classified failure,
// either by kind or by message content. Auth failures are the only kind
// eligible for automatic retry after session reinitialization.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}

	apiErr := &APIError{}
	if errors.As(err, &apiErr) && apiErr.Kind == KindAuth {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, indicator := range authIndicators {
		if strings.Contains(msg, indicator) {
			return true
		}
	}

	return false
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return kindOf(err) == KindNotFound
}

// IsRateLimited reports whether err is a rate-limit error.
func IsRateLimited(err error) bool {
	return kindOf(err) == KindRateLimit
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return kindOf(err) == KindValidation
}

// IsServerError reports whether err is a 5xx server error.
func IsServerError(err error) bool {
	return kindOf(err) == KindServer
}

// IsDeepPaginationDisabled reports whether err is the service's rejection of
// an offset request beyond the deep-pagination cap. Strategies stop
// gracefully on this condition rather than propagating it.
func IsDeepPaginationDisabled(err error) bool {
	if err == nil {
		return false
	}

	return strings.Contains(strings.ToLower(err.Error()), "deep pagination disabled")
}

func kindOf(err error) ErrorKind {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}

	return ""
}
