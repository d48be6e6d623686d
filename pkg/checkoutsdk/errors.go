package checkoutsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/merchkit/checkout/pkg/httpx"
)

// ============================================================================
// Error Codes
// ============================================================================

const (
	// ErrorCodeInvalidRequest marks a malformed or incomplete request.
	ErrorCodeInvalidRequest = "invalid_request"

	// ErrorCodeUnauthorized marks a request with no resolvable shopper
	// identity.
	ErrorCodeUnauthorized = "unauthorized"

	// ErrorCodeSessionNotFound is the uniform answer when the referenced
	// session is absent, expired or already consumed. The service never
	// tells a caller which of the three it was.
	ErrorCodeSessionNotFound = "session_not_found"

	// ErrorCodeOwnershipViolation marks a session referenced by a shopper
	// other than the one who created it.
	ErrorCodeOwnershipViolation = "ownership_violation"

	// Unprocessable business outcomes. The capture was well-formed but the
	// current state of cart or payment refuses it.
	ErrorCodeCartModified      = "cart_modified"
	ErrorCodeCartInvalid       = "cart_invalid"
	ErrorCodePaymentDeclined   = "payment_declined"
	ErrorCodeInsufficientFunds = "insufficient_funds"
	ErrorCodeCardExpired       = "card_expired"

	// ErrorCodeInternalError marks a failure the shopper cannot fix by
	// retrying, including failures past the point of payment authorization.
	ErrorCodeInternalError = "internal_error"
)

// ============================================================================
// APIError
// ============================================================================

// APIError is the service's error envelope. The server writes it with
// WriteError and the SDK parses it back, so both sides share one shape.
type APIError struct {
	// StatusCode is the HTTP status this error travels with.
	StatusCode int `json:"-"`

	// Code is the machine-readable error code.
	Code string `json:"code"`

	// Message is a human-readable description.
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WriteError writes the envelope to an HTTP response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, e)
}

// ============================================================================
// Predefined Errors
// ============================================================================

var (
	ErrInvalidRequest = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeInvalidRequest,
		Message:    "the request is malformed or missing required fields",
	}

	ErrUnauthorized = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeUnauthorized,
		Message:    "no shopper identity could be resolved for the request",
	}

	ErrSessionNotFound = &APIError{
		StatusCode: http.StatusConflict,
		Code:       ErrorCodeSessionNotFound,
		Message:    "no active authentication session matches the request",
	}

	ErrOwnershipViolation = &APIError{
		StatusCode: http.StatusForbidden,
		Code:       ErrorCodeOwnershipViolation,
		Message:    "the session does not belong to the requesting shopper",
	}

	ErrInternal = &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       ErrorCodeInternalError,
		Message:    "the capture could not be completed",
	}
)

// NewUnprocessable builds a 422 envelope for a business outcome such as a
// modified cart or a declined payment.
func NewUnprocessable(code, message string) *APIError {
	return &APIError{
		StatusCode: http.StatusUnprocessableEntity,
		Code:       code,
		Message:    message,
	}
}

// parseErrorResponse turns a non-success response body into an *APIError.
// A body that is not the expected envelope still yields a usable error
// carrying the raw status.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       "unknown_error",
		Message:    fmt.Sprintf("unexpected response (status %d)", resp.StatusCode),
	}
}
