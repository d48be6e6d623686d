package service

import (
	"errors"
	"fmt"

	"github.com/merchkit/checkout/internal/checkout/domain"
)

var (
	// ErrInvalidSessionRequest rejects malformed session material before
	// anything is written: both or neither shopper identity, missing cart
	// or token fields, unknown token type.
	ErrInvalidSessionRequest = errors.New("invalid_session_request")

	// ErrSessionNotFound is the uniform answer for a session that is absent,
	// lapsed or already consumed. Callers cannot distinguish the three cases.
	ErrSessionNotFound = errors.New("session_not_found")

	// ErrSessionAlreadyUsed is the internal loser's result of the single-use
	// race. The API boundary folds it into the session_not_found envelope so
	// a second submitter learns nothing the first did not.
	ErrSessionAlreadyUsed = errors.New("session_already_used")

	// ErrOwnershipViolation means the caller's identity does not match the
	// shopper recorded on the session.
	ErrOwnershipViolation = errors.New("ownership_violation")
)

// Reason codes carried to the client by UnprocessableError.
const (
	ReasonCartModified      = "cart_modified"
	ReasonCartInvalid       = "cart_invalid"
	ReasonPaymentDeclined   = "payment_declined"
	ReasonInsufficientFunds = "insufficient_funds"
	ReasonCardExpired       = "card_expired"
)

// UnprocessableError marks a well-formed request that cannot complete against
// current state. Reason is one of the Reason* codes and reaches the client
// verbatim; Message is a human-readable detail.
type UnprocessableError struct {
	Reason  string
	Message string
}

func (e *UnprocessableError) Error() string {
	return fmt.Sprintf("unprocessable: %s: %s", e.Reason, e.Message)
}

// NewUnprocessableError builds an UnprocessableError with a formatted message.
func NewUnprocessableError(reason, format string, args ...any) *UnprocessableError {
	return &UnprocessableError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// IsUnprocessable reports whether err is (or wraps) an UnprocessableError,
// optionally returning it.
func IsUnprocessable(err error) (*UnprocessableError, bool) {
	var ue *UnprocessableError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// InternalError marks a failure after the point of no return: the session has
// been consumed or the processor may have moved money. The client sees an
// opaque failure; operators reconcile from the high-severity log entry that
// accompanies every InternalError.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal: %s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

// NewInternalError wraps err as an InternalError for the given operation.
func NewInternalError(op string, err error) error {
	return &InternalError{Op: op, Err: err}
}

// IsInternal reports whether err is (or wraps) an InternalError, optionally
// returning it.
func IsInternal(err error) (*InternalError, bool) {
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// declineReason maps the processor's closed decline set onto client-facing
// unprocessable reasons. The mapping is 1:1; a value outside the set folds
// into the generic decline rather than inventing a new code.
func declineReason(r domain.DeclineReason) string {
	switch r {
	case domain.DeclineInsufficientFunds:
		return ReasonInsufficientFunds
	case domain.DeclineCardExpired:
		return ReasonCardExpired
	default:
		return ReasonPaymentDeclined
	}
}
