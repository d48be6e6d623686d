package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/merchkit/checkout/internal/checkout/service"
	"github.com/merchkit/checkout/pkg/checkoutsdk"
)

// writeServiceError maps the service error taxonomy onto the API envelope.
//
// ErrSessionAlreadyUsed deliberately folds into the session_not_found
// envelope: the loser of a double submission must not learn anything a
// caller probing random session ids would not.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidSessionRequest):
		checkoutsdk.ErrInvalidRequest.WriteError(w)

	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrSessionAlreadyUsed):
		checkoutsdk.ErrSessionNotFound.WriteError(w)

	case errors.Is(err, service.ErrOwnershipViolation):
		checkoutsdk.ErrOwnershipViolation.WriteError(w)

	default:
		if ue, ok := service.IsUnprocessable(err); ok {
			checkoutsdk.NewUnprocessable(ue.Reason, ue.Message).WriteError(w)
			return
		}
		if ie, ok := service.IsInternal(err); ok {
			// Already logged at critical severity where it happened; this
			// line ties it to the request.
			log.Error("capture failed past the point of no return", "op", ie.Op, "err", ie.Err)
			checkoutsdk.ErrInternal.WriteError(w)
			return
		}
		log.Error("capture failed", "err", err)
		checkoutsdk.ErrInternal.WriteError(w)
	}
}
