package http

import (
	"net/http"
	"time"

	"github.com/merchkit/checkout/internal/checkout/store"
	"github.com/merchkit/checkout/pkg/checkoutsdk"
	"github.com/merchkit/checkout/pkg/httpx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health and the state of the
//	@Description	session store; degraded storage makes the service not ready
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	checkoutsdk.HealthResponse	"status, uptime, version, store"
//	@Failure		503	{object}	checkoutsdk.HealthResponse	"status, uptime, version, store - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeStatus := "ok"
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			storeStatus = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, checkoutsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Store:   storeStatus,
		})
	}
}
