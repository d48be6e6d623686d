// Package paymentsim is a deterministic stand-in for the payment processor,
// used by local development and the end-to-end tests. The outcome of every
// authorization is encoded in the payment token itself:
//
//	contains "_3ds"          the initial attempt demands a 3DS challenge
//	contains "_insufficient" declined with insufficient_funds
//	contains "_expired"      declined with card_expired
//	contains "_declined"     declined with the generic reason
//	anything else            approved
//
// Markers compose: "tok_3ds_insufficient" demands a challenge first and then
// declines the completion attempt. A completion attempt whose challenge
// result is missing its transaction id or cryptogram is declined outright,
// which is how a failed or abandoned authentication looks from here.
package paymentsim

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/merchkit/checkout/internal/checkout/domain"
	"github.com/merchkit/checkout/pkg/cryptox"
	"github.com/merchkit/checkout/pkg/httpx"
	"github.com/merchkit/checkout/pkg/slogx"
)

type Handler struct {
	Logger *slog.Logger
}

// NewRouter wires the simulator's two endpoints behind request logging.
func NewRouter(logger *slog.Logger) http.Handler {
	h := &Handler{Logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/authorize", h.HandleAuthorize)
	mux.HandleFunc("GET /livez", h.HandleLivez)

	return httpx.Chain(mux, slogx.HTTPMiddleware(logger))
}

func (h *Handler) HandleLivez(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	var req domain.AuthorizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	if req.PaymentToken == "" || !req.TokenType.Valid() || !req.Amount.IsPositive() {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "missing or invalid authorization fields"})
		return
	}

	result := Decide(req)

	h.Logger.Info("authorization decided",
		slog.String("payment_token_fp", cryptox.FingerprintToken(req.PaymentToken)),
		slog.Bool("authorized", result.Authorized),
		slog.Bool("requires_3ds", result.Requires3DS),
		slog.String("decline_reason", string(result.DeclineReason)),
	)
	httpx.WriteJSON(w, http.StatusOK, result)
}

// Decide applies the token marker rules to one authorization request.
func Decide(req domain.AuthorizationRequest) domain.AuthorizationResult {
	token := req.PaymentToken

	if req.Challenge == nil && strings.Contains(token, "_3ds") {
		ref := "3ds_" + uuid.NewString()
		return domain.AuthorizationResult{
			Requires3DS: true,
			Setup: &domain.SetupChallenge{
				ReferenceID:        ref,
				AuthenticationInfo: uuid.NewString(),
				ChallengeURL:       "https://sim.merchkit.dev/challenge/" + ref,
			},
		}
	}

	if req.Challenge != nil && (req.Challenge.TransactionID == "" || req.Challenge.Cryptogram == "") {
		return domain.AuthorizationResult{DeclineReason: domain.DeclineGeneric}
	}

	switch {
	case strings.Contains(token, "_insufficient"):
		return domain.AuthorizationResult{DeclineReason: domain.DeclineInsufficientFunds}
	case strings.Contains(token, "_expired"):
		return domain.AuthorizationResult{DeclineReason: domain.DeclineCardExpired}
	case strings.Contains(token, "_declined"):
		return domain.AuthorizationResult{DeclineReason: domain.DeclineGeneric}
	}

	return domain.AuthorizationResult{
		Authorized:        true,
		TransactionID:     "txn_" + uuid.NewString(),
		AuthorizationCode: strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6]),
	}
}

// Server wraps the simulator in an http.Server for standalone use.
func Server(logger *slog.Logger, addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewRouter(logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
