package http

import (
	"encoding/json"
	"net/http"

	"github.com/merchkit/checkout/internal/checkout/domain"
	"github.com/merchkit/checkout/internal/checkout/service"
	"github.com/merchkit/checkout/pkg/checkoutsdk"
	"github.com/merchkit/checkout/pkg/httpx"
	"github.com/merchkit/checkout/pkg/slogx"
)

type CaptureHandler struct {
	Capture *service.CaptureService
}

// HandleInitial godoc
//
//	@Summary		Initial Capture Endpoint
//	@Description	Starts a capture for the shopper's cart: authorizes the payment and either
//	@Description	completes the order directly or returns a 3D Secure challenge with a
//	@Description	session id for the follow-up validate call
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		checkoutsdk.CaptureRequest	true	"Cart, payment token and billing details"
//	@Success		200		{object}	checkoutsdk.CaptureResponse	"captured or authentication_required"
//	@Failure		400		{object}	checkoutsdk.APIError		"code, message"
//	@Failure		401		{object}	checkoutsdk.APIError		"code, message"
//	@Failure		422		{object}	checkoutsdk.APIError		"code, message"
//	@Failure		500		{object}	checkoutsdk.APIError		"code, message"
//	@Router			/v1/checkout/capture [post].
func (h *CaptureHandler) HandleInitial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		checkoutsdk.ErrUnauthorized.WriteError(w)
		return
	}

	var req checkoutsdk.CaptureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		checkoutsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	result, err := h.Capture.Initial(ctx, service.InitialCaptureParams{
		Caller:       service.CallerIdentity{CustomerID: identity.CustomerID, AnonymousID: identity.AnonymousID},
		CartID:       req.CartID,
		PaymentToken: req.PaymentToken,
		TokenType:    domain.TokenType(req.TokenType),
		Billing:      toDomainBilling(req.Billing),
		Shipping:     toDomainShipping(req.Shipping),
	})
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	if result.RequiresAction {
		httpx.WriteJSON(w, http.StatusOK, checkoutsdk.CaptureResponse{
			Status:    checkoutsdk.StatusAuthenticationRequired,
			SessionID: result.SessionID,
			Challenge: toSDKChallenge(result.Challenge),
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, checkoutsdk.CaptureResponse{
		Status: checkoutsdk.StatusCaptured,
		Order:  toSDKOrder(result.Order),
	})
}

// HandleValidate godoc
//
//	@Summary		Validate Capture Endpoint
//	@Description	Finishes a challenged capture: validates the session, consumes it, and
//	@Description	completes payment authorization with the shopper's challenge outcome.
//	@Description	Each session admits exactly one completion attempt
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		checkoutsdk.ValidateCaptureRequest	true	"Session id and challenge outcome"
//	@Success		200		{object}	checkoutsdk.CaptureResponse			"captured"
//	@Failure		400		{object}	checkoutsdk.APIError				"code, message"
//	@Failure		401		{object}	checkoutsdk.APIError				"code, message"
//	@Failure		403		{object}	checkoutsdk.APIError				"code, message"
//	@Failure		409		{object}	checkoutsdk.APIError				"code, message"
//	@Failure		422		{object}	checkoutsdk.APIError				"code, message"
//	@Failure		500		{object}	checkoutsdk.APIError				"code, message"
//	@Router			/v1/checkout/capture/validate [post].
func (h *CaptureHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		checkoutsdk.ErrUnauthorized.WriteError(w)
		return
	}

	var req checkoutsdk.ValidateCaptureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		checkoutsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.SessionID == "" {
		checkoutsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	order, err := h.Capture.Validate(slogx.WithSession(ctx, req.SessionID), service.ValidateCaptureParams{
		SessionID: req.SessionID,
		Caller:    service.CallerIdentity{CustomerID: identity.CustomerID, AnonymousID: identity.AnonymousID},
		Meta: service.RequestMeta{
			SourceAddress: httpx.IPKeyExtractor(r),
			UserAgent:     r.UserAgent(),
		},
		Challenge: domain.ChallengeResult{
			TransactionID: req.Challenge.TransactionID,
			Cryptogram:    req.Challenge.Cryptogram,
			ECI:           req.Challenge.ECI,
			XID:           req.Challenge.XID,
			CavvAlgorithm: req.Challenge.CavvAlgorithm,
		},
	})
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, checkoutsdk.CaptureResponse{
		Status: checkoutsdk.StatusCaptured,
		Order:  toSDKOrder(&order),
	})
}

func toDomainBilling(b checkoutsdk.BillingDetails) domain.BillingDetails {
	return domain.BillingDetails{
		FirstName:    b.FirstName,
		LastName:     b.LastName,
		Email:        b.Email,
		Phone:        b.Phone,
		AddressLine1: b.AddressLine1,
		AddressLine2: b.AddressLine2,
		Locality:     b.Locality,
		Region:       b.Region,
		PostalCode:   b.PostalCode,
		Country:      b.Country,
	}
}

func toDomainShipping(s *checkoutsdk.ShippingDetails) *domain.ShippingDetails {
	if s == nil {
		return nil
	}
	return &domain.ShippingDetails{
		FirstName:    s.FirstName,
		LastName:     s.LastName,
		AddressLine1: s.AddressLine1,
		AddressLine2: s.AddressLine2,
		Locality:     s.Locality,
		Region:       s.Region,
		PostalCode:   s.PostalCode,
		Country:      s.Country,
	}
}

func toSDKChallenge(c *domain.SetupChallenge) *checkoutsdk.Challenge {
	if c == nil {
		return nil
	}
	return &checkoutsdk.Challenge{
		ReferenceID:        c.ReferenceID,
		AuthenticationInfo: c.AuthenticationInfo,
		ChallengeURL:       c.ChallengeURL,
	}
}

func toSDKOrder(o *domain.Order) *checkoutsdk.Order {
	if o == nil {
		return nil
	}
	return &checkoutsdk.Order{
		ID:                   o.ID,
		OrderNumber:          o.OrderNumber,
		CartID:               o.CartID,
		CustomerID:           o.CustomerID,
		AnonymousID:          o.AnonymousID,
		TotalPrice:           checkoutsdk.Money{Amount: o.TotalPrice.Amount, Currency: o.TotalPrice.Currency},
		CreatedAt:            o.CreatedAt,
		PaymentTransactionID: o.PaymentTransactionID,
	}
}
