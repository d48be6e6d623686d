package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/merchkit/checkout/internal/checkout/domain"
	"github.com/merchkit/checkout/pkg/slogx"
	"github.com/merchkit/checkout/pkg/taskx"
)

// defaultPaymentTimeout bounds an authorize call when no explicit timeout is
// configured. A processor answer slower than this is unusable: the shopper
// has long since been shown an error.
const defaultPaymentTimeout = 10 * time.Second

// ErrCartNotFound is returned by CartFetcher implementations when the cart
// id does not exist.
var ErrCartNotFound = errors.New("cart_not_found")

// CartFetcher loads the live cart state from the cart service.
type CartFetcher interface {
	GetCart(ctx context.Context, id string) (domain.Cart, error)
}

// OrderCreator converts a cart plus a successful authorization into an order.
type OrderCreator interface {
	CreateOrder(ctx context.Context, draft domain.OrderDraft) (domain.Order, error)
}

// PaymentAuthorizer submits an authorization to the payment processor. A
// single method covers both phases: with a nil Challenge it is the initial
// attempt and may come back demanding 3DS; with a Challenge it is the
// completion attempt.
type PaymentAuthorizer interface {
	Authorize(ctx context.Context, req domain.AuthorizationRequest) (domain.AuthorizationResult, error)
}

// InitialCaptureParams is the shopper's first capture call for a cart.
type InitialCaptureParams struct {
	Caller       CallerIdentity
	CartID       string
	PaymentToken string
	TokenType    domain.TokenType
	Billing      domain.BillingDetails
	Shipping     *domain.ShippingDetails
}

func (p InitialCaptureParams) validate() error {
	if (p.Caller.CustomerID != "") == (p.Caller.AnonymousID != "") {
		return ErrInvalidSessionRequest
	}
	if p.CartID == "" || p.PaymentToken == "" || !p.TokenType.Valid() {
		return ErrInvalidSessionRequest
	}
	return nil
}

// InitialCaptureResult is either a completed order or a challenge the shopper
// must finish first. When RequiresAction is true, SessionID and Challenge are
// set and Order is nil.
type InitialCaptureResult struct {
	RequiresAction bool
	SessionID      string
	Challenge      *domain.SetupChallenge
	Order          *domain.Order
}

// ValidateCaptureParams is the completion call after the shopper finished the
// 3DS challenge. Challenge is forwarded to the processor verbatim; this
// service never interprets its contents.
type ValidateCaptureParams struct {
	SessionID string
	Caller    CallerIdentity
	Meta      RequestMeta
	Challenge domain.ChallengeResult
}

// CaptureService orchestrates both capture phases across the session store,
// the validators and the three collaborator services.
type CaptureService struct {
	Sessions  *SessionService
	Validator *Validator
	Carts     CartFetcher
	Orders    OrderCreator
	Payments  PaymentAuthorizer

	// Tasks runs the best-effort deletion of consumed sessions off the hot
	// path. When nil, used records are simply left to lapse via TTL.
	Tasks *taskx.Runner

	// PaymentTimeout bounds every authorize call. Zero means
	// defaultPaymentTimeout.
	PaymentTimeout time.Duration
}

// Initial runs the first capture attempt for a cart: authorize, and either
// finish the order directly, relay a 3DS challenge with a fresh session, or
// surface the decline.
func (s *CaptureService) Initial(ctx context.Context, p InitialCaptureParams) (InitialCaptureResult, error) {
	l := slogx.FromContext(ctx)

	if err := p.validate(); err != nil {
		return InitialCaptureResult{}, err
	}

	cart, err := s.Carts.GetCart(ctx, p.CartID)
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return InitialCaptureResult{}, NewUnprocessableError(ReasonCartInvalid, "cart %s does not exist", p.CartID)
		}
		return InitialCaptureResult{}, fmt.Errorf("fetch cart: %w", err)
	}
	if !cart.CheckoutEligible() {
		return InitialCaptureResult{}, NewUnprocessableError(ReasonCartInvalid, "cart %s is not eligible for checkout", cart.ID)
	}

	result, err := s.authorize(ctx, domain.AuthorizationRequest{
		PaymentToken: p.PaymentToken,
		TokenType:    p.TokenType,
		CustomerID:   p.Caller.CustomerID,
		Amount:       cart.TotalPrice,
		Billing:      p.Billing,
	})
	if err != nil {
		return InitialCaptureResult{}, fmt.Errorf("authorize payment: %w", err)
	}

	if result.Requires3DS {
		if result.Setup == nil {
			return InitialCaptureResult{}, fmt.Errorf("authorize payment: challenge demanded without setup payload")
		}

		session, err := s.Sessions.Create(ctx, NewSessionParams{
			CustomerID:   p.Caller.CustomerID,
			AnonymousID:  p.Caller.AnonymousID,
			CartID:       cart.ID,
			CartVersion:  cart.Version,
			PaymentToken: p.PaymentToken,
			TokenType:    p.TokenType,
			TotalAmount:  cart.TotalPrice,
			Billing:      p.Billing,
			Shipping:     p.Shipping,
			Setup: &domain.SetupData{
				ReferenceID:        result.Setup.ReferenceID,
				AuthenticationInfo: result.Setup.AuthenticationInfo,
			},
		})
		if err != nil {
			return InitialCaptureResult{}, err
		}

		l.Info("3ds challenge required",
			slog.String("session_id", session.ID),
			slog.String("cart_id", cart.ID),
		)
		return InitialCaptureResult{
			RequiresAction: true,
			SessionID:      session.ID,
			Challenge:      result.Setup,
		}, nil
	}

	if !result.Authorized {
		l.Info("payment declined on initial capture",
			slog.String("cart_id", cart.ID),
			slog.String("decline_reason", string(result.DeclineReason)),
		)
		return InitialCaptureResult{}, NewUnprocessableError(declineReason(result.DeclineReason), "payment was declined")
	}

	order, err := s.createOrder(ctx, cart.ID, cart.Version, p.Caller.CustomerID, p.Caller.AnonymousID, result)
	if err != nil {
		return InitialCaptureResult{}, err
	}

	l.Info("checkout captured without challenge",
		slog.String("cart_id", cart.ID),
		slog.String("order_id", order.ID),
	)
	return InitialCaptureResult{Order: &order}, nil
}

// Validate runs the completion attempt against a session: retrieve, check
// ownership, check cart freshness, consume the session, authorize with the
// challenge outcome, and create the order. The session is consumed before the
// processor is contacted, so no concurrent or repeated submission can reach
// authorization twice.
func (s *CaptureService) Validate(ctx context.Context, p ValidateCaptureParams) (domain.Order, error) {
	l := slogx.FromContext(ctx)

	// Absent, lapsed and already-used sessions all answer identically here.
	session, err := s.Sessions.Get(ctx, p.SessionID)
	if err != nil {
		return domain.Order{}, err
	}

	// Ownership always runs before any cart state is revealed.
	if err := s.Validator.ValidateOwnership(ctx, session, p.Caller, p.Meta); err != nil {
		return domain.Order{}, err
	}

	cart, err := s.Carts.GetCart(ctx, session.CartID)
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return domain.Order{}, NewUnprocessableError(ReasonCartInvalid, "cart %s no longer exists", session.CartID)
		}
		return domain.Order{}, fmt.Errorf("fetch cart: %w", err)
	}
	if err := s.Validator.ValidateCartFreshness(session, cart); err != nil {
		// The session stays pending and lapses via TTL; a stale cart does
		// not consume it.
		return domain.Order{}, err
	}

	// Consume the session before touching the processor. Exactly one
	// completion attempt ever passes this point.
	if err := s.Sessions.MarkUsed(ctx, p.SessionID); err != nil {
		return domain.Order{}, err
	}

	result, err := s.authorize(ctx, domain.AuthorizationRequest{
		PaymentToken: session.PaymentToken,
		TokenType:    session.TokenType,
		CustomerID:   session.CustomerID,
		Amount:       session.TotalAmount,
		Billing:      session.Billing,
		Setup:        session.Setup,
		Challenge:    &p.Challenge,
	})
	if err != nil {
		// The session is spent and the processor's answer is unknown; only
		// reconciliation can resolve whether money moved.
		l.Error("authorization unresolved after session consumption",
			slog.String("severity", "critical"),
			slog.String("session_id", session.ID),
			slog.String("cart_id", session.CartID),
			slog.Any("error", err),
		)
		return domain.Order{}, NewInternalError("authorize payment", err)
	}

	if result.Requires3DS {
		// The challenge for this checkout was already issued and completed;
		// demanding another is a processor contract breach.
		l.Error("processor demanded a second challenge",
			slog.String("severity", "critical"),
			slog.String("session_id", session.ID),
		)
		return domain.Order{}, NewInternalError("authorize payment", errors.New("unexpected second challenge"))
	}

	if !result.Authorized {
		// A decline is a definitive answer. The session stays used: a failed
		// challenge outcome is not retryable against the same session.
		l.Info("payment declined on challenge completion",
			slog.String("session_id", session.ID),
			slog.String("decline_reason", string(result.DeclineReason)),
		)
		return domain.Order{}, NewUnprocessableError(declineReason(result.DeclineReason), "payment was declined")
	}

	order, err := s.createOrder(ctx, session.CartID, session.CartVersion, session.CustomerID, session.AnonymousID, result)
	if err != nil {
		return domain.Order{}, err
	}

	// The used record only matters until the TTL sweeps it; deletion is
	// best-effort and off the hot path.
	if s.Tasks != nil {
		s.Tasks.Go("delete consumed session", func(taskCtx context.Context) error {
			_, err := s.Sessions.Delete(taskCtx, session.ID)
			return err
		})
	}

	l.Info("checkout captured",
		slog.String("session_id", session.ID),
		slog.String("order_id", order.ID),
		slog.String("transaction_id", result.TransactionID),
	)
	return order, nil
}

// authorize submits to the processor under the configured deadline.
func (s *CaptureService) authorize(ctx context.Context, req domain.AuthorizationRequest) (domain.AuthorizationResult, error) {
	timeout := s.PaymentTimeout
	if timeout <= 0 {
		timeout = defaultPaymentTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return s.Payments.Authorize(ctx, req)
}

// createOrder finalizes a successful authorization into an order. A failure
// here is the worst state this service can reach: money reserved, no order.
func (s *CaptureService) createOrder(ctx context.Context, cartID string, cartVersion int64, customerID, anonymousID string, auth domain.AuthorizationResult) (domain.Order, error) {
	order, err := s.Orders.CreateOrder(ctx, domain.OrderDraft{
		CartID:        cartID,
		CartVersion:   cartVersion,
		CustomerID:    customerID,
		AnonymousID:   anonymousID,
		Authorization: auth,
	})
	if err != nil {
		slogx.FromContext(ctx).Error("order creation failed after successful authorization",
			slog.String("severity", "critical"),
			slog.String("cart_id", cartID),
			slog.String("transaction_id", auth.TransactionID),
			slog.Any("error", err),
		)
		return domain.Order{}, NewInternalError("create order", err)
	}
	return order, nil
}
