package checkout_test

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/merchkit/checkout/internal/checkout/client"
	"github.com/merchkit/checkout/internal/checkout/domain"
	httpapi "github.com/merchkit/checkout/internal/checkout/http"
	"github.com/merchkit/checkout/internal/checkout/paymentsim"
	"github.com/merchkit/checkout/internal/checkout/service"
	"github.com/merchkit/checkout/internal/checkout/store/drivers/memory"
	"github.com/merchkit/checkout/pkg/checkoutsdk"
	"github.com/merchkit/checkout/pkg/clockx"
	"github.com/merchkit/checkout/pkg/cryptox"
	"github.com/merchkit/checkout/pkg/httpx"
	"github.com/merchkit/checkout/pkg/jwtx"
	"github.com/merchkit/checkout/pkg/taskx"
	"github.com/stretchr/testify/require"
)

/*
 * Common fixtures and helpers for checkout service end-to-end tests.
 *
 * The real router runs in-process behind an httptest server, with identity
 * resolution, rate limiting and the memory store all live. The cart and
 * order collaborators are small scriptable fakes, and the payment processor
 * is the actual simulator handler, so the 3DS round trip exercised here is
 * the same one the dev stack runs.
 */

const (
	testIssuer = "merchkit-identity"
	testKeyID  = "e2e-key-001"

	testCustomerID  = "cust-1001"
	testAnonymousID = "guest-7f3e2a"
)

// Simulator payment tokens. The marker in the token decides the processor's
// answer; markers compose, so a _3ds token can still decline at completion.
const (
	tokenFrictionless     = "tok_visa_4242"
	tokenChallenge        = "tok_3ds_visa"
	tokenDeclined         = "tok_visa_declined"
	tokenNoFunds          = "tok_visa_insufficient"
	tokenExpiredCard      = "tok_visa_expired"
	tokenChallengeNoFunds = "tok_3ds_insufficient"
)

// testEnv is one fully wired service stack. Each test builds its own so
// sessions, carts and rate-limit buckets never leak between tests.
type testEnv struct {
	server *httptest.Server
	signer jwtx.Signer
	clock  *clockx.Fake

	carts  *cartBackend
	orders *orderBackend
}

// setupCheckout wires the full stack and returns the environment. All
// servers are shut down via t.Cleanup.
func setupCheckout(t *testing.T) *testEnv {
	t.Helper()

	quiet := slog.New(slog.NewJSONHandler(io.Discard, nil))
	clk := clockx.NewFake(time.Now().UTC())

	// One ES256 key pair shared by the token-minting helper and the
	// router's verifier, standing in for the merchant's identity provider.
	pemKey, err := cryptox.GenerateES256Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerES256(testKeyID, pemKey)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	verifier := jwtx.NewVerifierES256(keys, testIssuer, nil)

	// Collaborators.
	carts := &cartBackend{carts: make(map[string]domain.Cart)}
	cartSrv := httptest.NewServer(carts.handler())
	t.Cleanup(cartSrv.Close)

	orders := &orderBackend{price: domain.Money{Amount: 15999, Currency: "GBP"}}
	orderSrv := httptest.NewServer(orders.handler())
	t.Cleanup(orderSrv.Close)

	paySrv := httptest.NewServer(paymentsim.NewRouter(quiet))
	t.Cleanup(paySrv.Close)

	// Service stack on the memory store, driven by the fake clock so tests
	// can push sessions past their TTL.
	st := memory.NewStore(clk)
	captureService := &service.CaptureService{
		Sessions:  &service.SessionService{Store: st, Clock: clk},
		Validator: &service.Validator{Audit: quiet},
		Carts:     client.NewCartClient(cartSrv.URL),
		Orders:    client.NewOrderClient(orderSrv.URL),
		Payments:  client.NewPaymentClient(paySrv.URL, 5*time.Second),
		Tasks:     taskx.New(quiet, 5*time.Second),
	}

	router := httpapi.NewRouter(verifier, "e2e", st, quiet)
	router.CaptureService = captureService
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testEnv{
		server: srv,
		signer: signer,
		clock:  clk,
		carts:  carts,
		orders: orders,
	}
}

// sdk returns a client whose requests arrive from the given source address.
// The capture endpoints carry a strict per-IP limit, so each scenario uses
// its own address to keep the buckets independent.
func (e *testEnv) sdk(sourceIP string) *checkoutsdk.Client {
	c := checkoutsdk.NewClient(e.server.URL)
	c.HTTPClient = &http.Client{
		Timeout:   10 * time.Second,
		Transport: &forwardedTransport{ip: sourceIP, base: http.DefaultTransport},
	}
	return c
}

// customerToken mints a shopper JWT the router's verifier accepts.
func (e *testEnv) customerToken(t *testing.T, customerID string) string {
	t.Helper()

	claims := jwtx.NewCustomerClaims(customerID, jwtx.DefaultShopperTokenTTL, testIssuer, nil, time.Now().UTC())
	token, err := e.signer.Sign(claims)
	require.NoError(t, err)
	return token
}

// seedCart registers an active single-line cart worth £159.99.
func (e *testEnv) seedCart(id string, version int64) domain.Cart {
	cart := domain.Cart{
		ID:      id,
		Version: version,
		State:   domain.CartStateActive,
		LineItems: []domain.LineItem{
			{
				ID:         "li-1",
				ProductID:  "prod-trail-01",
				Name:       "Trail Running Shoes",
				Quantity:   1,
				UnitPrice:  domain.Money{Amount: 15999, Currency: "GBP"},
				TotalPrice: domain.Money{Amount: 15999, Currency: "GBP"},
			},
		},
		TotalPrice: domain.Money{Amount: 15999, Currency: "GBP"},
	}
	e.carts.put(cart)
	return cart
}

// forwardedTransport pins every request to one synthetic source address via
// X-Forwarded-For, which the router's IP extractor honours.
type forwardedTransport struct {
	ip   string
	base http.RoundTripper
}

func (ft *forwardedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("X-Forwarded-For", ft.ip)
	return ft.base.RoundTrip(clone)
}

// cartBackend is a scriptable stand-in for the cart service.
type cartBackend struct {
	mu    sync.Mutex
	carts map[string]domain.Cart
}

func (b *cartBackend) put(c domain.Cart) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.carts[c.ID] = c
}

// bump increments a cart's version, simulating a shopper edit mid-challenge.
func (b *cartBackend) bump(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := b.carts[id]
	c.Version++
	b.carts[id] = c
}

func (b *cartBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/carts/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		cart, ok := b.carts[r.PathValue("id")]
		b.mu.Unlock()

		if !ok {
			httpx.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "cart_not_found"})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, cart)
	})
	return mux
}

// orderBackend is a scriptable stand-in for the order service.
type orderBackend struct {
	mu     sync.Mutex
	seq    int
	drafts []domain.OrderDraft
	price  domain.Money
	fail   bool
}

// setFail makes order creation answer 500 until cleared.
func (b *orderBackend) setFail(fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail = fail
}

// created returns a copy of every draft the backend accepted.
func (b *orderBackend) created() []domain.OrderDraft {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.OrderDraft(nil), b.drafts...)
}

func (b *orderBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/orders", func(w http.ResponseWriter, r *http.Request) {
		var draft domain.OrderDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_request"})
			return
		}

		b.mu.Lock()
		defer b.mu.Unlock()

		if b.fail {
			httpx.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "unavailable"})
			return
		}

		b.seq++
		b.drafts = append(b.drafts, draft)
		httpx.WriteJSON(w, http.StatusCreated, domain.Order{
			ID:                   fmt.Sprintf("order-%d", b.seq),
			OrderNumber:          fmt.Sprintf("UK1%05d", b.seq),
			CartID:               draft.CartID,
			CustomerID:           draft.CustomerID,
			AnonymousID:          draft.AnonymousID,
			TotalPrice:           b.price,
			CreatedAt:            time.Now().UTC(),
			PaymentTransactionID: draft.Authorization.TransactionID,
		})
	})
	return mux
}

func billingFixture() checkoutsdk.BillingDetails {
	return checkoutsdk.BillingDetails{
		FirstName:    "Alex",
		LastName:     "Hartley",
		Email:        "alex.hartley@example.com",
		AddressLine1: "221 Baker Street",
		Locality:     "London",
		PostalCode:   "NW1 6XE",
		Country:      "GB",
	}
}

func captureRequest(cartID, paymentToken string) checkoutsdk.CaptureRequest {
	return checkoutsdk.CaptureRequest{
		CartID:       cartID,
		PaymentToken: paymentToken,
		TokenType:    "transient",
		Billing:      billingFixture(),
	}
}

// completeChallenge fabricates the result a shopper's browser would bring
// back after finishing the challenge with the authentication provider.
func completeChallenge(ch *checkoutsdk.Challenge) checkoutsdk.ChallengeResult {
	return checkoutsdk.ChallengeResult{
		TransactionID: "acs-" + ch.ReferenceID,
		Cryptogram:    "AAABBBCCCDDD0123456789ab",
		ECI:           "05",
	}
}

// assertAPIError verifies err is the service's error envelope with the given
// status and code.
func assertAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()

	require.Error(t, err)
	var apiErr *checkoutsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
}

// assertStatusOnly verifies err carries the given HTTP status. Used for
// responses written below the handler layer (identity middleware, rate
// limiter) that don't use the service envelope.
func assertStatusOnly(t *testing.T, err error, status int) {
	t.Helper()

	require.Error(t, err)
	var apiErr *checkoutsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
}
