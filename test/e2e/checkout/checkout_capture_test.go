package checkout_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/merchkit/checkout/pkg/checkoutsdk"
	"github.com/stretchr/testify/require"
)

// TestCaptureFrictionless covers the no-3DS happy path for a registered
// customer: one call, one authorization, one order.
func TestCaptureFrictionless(t *testing.T) {
	env := setupCheckout(t)
	env.seedCart("cart-a1", 4)

	sdk := env.sdk("198.51.100.10").AsCustomer(env.customerToken(t, testCustomerID))

	resp, err := sdk.CaptureInitial(t.Context(), captureRequest("cart-a1", tokenFrictionless))
	require.NoError(t, err)
	require.Equal(t, checkoutsdk.StatusCaptured, resp.Status)
	require.Empty(t, resp.SessionID, "frictionless capture should not open a session")
	require.Nil(t, resp.Challenge)

	require.NotNil(t, resp.Order)
	require.Equal(t, "cart-a1", resp.Order.CartID)
	require.Equal(t, testCustomerID, resp.Order.CustomerID)
	require.NotEmpty(t, resp.Order.OrderNumber)
	require.Equal(t, int64(15999), resp.Order.TotalPrice.Amount)
	require.True(t, strings.HasPrefix(resp.Order.PaymentTransactionID, "txn_"),
		"order should reference the processor transaction, got %q", resp.Order.PaymentTransactionID)

	drafts := env.orders.created()
	require.Len(t, drafts, 1)
	require.Equal(t, int64(4), drafts[0].CartVersion)
	require.Equal(t, testCustomerID, drafts[0].CustomerID)
}

// TestCaptureGuest verifies a guest shopper identified only by the
// X-Anonymous-Id header can complete a purchase.
func TestCaptureGuest(t *testing.T) {
	env := setupCheckout(t)
	env.seedCart("cart-g1", 1)

	sdk := env.sdk("198.51.100.11").AsGuest(testAnonymousID)

	resp, err := sdk.CaptureInitial(t.Context(), captureRequest("cart-g1", tokenFrictionless))
	require.NoError(t, err)
	require.Equal(t, checkoutsdk.StatusCaptured, resp.Status)

	require.NotNil(t, resp.Order)
	require.Equal(t, testAnonymousID, resp.Order.AnonymousID)
	require.Empty(t, resp.Order.CustomerID)
}

// TestCaptureDeclines verifies each processor decline reason surfaces as its
// own 422 code and never creates an order.
func TestCaptureDeclines(t *testing.T) {
	env := setupCheckout(t)

	cases := []struct {
		name  string
		token string
		code  string
	}{
		{"generic decline", tokenDeclined, checkoutsdk.ErrorCodePaymentDeclined},
		{"insufficient funds", tokenNoFunds, checkoutsdk.ErrorCodeInsufficientFunds},
		{"expired card", tokenExpiredCard, checkoutsdk.ErrorCodeCardExpired},
	}

	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cartID := fmt.Sprintf("cart-decline-%d", i)
			env.seedCart(cartID, 1)
			sdk := env.sdk(fmt.Sprintf("198.51.100.%d", 20+i)).AsGuest(testAnonymousID)

			_, err := sdk.CaptureInitial(t.Context(), captureRequest(cartID, tc.token))
			assertAPIError(t, err, http.StatusUnprocessableEntity, tc.code)
		})
	}

	require.Empty(t, env.orders.created(), "declined captures must not create orders")
}

// TestCaptureUnknownCart verifies a cart the cart service has never heard of
// is rejected before any payment call.
func TestCaptureUnknownCart(t *testing.T) {
	env := setupCheckout(t)

	sdk := env.sdk("198.51.100.30").AsGuest(testAnonymousID)

	_, err := sdk.CaptureInitial(t.Context(), captureRequest("cart-ghost", tokenFrictionless))
	assertAPIError(t, err, http.StatusUnprocessableEntity, checkoutsdk.ErrorCodeCartInvalid)
}

// TestCaptureRequiresIdentity verifies requests with no shopper identity are
// rejected at the door.
func TestCaptureRequiresIdentity(t *testing.T) {
	env := setupCheckout(t)
	env.seedCart("cart-noid", 1)

	sdk := env.sdk("198.51.100.40")

	_, err := sdk.CaptureInitial(t.Context(), captureRequest("cart-noid", tokenFrictionless))
	assertStatusOnly(t, err, http.StatusUnauthorized)
}

// TestCaptureRejectsMalformedRequest verifies field validation happens before
// any collaborator is called.
func TestCaptureRejectsMalformedRequest(t *testing.T) {
	env := setupCheckout(t)
	env.seedCart("cart-bad", 1)

	sdk := env.sdk("198.51.100.41").AsGuest(testAnonymousID)

	t.Run("unknown token type", func(t *testing.T) {
		req := captureRequest("cart-bad", tokenFrictionless)
		req.TokenType = "card"

		_, err := sdk.CaptureInitial(t.Context(), req)
		assertAPIError(t, err, http.StatusBadRequest, checkoutsdk.ErrorCodeInvalidRequest)
	})

	t.Run("missing cart id", func(t *testing.T) {
		req := captureRequest("", tokenFrictionless)

		_, err := sdk.CaptureInitial(t.Context(), req)
		assertAPIError(t, err, http.StatusBadRequest, checkoutsdk.ErrorCodeInvalidRequest)
	})

	require.Empty(t, env.orders.created())
}
