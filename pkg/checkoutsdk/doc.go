/*
Package checkoutsdk provides a typed client for the checkout capture API.

# Overview

The checkout service exposes two capture operations: the initial capture,
which either completes the purchase outright or hands back a 3D Secure
challenge with a session id, and validate-capture, which finishes a
challenged purchase using that session id plus the challenge outcome.

Create a Client and identify the shopper either with a bearer token (a
registered customer) or an anonymous id (a guest):

	client := checkoutsdk.NewClient("https://checkout.example.com")
	client.BearerToken = customerJWT // or client.AnonymousID = "anon-..."

	res, err := client.CaptureInitial(ctx, checkoutsdk.CaptureRequest{
		CartID:       "cart-123",
		PaymentToken: "tok_visa_4242",
		TokenType:    "transient",
		Billing:      billing,
	})

When the processor demands 3D Secure, the response carries
Status == StatusAuthenticationRequired together with SessionID and the
challenge payload for the shopper's browser. After the shopper finishes:

	res, err = client.CaptureValidate(ctx, checkoutsdk.ValidateCaptureRequest{
		SessionID: res.SessionID,
		Challenge: outcome,
	})

# Errors

Every non-2xx answer parses into an *APIError carrying the HTTP status and
the service's {code, message} envelope. The same type is what the server
uses to write those envelopes, so the two sides cannot drift.
*/
package checkoutsdk
