package checkoutsdk

import (
	"context"
	"net/http"
)

// CaptureInitial starts a capture for a cart. The response either carries a
// completed order (StatusCaptured) or a challenge the shopper must finish
// first (StatusAuthenticationRequired with SessionID and Challenge set).
func (c *Client) CaptureInitial(ctx context.Context, req CaptureRequest) (*CaptureResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/checkout/capture", req)
	if err != nil {
		return nil, err
	}

	var out CaptureResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CaptureValidate finishes a challenged capture using the session id from
// CaptureInitial and the shopper's challenge outcome. Each session admits
// exactly one completion attempt; afterwards the id answers session_not_found
// whether that attempt succeeded or not.
func (c *Client) CaptureValidate(ctx context.Context, req ValidateCaptureRequest) (*CaptureResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/checkout/capture/validate", req)
	if err != nil {
		return nil, err
	}

	var out CaptureResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
