package client

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/merchkit/checkout/internal/checkout/domain"
	"github.com/merchkit/checkout/internal/checkout/service"
)

// PaymentClient submits authorizations to the payment processor.
type PaymentClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

var _ service.PaymentAuthorizer = (*PaymentClient)(nil)

// NewPaymentClient builds a processor client. Authorization carries its own
// timeout since a call with a 3DS result attached can take longer than the
// other collaborator reads.
func NewPaymentClient(baseURL string, timeout time.Duration) *PaymentClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &PaymentClient{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Authorize submits the request and returns the processor's decision. Both
// phases use the same endpoint; the processor distinguishes them by whether
// a challenge result is attached.
func (c *PaymentClient) Authorize(ctx context.Context, req domain.AuthorizationRequest) (domain.AuthorizationResult, error) {
	var result domain.AuthorizationResult
	err := postJSON(ctx, c.HTTPClient, "payment processor", c.BaseURL+"/v1/authorize", req, &result, http.StatusOK)
	if err != nil {
		return domain.AuthorizationResult{}, err
	}
	return result, nil
}
