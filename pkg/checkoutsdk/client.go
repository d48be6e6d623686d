package checkoutsdk

import (
	"net/http"
	"strings"
	"time"
)

// Client is a client for the checkout capture API.
//
// Set exactly one of BearerToken or AnonymousID to identify the shopper.
// A registered customer presents the identity provider's JWT; a guest
// presents the client-generated anonymous id.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// BearerToken is sent as "Authorization: Bearer <token>" when set.
	BearerToken string

	// AnonymousID is sent as the X-Anonymous-Id header when set and no
	// bearer token is configured.
	AnonymousID string
}

// NewClient creates a checkout API client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// AsCustomer returns a copy of the client identified by the given bearer
// token.
func (c *Client) AsCustomer(token string) *Client {
	clone := *c
	clone.BearerToken = token
	clone.AnonymousID = ""
	return &clone
}

// AsGuest returns a copy of the client identified by the given anonymous id.
func (c *Client) AsGuest(anonymousID string) *Client {
	clone := *c
	clone.BearerToken = ""
	clone.AnonymousID = anonymousID
	return &clone
}
