package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/merchkit/checkout/internal/checkout/domain"
	"github.com/merchkit/checkout/internal/checkout/service"
)

// CartClient reads live cart state from the cart service.
type CartClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

var _ service.CartFetcher = (*CartClient)(nil)

func NewCartClient(baseURL string) *CartClient {
	return &CartClient{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// GetCart fetches the current snapshot for a cart id. A 404 from the cart
// service maps to service.ErrCartNotFound; the caller treats the id as gone.
func (c *CartClient) GetCart(ctx context.Context, id string) (domain.Cart, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/carts/"+url.PathEscape(id), nil)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("cart service: build request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("cart service: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return domain.Cart{}, service.ErrCartNotFound
	}

	var cart domain.Cart
	if err := decodeJSON("cart service", resp, http.StatusOK, &cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}
