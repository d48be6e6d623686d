package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/merchkit/checkout/internal/checkout/domain"
	"github.com/merchkit/checkout/internal/checkout/service"
)

// OrderClient turns captured payments into orders via the order service.
type OrderClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

var _ service.OrderCreator = (*OrderClient)(nil)

func NewOrderClient(baseURL string) *OrderClient {
	return &OrderClient{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// CreateOrder submits the draft and returns the created order. The order
// service answers 201; anything else surfaces as a RemoteError, which the
// capture flow escalates because authorization has already succeeded.
func (c *OrderClient) CreateOrder(ctx context.Context, draft domain.OrderDraft) (domain.Order, error) {
	var order domain.Order
	err := postJSON(ctx, c.HTTPClient, "order service", c.BaseURL+"/v1/orders", draft, &order, http.StatusCreated)
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}
