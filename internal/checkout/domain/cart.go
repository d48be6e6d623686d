package domain

// CartState is the cart service's view of where a cart sits in its lifecycle.
type CartState string

const (
	CartStateActive  CartState = "active"
	CartStateOrdered CartState = "ordered"
	CartStateMerged  CartState = "merged"
)

// LineItem is one purchasable entry in a cart.
type LineItem struct {
	ID         string `json:"id"`
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	Quantity   int64  `json:"quantity"`
	UnitPrice  Money  `json:"unit_price"`
	TotalPrice Money  `json:"total_price"`
}

// Cart is a snapshot of the cart service's current state for a cart id.
// Version is the cart's optimistic-concurrency counter; any write to the
// cart bumps it, which is how stale sessions are detected.
type Cart struct {
	ID         string     `json:"id"`
	Version    int64      `json:"version"`
	State      CartState  `json:"state"`
	LineItems  []LineItem `json:"line_items"`
	TotalPrice Money      `json:"total_price"`
}

// CheckoutEligible reports whether the cart can be taken to payment: it must
// be active, non-empty, and carry a positive total.
func (c *Cart) CheckoutEligible() bool {
	if c.State != CartStateActive {
		return false
	}
	if len(c.LineItems) == 0 {
		return false
	}
	return c.TotalPrice.IsPositive()
}
