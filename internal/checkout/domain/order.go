package domain

import "time"

// OrderDraft is the input to the order service when a captured payment is
// turned into an order: the cart reference, the owning shopper, and the
// authorization that paid for it.
type OrderDraft struct {
	CartID        string              `json:"cart_id"`
	CartVersion   int64               `json:"cart_version"`
	CustomerID    string              `json:"customer_id,omitempty"`
	AnonymousID   string              `json:"anonymous_id,omitempty"`
	Authorization AuthorizationResult `json:"authorization"`
}

// Order is the order service's record of a completed purchase.
type Order struct {
	ID          string    `json:"id"`
	OrderNumber string    `json:"order_number"`
	CartID      string    `json:"cart_id"`
	CustomerID  string    `json:"customer_id,omitempty"`
	AnonymousID string    `json:"anonymous_id,omitempty"`
	TotalPrice  Money     `json:"total_price"`
	CreatedAt   time.Time `json:"created_at"`

	// PaymentTransactionID links the order back to the processor-side charge
	// for reconciliation.
	PaymentTransactionID string `json:"payment_transaction_id,omitempty"`
}
