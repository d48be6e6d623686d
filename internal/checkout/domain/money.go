package domain

// Money is a monetary value in minor units (pence, cents) with an ISO 4217
// currency code. Integer minor units avoid float rounding in totals and
// match what the payment processor expects.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// IsPositive reports whether the value is greater than zero with a currency
// set. A non-positive total is never checkout-eligible.
func (m Money) IsPositive() bool {
	return m.Amount > 0 && m.Currency != ""
}

// Equal reports whether two money values are identical in amount and
// currency.
func (m Money) Equal(o Money) bool {
	return m.Amount == o.Amount && m.Currency == o.Currency
}
