package domain

import "github.com/shopspring/decimal"

// CartLine is a product held in the cart together with its quantity
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Total returns price * quantity for the line
func (l CartLine) Total() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CheckoutSummary is the priced view of a cart shown before payment
type CheckoutSummary struct {
	Lines    []CartLine      `json:"lines"`
	Count    int             `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Delivery decimal.Decimal `json:"delivery"`
	Total    decimal.Decimal `json:"total"`
}

// Receipt is returned by the payment stub
type Receipt struct {
	Reference string          `json:"reference"`
	Total     decimal.Decimal `json:"total"`
	Message   string          `json:"message"`
}
