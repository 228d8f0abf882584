package checkout

import "github.com/shopspring/decimal"

var (
	FreeShippingOver = decimal.NewFromInt(100)
	FlatShipping     = decimal.RequireFromString("9.99")
	TaxRate          = decimal.RequireFromString("0.08")
)

// Quote prices a cart subtotal. Tax is rounded to cents before it is added to the total.
type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
	// FreeShippingGap is how much more would make shipping free; zero once it is.
	FreeShippingGap decimal.Decimal `json:"freeShippingGap"`
}

func NewQuote(subtotal decimal.Decimal) Quote {
	q := Quote{Subtotal: subtotal, Shipping: decimal.Zero, FreeShippingGap: decimal.Zero}
	if !subtotal.GreaterThan(FreeShippingOver) {
		q.Shipping = FlatShipping
		q.FreeShippingGap = FreeShippingOver.Sub(subtotal)
	}
	q.Tax = subtotal.Mul(TaxRate).Round(2)
	q.Total = subtotal.Add(q.Shipping).Add(q.Tax)
	return q
}
