package orders

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID              string          `json:"id"`
	Customer        string          `json:"customer"`
	Email           string          `json:"email"`
	Items           int             `json:"items"`
	Total           decimal.Decimal `json:"total"`
	Status          Status          `json:"status"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	Date            time.Time       `json:"date"`
	ShippingAddress string          `json:"shippingAddress"`
}

// Line is one purchased product, priced at checkout time.
type Line struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	SKU       string          `json:"sku,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Contact is what the checkout form collects.
type Contact struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
	Phone     string `json:"phone,omitempty"`
}

func (c Contact) Name() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// FullAddress renders the one-line form used in order listings, e.g. "123 Main St, New York, NY 10001".
func (c Contact) FullAddress() string {
	return strings.TrimSpace(c.Address + ", " + c.City + ", " + strings.TrimSpace(c.State+" "+c.ZipCode))
}

// Filter selects orders by status ("" for all) and a case-insensitive substring of
// id, customer or email.
type Filter struct {
	Status Status
	Search string
}

func (f Filter) Matches(o Order) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(o.ID), q) ||
		strings.Contains(strings.ToLower(o.Customer), q) ||
		strings.Contains(strings.ToLower(o.Email), q)
}

// Counts is the number of orders per status, plus "all".
type Counts map[string]int

func CountByStatus(list []Order) Counts {
	c := Counts{"all": len(list)}
	for _, s := range Statuses {
		c[string(s)] = 0
	}
	for _, o := range list {
		c[string(o.Status)]++
	}
	return c
}
