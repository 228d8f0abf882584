package orders

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const EventOrderPlaced = "OrderPlaced"

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"` // e.g. "storefront"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type OrderPlacedPayload struct {
	OrderID   string          `json:"order_id"`
	SessionID string          `json:"session_id"`
	Contact   Contact         `json:"contact"`
	Lines     []Line          `json:"lines"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	PlacedAt  time.Time       `json:"placed_at"`
}

// Order summarizes the payload the way the admin console lists orders. Simulated
// checkouts are never charged, so they start out pending on both counts.
func (p OrderPlacedPayload) Order() Order {
	items := 0
	for _, l := range p.Lines {
		items += l.Quantity
	}
	return Order{
		ID:              p.OrderID,
		Customer:        p.Contact.Name(),
		Email:           p.Contact.Email,
		Items:           items,
		Total:           p.Total,
		Status:          StatusPending,
		PaymentStatus:   PaymentPending,
		Date:            p.PlacedAt,
		ShippingAddress: p.Contact.FullAddress(),
	}
}
