package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/ariefcatur/go-storefront/internal/cart"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/metrics"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const defaultCountry = "United States"

var ErrEmptyCart = errors.New("cart is empty")

// ValidationError lists the contact fields that are missing or malformed.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid contact: " + strings.Join(e.Fields, ", ")
}

// Publisher is satisfied by the Kafka producer.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header) error
}

// Cart is the part of a cart store checkout reads and clears.
type Cart interface {
	Items() []cart.Item
	ClearCart(ctx context.Context)
}

type Receipt struct {
	OrderID  string         `json:"orderId"`
	Lines    []orders.Line  `json:"lines"`
	Quote    Quote          `json:"quote"`
	Contact  orders.Contact `json:"contact"`
	PlacedAt time.Time      `json:"placedAt"`
}

type Service struct {
	pub      Publisher
	delay    time.Duration
	producer string
	now      func() time.Time
	log      logrus.FieldLogger
}

// NewService builds a checkout. pub may be nil, in which case orders are not announced.
func NewService(pub Publisher, delay time.Duration, producer string, log logrus.FieldLogger) *Service {
	return &Service{pub: pub, delay: delay, producer: producer, now: time.Now, log: log}
}

// PlaceOrder simulates payment for the session's cart: it validates, waits the
// configured delay, clears the cart and announces the order. Once validation passes
// the order always succeeds unless ctx ends during the delay.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string, c Cart, contact orders.Contact) (Receipt, error) {
	items := c.Items()
	if len(items) == 0 {
		return Receipt{}, ErrEmptyCart
	}
	contact = normalize(contact)
	if err := validate(contact); err != nil {
		return Receipt{}, err
	}

	if s.delay > 0 {
		t := time.NewTimer(s.delay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return Receipt{}, fmt.Errorf("place order: %w", ctx.Err())
		}
	}

	r := Receipt{
		OrderID:  uuid.NewString(),
		Lines:    make([]orders.Line, 0, len(items)),
		Quote:    NewQuote(cart.TotalPrice(items)),
		Contact:  contact,
		PlacedAt: s.now().UTC(),
	}
	for _, it := range items {
		r.Lines = append(r.Lines, orders.Line{
			ProductID: it.Product.ID,
			Title:     it.Product.Title,
			SKU:       it.Product.SKU,
			Quantity:  it.Quantity,
			UnitPrice: cart.UnitPrice(it.Product),
		})
	}

	c.ClearCart(ctx)
	metrics.OrdersPlaced.Inc()
	s.announce(ctx, sessionID, r)
	return r, nil
}

func (s *Service) announce(ctx context.Context, sessionID string, r Receipt) {
	log := s.log.WithField("order_id", r.OrderID)
	if s.pub == nil {
		log.Info("order placed")
		return
	}
	payload := orders.OrderPlacedPayload{
		OrderID:   r.OrderID,
		SessionID: sessionID,
		Contact:   r.Contact,
		Lines:     r.Lines,
		Subtotal:  r.Quote.Subtotal,
		Shipping:  r.Quote.Shipping,
		Tax:       r.Quote.Tax,
		Total:     r.Quote.Total,
		PlacedAt:  r.PlacedAt,
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    r.PlacedAt,
		Producer:      s.producer,
		TraceID:       middleware.GetReqID(ctx),
		CorrelationID: r.OrderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	err := s.pub.Publish(orders.PartitionKey(r.OrderID), kafkax.MustMarshal(ev), kafkax.EventHeaders(orders.EventOrderPlaced, 1)...)
	if err != nil {
		log.WithError(err).Error("publish order placed")
		return
	}
	log.WithField("event_id", ev.EventID).Info("order placed")
}

func normalize(c orders.Contact) orders.Contact {
	trim := strings.TrimSpace
	c.Email, c.FirstName, c.LastName = trim(c.Email), trim(c.FirstName), trim(c.LastName)
	c.Address, c.City, c.State, c.ZipCode = trim(c.Address), trim(c.City), trim(c.State), trim(c.ZipCode)
	c.Country, c.Phone = trim(c.Country), trim(c.Phone)
	if c.Country == "" {
		c.Country = defaultCountry
	}
	return c
}

func validate(c orders.Contact) error {
	var missing []string
	required := []struct{ name, value string }{
		{"email", c.Email},
		{"firstName", c.FirstName},
		{"lastName", c.LastName},
		{"address", c.Address},
		{"city", c.City},
		{"state", c.State},
		{"zipCode", c.ZipCode},
	}
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			missing = append(missing, "email")
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
