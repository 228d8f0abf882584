package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	key, value []byte
	headers    []kafka.Header
}

type fakePublisher struct {
	sent []sentMessage
	err  error
}

func (f *fakePublisher) Publish(key, value []byte, headers ...kafka.Header) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{key, value, headers})
	return nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestQuote(t *testing.T) {
	q := NewQuote(dec("50"))
	assert.True(t, dec("9.99").Equal(q.Shipping))
	assert.True(t, dec("4").Equal(q.Tax))
	assert.True(t, dec("63.99").Equal(q.Total))
	assert.True(t, dec("50").Equal(q.FreeShippingGap))

	q = NewQuote(dec("100"))
	assert.True(t, dec("9.99").Equal(q.Shipping), "free shipping starts above 100")

	q = NewQuote(dec("100.01"))
	assert.True(t, q.Shipping.IsZero())
	assert.True(t, q.FreeShippingGap.IsZero())
	assert.True(t, dec("8").Equal(q.Tax))
	assert.True(t, dec("108.01").Equal(q.Total))

	q = NewQuote(dec("19.99"))
	assert.True(t, dec("1.60").Equal(q.Tax), "tax rounds to cents")
}

func newStore(t *testing.T) *cart.Store {
	log, _ := logtest.NewNullLogger()
	return cart.NewStore(context.Background(), cart.NewMemoryStorage(), "cart:s1", log)
}

func validContact() orders.Contact {
	return orders.Contact{
		Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace",
		Address: "123 Main St", City: "New York", State: "NY", ZipCode: "10001",
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	pub := &fakePublisher{}
	s := NewService(pub, 0, "storefront", log)

	_, err := s.PlaceOrder(context.Background(), "s1", newStore(t), validContact())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, pub.sent)
}

func TestPlaceOrderValidatesContact(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	store := newStore(t)
	store.AddItem(context.Background(), catalog.Product{ID: "a", BasePrice: "10"}, 1)
	s := NewService(&fakePublisher{}, 0, "storefront", log)

	c := validContact()
	c.Email = "not-an-email"
	c.City = "  "
	_, err := s.PlaceOrder(context.Background(), "s1", store, c)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"email", "city"}, verr.Fields)
	assert.Equal(t, 1, store.TotalItems(), "cart survives a rejected checkout")
}

func TestPlaceOrderClearsCartAndPublishes(t *testing.T) {
	ctx := context.Background()
	log, _ := logtest.NewNullLogger()
	store := newStore(t)
	store.AddItem(ctx, catalog.Product{ID: "a", Title: "Lamp", SKU: "LMP-1", BasePrice: "40.00"}, 2)
	store.AddItem(ctx, catalog.Product{ID: "b", Title: "Bulb", BasePrice: "5.50"}, 1)
	pub := &fakePublisher{}
	s := NewService(pub, time.Millisecond, "storefront", log)
	s.now = func() time.Time { return time.Date(2026, 1, 19, 10, 30, 0, 0, time.UTC) }

	r, err := s.PlaceOrder(ctx, "s1", store, validContact())
	require.NoError(t, err)

	assert.Empty(t, store.Items())
	assert.True(t, dec("85.50").Equal(r.Quote.Subtotal))
	assert.True(t, dec("9.99").Equal(r.Quote.Shipping))
	assert.True(t, dec("6.84").Equal(r.Quote.Tax))
	assert.True(t, dec("102.33").Equal(r.Quote.Total))
	assert.Equal(t, "United States", r.Contact.Country)
	require.Len(t, r.Lines, 2)
	assert.True(t, dec("40").Equal(r.Lines[0].UnitPrice))

	require.Len(t, pub.sent, 1)
	msg := pub.sent[0]
	assert.Equal(t, r.OrderID, string(msg.key))
	assert.Equal(t, orders.EventOrderPlaced, kafkax.Header(kafka.Message{Headers: msg.headers}, kafkax.HeaderEventType))

	var ev orders.Envelope
	require.NoError(t, json.Unmarshal(msg.value, &ev))
	assert.Equal(t, orders.EventOrderPlaced, ev.EventType)
	assert.Equal(t, r.OrderID, ev.CorrelationID)
	p, err := kafkax.UnwrapPayload[orders.OrderPlacedPayload](ev.Payload)
	require.NoError(t, err)
	assert.Equal(t, "s1", p.SessionID)
	assert.True(t, r.Quote.Total.Equal(p.Total))
	assert.Equal(t, 3, p.Order().Items)
}

func TestPlaceOrderPublishFailureStillSucceeds(t *testing.T) {
	ctx := context.Background()
	log, hook := logtest.NewNullLogger()
	store := newStore(t)
	store.AddItem(ctx, catalog.Product{ID: "a", BasePrice: "1"}, 1)
	s := NewService(&fakePublisher{err: errors.New("broker down")}, 0, "storefront", log)

	_, err := s.PlaceOrder(ctx, "s1", store, validContact())
	require.NoError(t, err)
	assert.Empty(t, store.Items())
	assert.NotNil(t, hook.LastEntry())
}

func TestPlaceOrderCancelledDuringDelay(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	store := newStore(t)
	store.AddItem(context.Background(), catalog.Product{ID: "a", BasePrice: "1"}, 1)
	s := NewService(&fakePublisher{}, time.Hour, "storefront", log)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.PlaceOrder(ctx, "s1", store, validContact())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, store.TotalItems())
}
