package admin

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ariefcatur/go-storefront/internal/orders"
)

// MockOrders is an in-memory OrderSource seeded with the demo orders.
type MockOrders struct {
	mu    sync.RWMutex
	items []orders.Order
}

func NewMockOrders() *MockOrders {
	return &MockOrders{items: seedOrders()}
}

func (m *MockOrders) List(_ context.Context, f orders.Filter) ([]orders.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []orders.Order{}
	for _, o := range m.items {
		if f.Matches(o) {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *MockOrders) Counts(context.Context) (orders.Counts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return orders.CountByStatus(m.items), nil
}

func (m *MockOrders) Get(_ context.Context, id string) (orders.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.items {
		if o.ID == id {
			return o, nil
		}
	}
	return orders.Order{}, orders.ErrNotFound
}

func (m *MockOrders) UpdateStatus(_ context.Context, id string, to orders.Status) (orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		o := &m.items[i]
		if o.ID != id {
			continue
		}
		if !orders.CanTransition(o.Status, to) {
			return orders.Order{}, fmt.Errorf("%w: %s -> %s", orders.ErrInvalidTransition, o.Status, to)
		}
		o.Status = to
		o.PaymentStatus = orders.PaymentAfter(o.PaymentStatus, to)
		return *o, nil
	}
	return orders.Order{}, orders.ErrNotFound
}
