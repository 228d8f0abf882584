package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/metrics"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Store is the single owner of one cart's State. Every operation is total: storage
// failures are logged and never surface to the caller.
type Store struct {
	mu      sync.Mutex
	state   State
	storage Storage
	key     string
	log     logrus.FieldLogger
}

// NewStore restores the cart persisted under key, or starts empty when the slot is
// missing or unreadable.
func NewStore(ctx context.Context, storage Storage, key string, log logrus.FieldLogger) *Store {
	s := &Store{
		state:   State{Items: []Item{}},
		storage: storage,
		key:     key,
		log:     log.WithField("cart_key", key),
	}
	if items, ok := s.restore(ctx); ok {
		s.state = Reduce(s.state, Load{Items: items})
	}
	return s
}

func (s *Store) restore(ctx context.Context) ([]Item, bool) {
	raw, err := s.storage.Load(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return nil, false
	}
	if err != nil {
		s.recovered(&StorageError{Op: "load", Key: s.key, Err: err})
		return nil, false
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		s.recovered(&StorageError{Op: "decode", Key: s.key, Err: err})
		return nil, false
	}
	if items == nil {
		items = []Item{}
	}
	return items, true
}

func (s *Store) recovered(err *StorageError) {
	metrics.CartStorageErrors.WithLabelValues(err.Op).Inc()
	s.log.WithError(err).Warn("cart storage failure, continuing with in-memory cart")
}

func (s *Store) dispatch(ctx context.Context, a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, a)
	if !mutatesItems(a) {
		return
	}
	b, err := json.Marshal(s.state.Items)
	if err != nil {
		s.recovered(&StorageError{Op: "save", Key: s.key, Err: err})
		return
	}
	if err := s.storage.Save(ctx, s.key, b); err != nil {
		s.recovered(&StorageError{Op: "save", Key: s.key, Err: err})
	}
}

// AddItem merges quantity into the product's line, or appends one, and opens the cart.
// A zero quantity adds one unit.
func (s *Store) AddItem(ctx context.Context, p catalog.Product, quantity int) {
	metrics.CartMutations.WithLabelValues("add").Inc()
	s.dispatch(ctx, AddItem{Product: p, Quantity: quantity})
}

func (s *Store) RemoveItem(ctx context.Context, productID string) {
	metrics.CartMutations.WithLabelValues("remove").Inc()
	s.dispatch(ctx, RemoveItem{ProductID: productID})
}

// UpdateQuantity replaces the line's quantity; quantity <= 0 removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	metrics.CartMutations.WithLabelValues("update").Inc()
	s.dispatch(ctx, UpdateQuantity{ProductID: productID, Quantity: quantity})
}

func (s *Store) ClearCart(ctx context.Context) {
	metrics.CartMutations.WithLabelValues("clear").Inc()
	s.dispatch(ctx, Clear{})
}

func (s *Store) ToggleCart() { s.dispatch(context.Background(), Toggle{}) }
func (s *Store) OpenCart()   { s.dispatch(context.Background(), Open{}) }
func (s *Store) CloseCart()  { s.dispatch(context.Background(), Close{}) }

// Snapshot is a copy of the cart with its derived totals.
type Snapshot struct {
	Items      []Item          `json:"items"`
	IsOpen     bool            `json:"isOpen"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := cloneItems(s.state.Items)
	return Snapshot{
		Items:      items,
		IsOpen:     s.state.Open,
		TotalItems: TotalItems(items),
		TotalPrice: TotalPrice(items),
	}
}

func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.state.Items)
}

func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Open
}

func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TotalItems(s.state.Items)
}

func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TotalPrice(s.state.Items)
}
