package cart

import (
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/shopspring/decimal"
)

// Item is one line of the cart. The product is the snapshot taken when it was added;
// price and stock are not revalidated afterwards.
type Item struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// State is the whole cart. Open is UI visibility and is never persisted.
type State struct {
	Items []Item
	Open  bool
}

// Action is a cart transition understood by Reduce.
type Action interface{ isAction() }

type (
	AddItem struct {
		Product  catalog.Product
		Quantity int
	}
	RemoveItem struct {
		ProductID string
	}
	UpdateQuantity struct {
		ProductID string
		Quantity  int
	}
	Clear  struct{}
	Toggle struct{}
	Open   struct{}
	Close  struct{}
	Load   struct {
		Items []Item
	}
)

func (AddItem) isAction()        {}
func (RemoveItem) isAction()     {}
func (UpdateQuantity) isAction() {}
func (Clear) isAction()          {}
func (Toggle) isAction()         {}
func (Open) isAction()           {}
func (Close) isAction()          {}
func (Load) isAction()           {}

// Reduce returns the state after applying a. It never mutates s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case AddItem:
		qty := a.Quantity
		if qty == 0 {
			qty = 1
		}
		items := cloneItems(s.Items)
		if i := indexOf(items, a.Product.ID); i >= 0 {
			items[i].Quantity += qty
		} else {
			items = append(items, Item{Product: a.Product, Quantity: qty})
		}
		return State{Items: items, Open: true}

	case RemoveItem:
		return State{Items: without(s.Items, a.ProductID), Open: s.Open}

	case UpdateQuantity:
		if a.Quantity <= 0 {
			return State{Items: without(s.Items, a.ProductID), Open: s.Open}
		}
		items := cloneItems(s.Items)
		if i := indexOf(items, a.ProductID); i >= 0 {
			items[i].Quantity = a.Quantity
		}
		return State{Items: items, Open: s.Open}

	case Clear:
		return State{Items: []Item{}, Open: s.Open}
	case Toggle:
		return State{Items: s.Items, Open: !s.Open}
	case Open:
		return State{Items: s.Items, Open: true}
	case Close:
		return State{Items: s.Items, Open: false}
	case Load:
		return State{Items: cloneItems(a.Items), Open: s.Open}
	}
	return s
}

// mutatesItems reports whether a changes the item list and so must be persisted.
func mutatesItems(a Action) bool {
	switch a.(type) {
	case AddItem, RemoveItem, UpdateQuantity, Clear:
		return true
	}
	return false
}

func TotalItems(items []Item) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// TotalPrice sums unit price × quantity. A price that does not parse counts as zero.
func TotalPrice(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(UnitPrice(it.Product).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func UnitPrice(p catalog.Product) decimal.Decimal {
	d, err := decimal.NewFromString(p.BasePrice)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func indexOf(items []Item, productID string) int {
	for i := range items {
		if items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

func without(items []Item, productID string) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Product.ID != productID {
			out = append(out, it)
		}
	}
	return out
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
