package httpx

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/go-chi/chi/v5"
)

// ProductLookup resolves the product a cart line is added for.
type ProductLookup interface {
	ProductByID(ctx context.Context, id string) (*catalog.Product, error)
}

type CartHandler struct {
	Carts    *cart.Registry
	Products ProductLookup
}

func (h *CartHandler) Register(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.get)
		r.Delete("/", h.clear)
		r.Post("/items", h.addItem)
		r.Patch("/items/{productID}", h.updateItem)
		r.Delete("/items/{productID}", h.removeItem)
		r.Post("/toggle", h.drawer((*cart.Store).ToggleCart))
		r.Post("/open", h.drawer((*cart.Store).OpenCart))
		r.Post("/close", h.drawer((*cart.Store).CloseCart))
	})
}

func (h *CartHandler) store(r *http.Request) *cart.Store {
	return h.Carts.Store(r.Context(), sessionID(r))
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store(r).Snapshot())
}

type addItemReq struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" || req.Quantity < 0 {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	p, err := h.Products.ProductByID(r.Context(), req.ProductID)
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	if p.Stock <= 0 {
		writeError(w, http.StatusConflict, "Out of stock")
		return
	}
	if req.Quantity > p.Stock {
		writeError(w, http.StatusConflict, "Not enough stock")
		return
	}

	s := h.store(r)
	s.AddItem(r.Context(), *p, req.Quantity)
	requestLog(r).WithField("product_id", p.ID).WithField("quantity", req.Quantity).Debug("added to cart")
	writeJSON(w, http.StatusOK, s.Snapshot())
}

type updateItemReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	s := h.store(r)
	s.UpdateQuantity(r.Context(), chi.URLParam(r, "productID"), req.Quantity)
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	s := h.store(r)
	s.RemoveItem(r.Context(), chi.URLParam(r, "productID"))
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	s := h.store(r)
	s.ClearCart(r.Context())
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *CartHandler) drawer(op func(*cart.Store)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := h.store(r)
		op(s)
		writeJSON(w, http.StatusOK, s.Snapshot())
	}
}
