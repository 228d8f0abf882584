package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/go-chi/chi/v5"
)

type CheckoutHandler struct {
	Carts    *cart.Registry
	Checkout *checkout.Service
}

func (h *CheckoutHandler) Register(r chi.Router) {
	r.Get("/api/checkout/quote", h.quote)
	r.Post("/api/checkout", h.placeOrder)
}

type quoteResp struct {
	Items []cart.Item `json:"items"`
	checkout.Quote
}

func (h *CheckoutHandler) quote(w http.ResponseWriter, r *http.Request) {
	s := h.Carts.Store(r.Context(), sessionID(r))
	items := s.Items()
	writeJSON(w, http.StatusOK, quoteResp{Items: items, Quote: checkout.NewQuote(cart.TotalPrice(items))})
}

func (h *CheckoutHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var contact orders.Contact
	if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	sid := sessionID(r)
	receipt, err := h.Checkout.PlaceOrder(r.Context(), sid, h.Carts.Store(r.Context(), sid), contact)
	var verr *checkout.ValidationError
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, receipt)
	case errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, http.StatusConflict, "Your cart is empty")
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "Please fill in all required fields",
			"fields": verr.Fields,
		})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "Checkout interrupted")
	default:
		requestLog(r).WithError(err).Error("place order")
		writeError(w, http.StatusInternalServerError, "Checkout failed")
	}
}
