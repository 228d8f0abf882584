package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-storefront/internal/admin"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	Admin *admin.Service
}

func (h *AdminHandler) Register(r chi.Router) {
	r.Route("/admin/api", func(r chi.Router) {
		r.Get("/dashboard", h.dashboard)
		r.Get("/orders", h.listOrders)
		r.Get("/orders/{id}", h.getOrder)
		r.Patch("/orders/{id}/status", h.updateStatus)
		r.Post("/orders/{id}/cancel", h.cancelOrder)
		r.Get("/users", h.users)
		r.Get("/products", h.products)
		r.Get("/categories", h.categories)
	})
}

func (h *AdminHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Admin.Dashboard(r.Context())
	if err != nil {
		writeOrderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *AdminHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.Admin.Orders(r.Context(), q.Get("status"), q.Get("search"))
	if err != nil {
		writeOrderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.Admin.Order(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeOrderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type statusReq struct {
	Status string `json:"status"`
}

func (h *AdminHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	o, err := h.Admin.UpdateOrderStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeOrderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *AdminHandler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.Admin.CancelOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeOrderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *AdminHandler) users(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Admin.Users(r.URL.Query().Get("search")))
}

func (h *AdminHandler) products(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Admin.Products(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *AdminHandler) categories(w http.ResponseWriter, r *http.Request) {
	cs, err := h.Admin.Categories(r.Context())
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	if cs == nil {
		cs = []catalog.Category{}
	}
	writeJSON(w, http.StatusOK, cs)
}

func writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	var bad *admin.BadStatusError
	switch {
	case errors.As(err, &bad):
		writeError(w, http.StatusBadRequest, bad.Error())
	case errors.Is(err, orders.ErrNotFound):
		writeError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, orders.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	default:
		requestLog(r).WithError(err).Error("admin order request failed")
		writeError(w, http.StatusInternalServerError, "Internal error")
	}
}
