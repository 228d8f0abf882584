package httpx

import (
	"net/http"
	"time"

	"github.com/ariefcatur/go-storefront/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// NewRouter builds the base router with health and metrics endpoints. Application
// routes are mounted by the handlers' Register methods.
func NewRouter(log logrus.FieldLogger, reg *prometheus.Registry) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(log), middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(ensureSessionID)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if reg != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(reg))
	}
	return r
}

// Registrar is implemented by every route group.
type Registrar interface {
	Register(r chi.Router)
}

// Mount registers hs on r behind guard. A nil guard leaves the routes open.
func Mount(r chi.Router, guard func(http.Handler) http.Handler, hs ...Registrar) {
	r.Group(func(r chi.Router) {
		if guard != nil {
			r.Use(guard)
		}
		for _, h := range hs {
			h.Register(r)
		}
	})
}
