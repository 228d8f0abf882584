package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK          = "ok"
	OutcomeRemoteError = "remote_error"
	OutcomeParseError  = "parse_error"
	OutcomeTransport   = "transport_error"
)

var (
	// CatalogRequests counts calls to the remote catalog API by endpoint and outcome.
	CatalogRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_catalog_requests_total",
		Help: "Requests issued to the remote catalog API.",
	}, []string{"endpoint", "outcome"})

	CartMutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_mutations_total",
		Help: "Cart item-list mutations by operation.",
	}, []string{"op"})

	CartStorageErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_storage_errors_total",
		Help: "Recovered cart storage failures by phase (load, decode, save).",
	}, []string{"phase"})

	OrdersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_placed_total",
		Help: "Simulated checkouts completed.",
	})

	GateAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_gate_attempts_total",
		Help: "Password gate attempts by result.",
	}, []string{"result"})
)

// Register adds every storefront collector to reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(CatalogRequests, CartMutations, CartStorageErrors, OrdersPlaced, GateAttempts)
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
