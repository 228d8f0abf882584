package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-storefront/internal/admin"
	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/gate"
	"github.com/ariefcatur/go-storefront/internal/httpx"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/logging"
	"github.com/ariefcatur/go-storefront/internal/metrics"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/ariefcatur/go-storefront/internal/telemetry"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}
	log := logging.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := telemetry.Init(ctx, cfg.ServiceName, cfg.EnableTracing, cfg.OTLPEndpoint, log)
	if err != nil {
		log.WithError(err).Fatal("tracing init")
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(reg)

	// Catalog
	cat := catalog.NewClient(cfg.CatalogAPIURL,
		catalog.WithHTTPClient(&http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}))

	// Carts: Redis when configured, process memory otherwise
	var storage cart.Storage = cart.NewMemoryStorage()
	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("redis unreachable, carts fall back to memory on each failure")
		}
		storage = redisx.NewCartStorage(rdb)
	}
	carts := cart.NewRegistry(storage, func(id string) string { return fmt.Sprintf(redisx.KeyCart, id) }, cfg.CartIdleTTL, log)

	// Kafka producer for placed orders
	var (
		pub  checkout.Publisher
		prod *kafkax.Producer
	)
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		prod = kafkax.NewProducer(brokers, orders.TopicOrderPlaced, 1024, log)
		prod.Start(ctx)
		pub = prod
	}
	co := checkout.NewService(pub, cfg.CheckoutDelay, cfg.ServiceName, log)

	// Admin order source
	var src admin.OrderSource = admin.NewMockOrders()
	if cfg.AdminOrders == "postgres" {
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.WithError(err).Fatal("db connect")
		}
		defer db.Close()
		repo := &orders.Repo{DB: db}
		if err := repo.EnsureSchema(ctx); err != nil {
			log.WithError(err).Fatal("db schema")
		}
		src = repo
	}

	g, err := gate.New(cfg.SitePassword, gate.Options{Secure: cfg.Production()}, log)
	if err != nil {
		log.WithError(err).Fatal("password gate")
	}

	router := httpx.NewRouter(log, reg)
	g.Register(router)
	httpx.Mount(router, g.Middleware,
		&httpx.CatalogHandler{Catalog: cat, PageSize: cfg.CatalogPageSize},
		&httpx.CartHandler{Carts: carts, Products: cat},
		&httpx.CheckoutHandler{Carts: carts, Checkout: co},
		&httpx.AdminHandler{Admin: admin.NewService(src, cat, log)},
	)

	// HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(router, cfg.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// graceful shutdown
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("listen")
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if prod != nil {
		prod.Close()      // stop accepting, flush the inbox
		cancel()          // stop producer loop
		prod.WaitClosed() // writer closed
	}
	if err := shutdownTracing(ctx2); err != nil {
		log.WithError(err).Warn("tracing shutdown")
	}
}
