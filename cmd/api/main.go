package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/stdr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	cartsvc "storefront/internal/service/cart"
	catalogsvc "storefront/internal/service/catalog"
	customersvc "storefront/internal/service/customer"
	"storefront/internal/shopify"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if cfg.StoreDomain == "" || cfg.StorefrontToken == "" {
		logger.Fatalf("SHOPIFY_STORE_DOMAIN and SHOPIFY_STOREFRONT_ACCESS_TOKEN must be set")
	}

	ctx := context.Background()
	var dbpool *pgxpool.Pool
	if cfg.CacheBackend == cache.BackendPostgres {
		var err error
		dbpool, err = db.Connect(ctx, cfg.DBConnString, db.CacheOptions)
		if err != nil {
			logger.Fatalf("connect to db: %v", err)
		}
		defer dbpool.Close()
	}

	store, closeStore, err := cache.Open(ctx, cache.OpenOptions{
		Backend:   cfg.CacheBackend,
		Pool:      dbpool,
		RedisAddr: cfg.RedisAddr,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatalf("open cache: %v", err)
	}
	defer closeStore()

	rlog := stdr.New(logger)
	loader := cache.NewLoader(store, cfg.CacheTTL, rlog, prometheus.DefaultRegisterer)
	client := shopify.New(shopify.Options{
		Endpoint:    cfg.GraphQLEndpoint(),
		AccessToken: cfg.StorefrontToken,
		Timeout:     cfg.UpstreamTimeout,
		Metrics:     shopify.NewMetrics(prometheus.DefaultRegisterer),
	}, rlog)

	customerService := customersvc.New(client, rlog)
	cartService := cartsvc.New(client, rlog)
	catalogService := catalogsvc.New(client, loader, config.EnsureStartsWith(cfg.StoreDomain, "https://"), rlog)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		CustomerSvc:        customerService,
		CartSvc:            cartService,
		CatalogSvc:         catalogService,
		Cache:              loader,
		Gatherer:           prometheus.DefaultGatherer,
		RevalidationSecret: cfg.RevalidationSecret,
		SecureCookies:      cfg.Production(),
		AllowedOrigins:     cfg.CORSAllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s (cache=%s)", cfg.HTTPAddr, cfg.CacheBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
