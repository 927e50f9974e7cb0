package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-logr/stdr"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/db"
	catalogsvc "storefront/internal/service/catalog"
	"storefront/internal/shopify"
	"storefront/internal/warmer"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to a kind,handle CSV of catalog entries to preload")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[warm] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if cfg.CacheBackend == cache.BackendMemory {
		logger.Fatalf("CACHE_BACKEND=memory is process-local; warming needs postgres or redis")
	}
	ctx := context.Background()

	var pool *pgxpool.Pool
	if cfg.CacheBackend == cache.BackendPostgres {
		var err error
		pool, err = db.Connect(ctx, cfg.DBConnString, db.Options{ApplicationName: "storefront-warm", MaxConns: 4})
		if err != nil {
			logger.Fatalf("connect db: %v", err)
		}
		defer pool.Close()
	}

	store, closeStore, err := cache.Open(ctx, cache.OpenOptions{
		Backend:   cfg.CacheBackend,
		Pool:      pool,
		RedisAddr: cfg.RedisAddr,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatalf("open cache: %v", err)
	}
	defer closeStore()

	if pg, ok := store.(*cache.Postgres); ok {
		n, err := pg.DeleteExpired(ctx)
		if err != nil {
			logger.Fatalf("prune expired entries: %v", err)
		}
		logger.Printf("pruned %d expired cache entries", n)
	}

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	rlog := stdr.New(logger)
	client := shopify.New(shopify.Options{
		Endpoint:    cfg.GraphQLEndpoint(),
		AccessToken: cfg.StorefrontToken,
		Timeout:     cfg.UpstreamTimeout,
	}, rlog)
	loader := cache.NewLoader(store, cfg.CacheTTL, rlog, nil)
	svc := catalogsvc.New(client, loader, config.EnsureStartsWith(cfg.StoreDomain, "https://"), rlog)

	start := time.Now()
	count, err := warmer.NewCSVWarmer(f, svc, rlog).Run(ctx)
	if err != nil {
		logger.Fatalf("warm failed after %d entries: %v", count, err)
	}

	fmt.Printf("Warmed %d catalog entries into %s cache in %s\n", count, cfg.CacheBackend, time.Since(start).Truncate(time.Millisecond))
}
