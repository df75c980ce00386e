package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"storefront-checkout/internal/cart"
	"storefront-checkout/internal/catalog"
	"storefront-checkout/internal/checkout"
	"storefront-checkout/internal/config"
	"storefront-checkout/internal/db"
	"storefront-checkout/internal/geocode"
	"storefront-checkout/internal/httpserver"
	"storefront-checkout/internal/payment"
	"storefront-checkout/internal/push"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()

	var dbpool *pgxpool.Pool
	var catalogRepo catalog.Repository
	if cfg.DBConnString != "" {
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatalf("connect to db: %v", err)
		}
		defer pool.Close()
		dbpool = pool
		catalogRepo = catalog.NewPostgres(pool, logger)
	} else {
		logger.Printf("no DB_DSN set, using built-in demo catalog")
		catalogRepo = catalog.NewMemory(catalog.DemoItems())
	}
	catalogService := catalog.New(catalogRepo)

	var cartStore cart.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatalf("connect to redis: %v", err)
		}
		defer client.Close()
		cartStore = cart.NewRedisStore(client)
	} else {
		cartStore = cart.NewMemoryStore()
	}
	cartService := cart.New(cartStore, catalogService)

	gateway := payment.NewClient(payment.Config{
		BaseURL: cfg.PaymentBaseURL,
		APIKey:  cfg.PaymentAPIKey,
		Logger:  logger,
	})
	orchestrator := checkout.New(gateway, cfg.Currency, logger)

	var pushTokens push.TokenProvider
	if cfg.PushBaseURL != "" {
		pushTokens = push.NewClient(push.Config{
			BaseURL:  cfg.PushBaseURL,
			VAPIDKey: cfg.PushVAPIDKey,
			Logger:   logger,
		})
	}

	geocoder := geocode.NewClient(geocode.Config{
		BaseURL:   cfg.GeocodeBaseURL,
		UserAgent: cfg.UserAgent,
		Logger:    logger,
	})

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CatalogSvc:  catalogService,
		CartSvc:     cartService,
		Checkout:    orchestrator,
		PushTokens:  pushTokens,
		Geocoder:    geocoder,
		AllowOrigin: cfg.AllowOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
