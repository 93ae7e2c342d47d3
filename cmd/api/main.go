package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/payment"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
	"storefront/internal/stats"

	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Apply schema migrations before opening the pool
	if err := database.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	variantRepo := repository.NewVariantRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	statsRepo := repository.NewStatsRepository(pool, logger)

	// Cart store: Redis when configured, in-process memory otherwise
	var cartStore cart.Store
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer client.Close()
		cartStore = cart.NewRedisStore(client)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("using redis cart store")
	} else {
		cartStore = cart.NewMemoryStore()
		logger.Info().Msg("using in-memory cart store (redis disabled)")
	}
	cartManager := cart.NewManager(cartStore, logger)

	// Catalogue seed loader with S3 and local fallback
	var seedLoader catalog.Loader
	if cfg.Catalog.S3Enabled {
		s3Loader, err := catalog.NewS3Loader(ctx, cfg.Catalog.Bucket, cfg.Catalog.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 seed loader, falling back to local file system")
			seedLoader = catalog.NewFileLoader(logger)
		} else {
			seedLoader = s3Loader
		}
	} else {
		seedLoader = catalog.NewFileLoader(logger)
		logger.Info().Msg("using local file system for seed documents (S3 disabled)")
	}

	// Payment client, optional
	var payments payment.Client
	if cfg.Payment.Enabled {
		payments = payment.NewHTTPClient(cfg.Payment, logger)
	} else {
		logger.Info().Msg("payment provider disabled, orders are placed without checkout sessions")
	}

	// Initialize services
	validator := service.NewInventoryValidator(variantRepo, logger)
	productService := service.NewProductService(productRepo, variantRepo, logger)
	orderService := service.NewOrderService(orderRepo, statsRepo, validator, payments, logger)

	// Background order-stats rollup
	refresher := stats.NewRefresher(statsRepo, time.Duration(cfg.Stats.RefreshInterval)*time.Second, logger)
	go refresher.Run(ctx)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, seedLoader, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	cartHandler := handler.NewCartHandler(cartManager, logger)
	webhookHandler := handler.NewWebhookHandler(orderService, cfg.Payment.WebhookSecret, logger)

	// Initialize router
	mux := router.New(productHandler, orderHandler, cartHandler, webhookHandler, userRepo, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
