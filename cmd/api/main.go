package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mini-pos/internal/catalog"
	"mini-pos/internal/checkout"
	"mini-pos/internal/config"
	"mini-pos/internal/customer"
	"mini-pos/internal/database"
	"mini-pos/internal/handler"
	"mini-pos/internal/held"
	"mini-pos/internal/pos"
	"mini-pos/internal/printer"
	"mini-pos/internal/publisher"
	"mini-pos/internal/repository"
	"mini-pos/internal/router"
	"mini-pos/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
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
	logger.Info().Msg("starting mini-pos API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	var pool *pgxpool.Pool
	if cfg.Database.Enabled {
		if cfg.Database.Migrate {
			if err := database.Migrate(cfg.Database, logger); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
		}

		pool, err = database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()
	} else {
		logger.Info().Msg("database disabled, stock and sales are kept in memory only")
	}

	// Initialize repositories
	var (
		productRepo  repository.ProductRepository
		customerRepo repository.CustomerRepository
		saleRepo     repository.SaleRepository
	)
	if pool != nil {
		productRepo = repository.NewProductRepository(pool, logger)
		customerRepo = repository.NewCustomerRepository(pool, logger)
		saleRepo = repository.NewSaleRepository(pool, logger)
	}

	// Initialize catalogue
	source, err := catalogSource(ctx, cfg, productRepo, logger)
	if err != nil {
		return err
	}
	index := catalog.NewIndex(logger)
	catalogService := service.NewCatalogService(index, source, logger)
	if _, err := catalogService.Reload(ctx); err != nil {
		return fmt.Errorf("failed to load catalogue: %w", err)
	}

	// Initialize customer directory
	customers := customer.NewDirectory(logger)
	if customerRepo != nil {
		if err := customers.Load(ctx, customerRepo); err != nil {
			return fmt.Errorf("failed to load customers: %w", err)
		}
	}

	// Initialize held-order store
	heldStore := held.NewMemoryStore()
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		heldStore = held.NewRedisStore(client, cfg.Redis.HeldOrderTTLDuration(), logger)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("held orders stored in redis")
	}

	// Initialize receipt sinks: persistence, events, printing
	var sinks []checkout.ReceiptSink
	var saleService service.SaleService
	if saleRepo != nil {
		saleService = service.NewSaleService(saleRepo, logger)
		sinks = append(sinks, saleService)
	}

	if cfg.Kafka.Enabled {
		writer := publisher.NewKafkaWriter(cfg.Kafka.ReceiptTopic, cfg.Kafka.Brokers...)
		receiptPublisher := publisher.NewReceiptPublisher(writer, logger)
		defer func() {
			if err := receiptPublisher.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to close sale event publisher")
			}
		}()
		sinks = append(sinks, receiptPublisher)
	}

	device, err := printer.NewDevice(cfg.Printer.Type, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize printer: %w", err)
	}
	sinks = append(sinks, printer.NewReceiptPrinter(device, cfg.POS.StoreName, cfg.Printer.Width))

	// Initialize terminal registry
	deps := pos.Dependencies{
		Catalog:        index,
		Customers:      customers,
		HeldStore:      heldStore,
		Numbers:        checkout.NewNumberer(cfg.POS.ReceiptPrefix),
		Sinks:          sinks,
		TaxRate:        cfg.POS.TaxRate,
		ScanTerminator: cfg.POS.ScanTerminatorRune(),
		Persister:      stockPersister(cfg, productRepo, logger),
	}
	registry := pos.NewRegistry(deps, logger)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Catalog:   handler.NewCatalogHandler(catalogService, customers, logger),
		Terminals: handler.NewTerminalHandler(registry, logger),
	}
	if saleService != nil {
		handlers.Sales = handler.NewSaleHandler(saleService, logger)
	}

	// Initialize router
	mux := router.New(handlers, router.Options{
		APIKey:         cfg.Auth.APIKey,
		CORSOrigin:     cfg.Server.CORSOrigin,
		RequestTimeout: cfg.Server.RequestTimeoutDuration(),
	}, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeoutDuration() + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Int("products", index.Len()).
			Str("tax_rate", cfg.POS.TaxRate.String()).
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

		logger.Info().
			Int("terminals", registry.Len()).
			Msg("server shutdown completed")
	}

	return nil
}

// stockPersister returns the repository that mirrors sold stock into the
// products table. Stock is only persisted when that table is also the
// catalogue source; a snapshot catalogue keeps stock in memory.
func stockPersister(cfg *config.Config, products repository.ProductRepository, logger zerolog.Logger) catalog.StockPersister {
	if products == nil || cfg.POS.CatalogSource != config.CatalogSourcePostgres {
		logger.Info().
			Str("catalog_source", cfg.POS.CatalogSource).
			Msg("stock persistence disabled, stock is kept in memory only")
		return nil
	}
	return products
}

// catalogSource selects where the catalogue is read from. An S3 source
// falls back to the local snapshot file when the bucket cannot be read.
func catalogSource(ctx context.Context, cfg *config.Config, products repository.ProductRepository, logger zerolog.Logger) (catalog.Source, error) {
	switch cfg.POS.CatalogSource {
	case config.CatalogSourcePostgres:
		if products == nil {
			return nil, fmt.Errorf("postgres catalogue source requires the database")
		}
		logger.Info().Msg("catalogue loaded from postgres")
		return products, nil

	case config.CatalogSourceS3:
		fileSource := catalog.NewFileSource(cfg.POS.CatalogFile, logger)
		s3Source, err := catalog.NewS3Source(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Key, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 catalogue source, falling back to local snapshot")
			return fileSource, nil
		}
		return catalog.NewFallbackSource(s3Source, fileSource, logger), nil

	default:
		logger.Info().Str("path", cfg.POS.CatalogFile).Msg("catalogue loaded from local snapshot")
		return catalog.NewFileSource(cfg.POS.CatalogFile, logger), nil
	}
}
