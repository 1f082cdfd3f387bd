//go:build ignore

package main

import (
	"context"

	"mini-pos/internal/catalog"
	"mini-pos/internal/config"
	"mini-pos/internal/database"
	"mini-pos/internal/repository"
)

// Loads the POS_CATALOG_FILE snapshot into the products table.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := config.NewLogger(cfg.Logger)
	ctx := context.Background()

	if err := database.Migrate(cfg.Database, logger); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database")
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	products, err := catalog.NewFileSource(cfg.POS.CatalogFile, logger).ListProducts(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to read catalogue snapshot")
	}

	if err := repository.NewProductRepository(pool, logger).Upsert(ctx, products); err != nil {
		logger.Fatal().Err(err).Msg("Failed to seed products")
	}

	logger.Info().Int("products", len(products)).Msg("catalogue seeded")
}
