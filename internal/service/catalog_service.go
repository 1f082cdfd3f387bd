package service

import (
	"context"
	"fmt"
	"strings"

	"mini-pos/internal/catalog"
	"mini-pos/internal/model"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	index  *catalog.Index
	source catalog.Source
	logger zerolog.Logger
}

// NewCatalogService creates a catalogue service over index. Reload reads
// from source.
func NewCatalogService(index *catalog.Index, source catalog.Source, logger zerolog.Logger) CatalogService {
	return &catalogService{
		index:  index,
		source: source,
		logger: logger.With().Str("service", "catalog").Logger(),
	}
}

// Search returns products matching query within category.
func (s *catalogService) Search(query, category string) []model.Product {
	products := s.index.Search(query, category)

	s.logger.Debug().
		Str("query", query).
		Str("category", category).
		Int("count", len(products)).
		Msg("searched products")

	return products
}

// GetByCode retrieves a product by its code or barcode.
func (s *catalogService) GetByCode(code string) (*model.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		s.logger.Warn().Msg("product code is empty")
		return nil, model.ErrProductNotFound
	}

	product, err := s.index.FindByCode(code)
	if err != nil {
		s.logger.Debug().Str("product_code", code).Msg("product not found")
		return nil, err
	}

	return &product, nil
}

// Categories lists the distinct product categories.
func (s *catalogService) Categories() []string {
	return s.index.Categories()
}

// Reload replaces the catalogue with a fresh read from the source and
// returns the number of products loaded.
func (s *catalogService) Reload(ctx context.Context) (int, error) {
	if err := s.index.Load(ctx, s.source); err != nil {
		s.logger.Error().Err(err).Msg("failed to reload catalogue")
		return 0, fmt.Errorf("failed to reload catalogue: %w", err)
	}

	count := s.index.Len()
	s.logger.Info().Int("count", count).Msg("catalogue reloaded")

	return count, nil
}
