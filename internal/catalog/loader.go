package catalog

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"mini-pos/internal/model"

	"github.com/rs/zerolog"
)

// fileSource implements Source for a gzipped catalogue snapshot on disk.
type fileSource struct {
	path   string
	logger zerolog.Logger
}

// NewFileSource creates a Source reading a gzipped JSON-lines snapshot,
// one product object per line.
func NewFileSource(path string, logger zerolog.Logger) Source {
	return &fileSource{
		path:   path,
		logger: logger.With().Str("component", "catalog-file-source").Logger(),
	}
}

// ListProducts reads every product in the snapshot file.
func (s *fileSource) ListProducts(ctx context.Context) ([]model.Product, error) {
	s.logger.Info().Str("file", s.path).Msg("loading catalogue snapshot")

	file, err := os.Open(s.path)
	if err != nil {
		s.logger.Error().Err(err).Str("file", s.path).Msg("failed to open catalogue snapshot")
		return nil, fmt.Errorf("failed to open catalogue snapshot %s: %w", s.path, err)
	}
	defer file.Close()

	products, err := readSnapshot(ctx, file)
	if err != nil {
		s.logger.Error().Err(err).Str("file", s.path).Msg("failed to read catalogue snapshot")
		return nil, fmt.Errorf("failed to read catalogue snapshot %s: %w", s.path, err)
	}

	s.logger.Info().
		Str("file", s.path).
		Int("products_loaded", len(products)).
		Msg("catalogue snapshot loaded")

	return products, nil
}

// readSnapshot decodes a gzipped JSON-lines product stream.
func readSnapshot(ctx context.Context, r io.Reader) ([]model.Product, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var products []model.Product
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%10_000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var p model.Product
		if err := json.Unmarshal([]byte(line), &p); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		products = append(products, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

// fallbackSource tries a primary Source and falls back to a secondary one.
type fallbackSource struct {
	primary   Source
	secondary Source
	logger    zerolog.Logger
}

// NewFallbackSource creates a Source that reads primary and, when that fails,
// secondary. A nil primary always uses secondary.
func NewFallbackSource(primary, secondary Source, logger zerolog.Logger) Source {
	return &fallbackSource{
		primary:   primary,
		secondary: secondary,
		logger:    logger.With().Str("component", "catalog-fallback-source").Logger(),
	}
}

// ListProducts lists from the primary source, falling back on error.
func (s *fallbackSource) ListProducts(ctx context.Context) ([]model.Product, error) {
	if s.primary != nil {
		products, err := s.primary.ListProducts(ctx)
		if err == nil {
			return products, nil
		}
		s.logger.Warn().Err(err).Msg("primary catalogue source failed, falling back")
	}
	return s.secondary.ListProducts(ctx)
}
