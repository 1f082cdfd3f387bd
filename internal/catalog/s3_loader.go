package catalog

import (
	"context"
	"fmt"

	"mini-pos/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Source implements Source for a gzipped catalogue snapshot stored in S3.
type s3Source struct {
	client *s3.Client
	bucket string
	key    string
	logger zerolog.Logger
}

// NewS3Source creates a Source reading the snapshot at bucket/key.
func NewS3Source(ctx context.Context, bucket, region, key string, logger zerolog.Logger) (Source, error) {
	logger = logger.With().Str("component", "catalog-s3-source").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("key", key).
		Msg("S3 catalogue source initialised")

	return &s3Source{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		key:    key,
		logger: logger,
	}, nil
}

// ListProducts downloads and decodes the snapshot object.
func (s *s3Source) ListProducts(ctx context.Context) ([]model.Product, error) {
	s.logger.Info().
		Str("bucket", s.bucket).
		Str("key", s.key).
		Msg("loading catalogue snapshot from S3")

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", s.key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", s.bucket, s.key, err)
	}
	defer result.Body.Close()

	products, err := readSnapshot(ctx, result.Body)
	if err != nil {
		s.logger.Error().Err(err).Str("key", s.key).Msg("failed to read catalogue snapshot from S3")
		return nil, fmt.Errorf("failed to read catalogue snapshot from S3 %s: %w", s.key, err)
	}

	s.logger.Info().
		Str("bucket", s.bucket).
		Str("key", s.key).
		Int("products_loaded", len(products)).
		Msg("catalogue snapshot loaded from S3")

	return products, nil
}
