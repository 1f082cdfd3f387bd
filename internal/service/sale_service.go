package service

import (
	"context"
	"fmt"

	"mini-pos/internal/model"
	"mini-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// saleService implements SaleService.
type saleService struct {
	saleRepo repository.SaleRepository
	logger   zerolog.Logger
}

// NewSaleService creates a new sale service.
func NewSaleService(saleRepo repository.SaleRepository, logger zerolog.Logger) SaleService {
	return &saleService{
		saleRepo: saleRepo,
		logger:   logger.With().Str("service", "sale").Logger(),
	}
}

// HandleReceipt stores the receipt header and lines in one transaction.
func (s *saleService) HandleReceipt(ctx context.Context, receipt *model.Receipt) error {
	if receipt == nil {
		return fmt.Errorf("receipt is nil")
	}
	if len(receipt.Lines) == 0 {
		return model.ErrEmptyCart
	}

	tx, err := s.saleRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to record sale: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.saleRepo.CreateSale(ctx, tx, receipt); err != nil {
		s.logger.Error().Err(err).Str("sale_id", receipt.ID.String()).Msg("failed to create sale")
		return fmt.Errorf("failed to record sale: %w", err)
	}

	if err = s.saleRepo.CreateSaleLines(ctx, tx, receipt.ID, receipt.Lines); err != nil {
		s.logger.Error().
			Err(err).
			Str("sale_id", receipt.ID.String()).
			Int("line_count", len(receipt.Lines)).
			Msg("failed to create sale lines")
		return fmt.Errorf("failed to record sale lines: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("sale_id", receipt.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to record sale: %w", err)
	}

	s.logger.Info().
		Str("sale_id", receipt.ID.String()).
		Str("receipt_number", receipt.Number).
		Int("line_count", len(receipt.Lines)).
		Str("grand_total", receipt.Totals.GrandTotal.StringFixed(2)).
		Msg("sale recorded")

	return nil
}

// GetByID retrieves a recorded sale. It returns nil when the sale does not exist.
func (s *saleService) GetByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error) {
	receipt, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("sale_id", id.String()).Msg("failed to get sale")
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}

	if receipt == nil {
		s.logger.Debug().Str("sale_id", id.String()).Msg("sale not found")
		return nil, nil
	}

	return receipt, nil
}
