package service

import (
	"context"

	"mini-pos/internal/model"

	"github.com/google/uuid"
)

// CatalogService defines read operations over the in-memory catalogue.
type CatalogService interface {
	// Search returns products matching query within category. Empty
	// arguments match everything.
	Search(query, category string) []model.Product

	// GetByCode retrieves a product by its code or barcode.
	GetByCode(code string) (*model.Product, error)

	// Categories lists the distinct product categories.
	Categories() []string

	// Reload replaces the catalogue with a fresh read from the source.
	Reload(ctx context.Context) (int, error)
}

// SaleService defines operations for recording completed sales.
type SaleService interface {
	// HandleReceipt stores the receipt and its lines in one transaction.
	HandleReceipt(ctx context.Context, receipt *model.Receipt) error

	// GetByID retrieves a recorded sale.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error)
}
