package repository

import (
	"context"

	"mini-pos/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// ListProducts retrieves the whole catalogue ordered by code.
	ListProducts(ctx context.Context) ([]model.Product, error)

	// GetByCode retrieves a single product by its code. It returns nil when
	// the product does not exist.
	GetByCode(ctx context.Context, code string) (*model.Product, error)

	// Upsert inserts products or updates the ones that already exist.
	Upsert(ctx context.Context, products []model.Product) error

	// PersistStockDecrements subtracts every decrement in one transaction.
	// Returns model.ErrInsufficientStock naming the product when any row
	// would drop below zero and model.ErrProductNotFound when a code has no
	// row; nothing is applied in either case.
	PersistStockDecrements(ctx context.Context, decrements []model.StockDecrement) error
}

// CustomerRepository defines the interface for customer data access operations.
type CustomerRepository interface {
	// ListCustomers retrieves every customer ordered by name.
	ListCustomers(ctx context.Context) ([]model.Customer, error)
}

// SaleRepository defines the interface for sale data access operations.
type SaleRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateSale inserts the sale header of receipt within the provided transaction.
	CreateSale(ctx context.Context, tx pgx.Tx, receipt *model.Receipt) error

	// CreateSaleLines inserts the receipt lines within the provided transaction.
	CreateSaleLines(ctx context.Context, tx pgx.Tx, saleID uuid.UUID, lines []model.CartLine) error

	// GetByID retrieves a sale with its lines. It returns nil when the sale
	// does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error)
}
