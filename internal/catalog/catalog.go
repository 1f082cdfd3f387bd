package catalog

import (
	"context"

	"mini-pos/internal/model"
)

// Source supplies the product list the index is populated from at session start.
type Source interface {
	// ListProducts returns every sellable product with its current stock.
	ListProducts(ctx context.Context) ([]model.Product, error)
}

// StockPersister records stock decrements with the catalogue's system of record.
type StockPersister interface {
	// PersistStockDecrements applies every decrement or none of them.
	PersistStockDecrements(ctx context.Context, decrements []model.StockDecrement) error
}
