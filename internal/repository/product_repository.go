package repository

import (
	"context"
	"errors"
	"fmt"

	"mini-pos/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

const productColumns = `code, name, category, price, unit, stock, COALESCE(barcode, '')`

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.Code, &p.Name, &p.Category, &p.Price, &p.Unit, &p.Stock, &p.Barcode)
	return p, err
}

// ListProducts retrieves the whole catalogue ordered by code.
func (r *productRepository) ListProducts(ctx context.Context) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY code`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	r.logger.Debug().Int("count", len(products)).Msg("products listed")
	return products, nil
}

// GetByCode retrieves a single product by its code.
func (r *productRepository) GetByCode(ctx context.Context, code string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE code = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_code", code).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_code", code).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// Upsert inserts products or updates the ones that already exist.
func (r *productRepository) Upsert(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	query := `
		INSERT INTO products (code, name, category, price, unit, stock, barcode)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			price = EXCLUDED.price,
			unit = EXCLUDED.unit,
			stock = EXCLUDED.stock,
			barcode = EXCLUDED.barcode,
			updated_at = NOW()
	`

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(query, p.Code, p.Name, p.Category, p.Price, p.Unit, p.Stock, p.Barcode)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(products); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("product_code", products[i].Code).
				Msg("failed to upsert product")
			return fmt.Errorf("failed to upsert product %s: %w", products[i].Code, err)
		}
	}

	r.logger.Debug().Int("count", len(products)).Msg("products upserted")
	return nil
}

// PersistStockDecrements subtracts every decrement in one transaction.
func (r *productRepository) PersistStockDecrements(ctx context.Context, decrements []model.StockDecrement) (err error) {
	if len(decrements) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	query := `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE code = $1 AND stock >= $2
	`

	for _, d := range decrements {
		tag, execErr := tx.Exec(ctx, query, d.Code, d.Quantity)
		if execErr != nil {
			r.logger.Error().Err(execErr).Str("product_code", d.Code).Msg("failed to decrement stock")
			err = fmt.Errorf("failed to decrement stock: %w", execErr)
			return err
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if scanErr := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE code = $1)`, d.Code).Scan(&exists); scanErr != nil {
				err = fmt.Errorf("failed to check product %s: %w", d.Code, scanErr)
				return err
			}
			r.logger.Warn().
				Str("product_code", d.Code).
				Int("quantity", d.Quantity).
				Bool("exists", exists).
				Msg("stock decrement rejected by database")
			if !exists {
				err = model.ErrProductNotFound.ForProduct(d.Code)
				return err
			}
			err = model.ErrInsufficientStock.ForProduct(d.Code)
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit stock decrements: %w", err)
	}

	r.logger.Debug().Int("count", len(decrements)).Msg("stock decrements persisted")
	return nil
}
