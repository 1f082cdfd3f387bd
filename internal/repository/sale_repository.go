package repository

import (
	"context"
	"errors"
	"fmt"

	"mini-pos/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// saleRepository implements the SaleRepository interface using PostgreSQL.
type saleRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSaleRepository creates a new PostgreSQL-backed sale repository.
func NewSaleRepository(pool *pgxpool.Pool, logger zerolog.Logger) SaleRepository {
	return &saleRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "sale").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *saleRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateSale inserts the sale header of receipt within the provided transaction.
func (r *saleRepository) CreateSale(ctx context.Context, tx pgx.Tx, receipt *model.Receipt) error {
	query := `
		INSERT INTO sales (
			id, receipt_number, terminal_id, customer_id, customer_name,
			discount_type, discount_value, tax_rate,
			subtotal, discount, tax, grand_total,
			tender_method, tendered, change_due, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := tx.Exec(ctx, query,
		receipt.ID,
		receipt.Number,
		receipt.TerminalID,
		receipt.Customer.ID,
		receipt.Customer.Name,
		receipt.Discount.Type,
		receipt.Discount.Value,
		receipt.TaxRate,
		receipt.Totals.Subtotal,
		receipt.Totals.Discount,
		receipt.Totals.Tax,
		receipt.Totals.GrandTotal,
		string(receipt.Method),
		receipt.Tendered,
		receipt.Change,
		receipt.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("sale_id", receipt.ID.String()).
			Msg("failed to create sale")
		return fmt.Errorf("failed to create sale: %w", err)
	}

	r.logger.Debug().
		Str("sale_id", receipt.ID.String()).
		Msg("sale created successfully")

	return nil
}

// CreateSaleLines inserts the receipt lines within the provided transaction.
func (r *saleRepository) CreateSaleLines(ctx context.Context, tx pgx.Tx, saleID uuid.UUID, lines []model.CartLine) error {
	if len(lines) == 0 {
		return nil
	}

	query := `
		INSERT INTO sale_lines (sale_id, line_no, product_code, name, unit, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	batch := &pgx.Batch{}
	for i, l := range lines {
		batch.Queue(query, saleID, i+1, l.Code, l.Name, l.Unit, l.Quantity, l.UnitPrice)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(lines); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("sale_id", saleID.String()).
				Str("product_code", lines[i].Code).
				Msg("failed to create sale line")
			return fmt.Errorf("failed to create sale line: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(lines)).
		Msg("sale lines created successfully")

	return nil
}

// GetByID retrieves a sale with its lines.
func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error) {
	saleQuery := `
		SELECT id, receipt_number, terminal_id, customer_id, customer_name,
			discount_type, discount_value, tax_rate,
			subtotal, discount, tax, grand_total,
			tender_method, tendered, change_due, created_at
		FROM sales
		WHERE id = $1
	`

	var rc model.Receipt
	var method string
	err := r.pool.QueryRow(ctx, saleQuery, id).Scan(
		&rc.ID,
		&rc.Number,
		&rc.TerminalID,
		&rc.Customer.ID,
		&rc.Customer.Name,
		&rc.Discount.Type,
		&rc.Discount.Value,
		&rc.TaxRate,
		&rc.Totals.Subtotal,
		&rc.Totals.Discount,
		&rc.Totals.Tax,
		&rc.Totals.GrandTotal,
		&method,
		&rc.Tendered,
		&rc.Change,
		&rc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("sale_id", id.String()).Msg("sale not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("sale_id", id.String()).Msg("failed to query sale")
		return nil, fmt.Errorf("failed to query sale: %w", err)
	}
	rc.Method = model.TenderMethod(method)

	linesQuery := `
		SELECT product_code, name, unit, quantity, unit_price
		FROM sale_lines
		WHERE sale_id = $1
		ORDER BY line_no
	`

	rows, err := r.pool.Query(ctx, linesQuery, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("sale_id", id.String()).
			Msg("failed to query sale lines")
		return nil, fmt.Errorf("failed to query sale lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l model.CartLine
		if err := rows.Scan(&l.Code, &l.Name, &l.Unit, &l.Quantity, &l.UnitPrice); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan sale line row")
			return nil, fmt.Errorf("failed to scan sale line: %w", err)
		}
		rc.Lines = append(rc.Lines, l)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating sale line rows")
		return nil, fmt.Errorf("error iterating sale lines: %w", err)
	}

	rc.CreatedAt = rc.CreatedAt.UTC()
	return &rc, nil
}
