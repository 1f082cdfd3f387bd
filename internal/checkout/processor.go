// Package checkout turns a cart and a tender into a receipt.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mini-pos/internal/cart"
	"mini-pos/internal/catalog"
	"mini-pos/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// State is the stage of the current checkout attempt.
type State string

const (
	StateIdle           State = "idle"
	StateAwaitingTender State = "awaiting_tender"
	StateCompleted      State = "completed"
	// StateRejected means the last tender was refused. Another tender may
	// be offered or the checkout cancelled.
	StateRejected State = "rejected"
)

// Inventory applies and compensates stock decrements all-or-nothing.
type Inventory interface {
	DecrementAll(decrements []model.StockDecrement) error
	RestoreAll(decrements []model.StockDecrement)
}

// ReceiptSink receives every completed receipt, e.g. to persist, publish or
// print it.
type ReceiptSink interface {
	HandleReceipt(ctx context.Context, receipt *model.Receipt) error
}

// Config holds per-terminal checkout settings.
type Config struct {
	TerminalID string
	TaxRate    decimal.Decimal
}

// Processor runs checkout attempts against one cart.
// A Processor is not safe for concurrent use.
type Processor struct {
	cfg       Config
	cart      *cart.Cart
	inventory Inventory
	persister catalog.StockPersister
	numbers   *Numberer
	sinks     []ReceiptSink
	state     State
	last      *model.Receipt
	now       func() time.Time
	logger    zerolog.Logger
}

// NewProcessor creates a Processor. persister may be nil when stock is only
// tracked in memory.
func NewProcessor(
	cfg Config,
	c *cart.Cart,
	inventory Inventory,
	persister catalog.StockPersister,
	numbers *Numberer,
	sinks []ReceiptSink,
	logger zerolog.Logger,
) *Processor {
	return &Processor{
		cfg:       cfg,
		cart:      c,
		inventory: inventory,
		persister: persister,
		numbers:   numbers,
		sinks:     sinks,
		state:     StateIdle,
		now:       time.Now,
		logger: logger.With().
			Str("component", "checkout").
			Str("terminal_id", cfg.TerminalID).
			Logger(),
	}
}

// State returns the current checkout state.
func (p *Processor) State() State {
	return p.state
}

// LastReceipt returns the receipt of the most recent completed sale, or nil.
func (p *Processor) LastReceipt() *model.Receipt {
	return p.last
}

// Begin opens a checkout attempt and returns the amount due.
func (p *Processor) Begin() (model.Totals, error) {
	if p.cart.IsEmpty() {
		p.state = StateIdle
		return model.Totals{}, model.ErrEmptyCart
	}

	p.state = StateAwaitingTender
	totals := p.cart.Totals(p.cfg.TaxRate)

	p.logger.Debug().Str("grand_total", totals.GrandTotal.String()).Msg("checkout started")
	return totals, nil
}

// Cancel abandons an open checkout attempt. It has no other effect.
func (p *Processor) Cancel() {
	if p.awaiting() {
		p.state = StateIdle
		p.logger.Debug().Msg("checkout cancelled")
	}
}

// Pending reports whether a checkout attempt is open.
func (p *Processor) Pending() bool {
	return p.awaiting()
}

func (p *Processor) awaiting() bool {
	return p.state == StateAwaitingTender || p.state == StateRejected
}

// AttemptPayment settles the open checkout with a tender.
//
// The amount due is recomputed from the cart on every call. Cash tenders
// must cover it and get change back; other tenders settle the exact amount.
// Stock for every line is decremented all-or-nothing. On success the cart is
// cleared and the receipt is handed to every sink. On failure neither stock
// nor the cart change.
func (p *Processor) AttemptPayment(ctx context.Context, method model.TenderMethod, amount decimal.Decimal) (*model.Receipt, error) {
	if !p.awaiting() {
		return nil, model.ErrCheckoutNotStarted
	}
	if p.cart.IsEmpty() {
		p.state = StateIdle
		return nil, model.ErrEmptyCart
	}
	if !method.IsValid() || amount.IsNegative() {
		return nil, p.reject(model.ErrInvalidTender, method)
	}

	totals := p.cart.Totals(p.cfg.TaxRate)

	tendered := totals.GrandTotal
	change := decimal.Zero
	if method.AcceptsChange() {
		if amount.LessThan(totals.GrandTotal) {
			return nil, p.reject(model.ErrInsufficientTender, method)
		}
		tendered = amount
		change = amount.Sub(totals.GrandTotal)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, p.reject(fmt.Errorf("failed to generate receipt id: %w", err), method)
	}

	lines := p.cart.Lines()
	decrements := make([]model.StockDecrement, len(lines))
	for i, l := range lines {
		decrements[i] = model.StockDecrement{Code: l.Code, Quantity: l.Quantity}
	}

	if err := p.inventory.DecrementAll(decrements); err != nil {
		return nil, p.reject(err, method)
	}

	if p.persister != nil {
		if err := p.persister.PersistStockDecrements(ctx, decrements); err != nil {
			p.inventory.RestoreAll(decrements)
			var de *model.DomainError
			if !errors.As(err, &de) {
				err = fmt.Errorf("failed to persist stock: %w", err)
			}
			return nil, p.reject(err, method)
		}
	}

	createdAt := p.now().UTC()
	receipt := &model.Receipt{
		ID:         id,
		Number:     p.numbers.Next(createdAt),
		TerminalID: p.cfg.TerminalID,
		Lines:      lines,
		Customer:   p.cart.Customer(),
		Discount:   model.SpecOf(p.cart.Discount()),
		TaxRate:    p.cfg.TaxRate,
		Totals:     totals,
		Method:     method,
		Tendered:   tendered,
		Change:     change,
		CreatedAt:  createdAt,
	}

	p.cart.Clear()
	p.state = StateCompleted
	p.last = receipt

	p.logger.Info().
		Str("receipt_id", receipt.ID.String()).
		Str("receipt_number", receipt.Number).
		Str("method", string(method)).
		Str("grand_total", totals.GrandTotal.String()).
		Str("change", change.String()).
		Msg("sale completed")

	for _, sink := range p.sinks {
		if err := sink.HandleReceipt(ctx, receipt); err != nil {
			p.logger.Error().
				Err(err).
				Str("receipt_id", receipt.ID.String()).
				Str("sink", fmt.Sprintf("%T", sink)).
				Msg("receipt sink failed")
		}
	}

	return receipt, nil
}

func (p *Processor) reject(err error, method model.TenderMethod) error {
	p.state = StateRejected
	p.logger.Warn().Err(err).Str("method", string(method)).Msg("payment rejected")
	return err
}
