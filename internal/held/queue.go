// Package held suspends in-progress carts so a terminal can serve another
// customer and resume them later.
package held

import (
	"context"
	"fmt"
	"time"

	"mini-pos/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Queue is the held-order queue of one terminal.
type Queue struct {
	terminalID string
	store      Store
	now        func() time.Time
	logger     zerolog.Logger
}

// NewQueue creates the queue for terminalID on top of store.
func NewQueue(terminalID string, store Store, logger zerolog.Logger) *Queue {
	return &Queue{
		terminalID: terminalID,
		store:      store,
		now:        time.Now,
		logger: logger.With().
			Str("component", "held-queue").
			Str("terminal_id", terminalID).
			Logger(),
	}
}

// Hold snapshots the cart state under a fresh ticket id. The caller clears
// its active cart once Hold succeeds.
func (q *Queue) Hold(ctx context.Context, lines []model.CartLine, customer model.Customer, discount model.Discount, label string) (model.HeldOrder, error) {
	if len(lines) == 0 {
		return model.HeldOrder{}, model.ErrEmptyCart
	}
	if discount == nil {
		discount = model.NoDiscount{}
	}

	ticket, err := uuid.NewV7()
	if err != nil {
		return model.HeldOrder{}, fmt.Errorf("failed to generate ticket id: %w", err)
	}

	order := model.HeldOrder{
		TicketID:   ticket.String(),
		TerminalID: q.terminalID,
		Label:      label,
		Lines:      model.CloneLines(lines),
		Customer:   customer,
		Discount:   discount,
		CreatedAt:  q.now().UTC(),
	}

	if err := q.store.Save(ctx, order); err != nil {
		q.logger.Error().Err(err).Msg("failed to save held order")
		return model.HeldOrder{}, fmt.Errorf("failed to hold order: %w", err)
	}

	q.logger.Info().
		Str("ticket_id", order.TicketID).
		Int("line_count", len(order.Lines)).
		Msg("order held")

	order.Lines = model.CloneLines(order.Lines)
	return order, nil
}

// Recall removes the held order and returns it. Replacing the active cart
// with it is up to the caller.
func (q *Queue) Recall(ctx context.Context, ticketID string) (model.HeldOrder, error) {
	order, err := q.store.Take(ctx, q.terminalID, ticketID)
	if err != nil {
		q.logger.Debug().Err(err).Str("ticket_id", ticketID).Msg("recall failed")
		return model.HeldOrder{}, err
	}

	q.logger.Info().Str("ticket_id", ticketID).Msg("order recalled")
	return order, nil
}

// Discard removes the held order without returning it.
func (q *Queue) Discard(ctx context.Context, ticketID string) error {
	if err := q.store.Delete(ctx, q.terminalID, ticketID); err != nil {
		return err
	}
	q.logger.Info().Str("ticket_id", ticketID).Msg("held order discarded")
	return nil
}

// List returns the held orders in creation order.
func (q *Queue) List(ctx context.Context) ([]model.HeldOrder, error) {
	return q.store.List(ctx, q.terminalID)
}
