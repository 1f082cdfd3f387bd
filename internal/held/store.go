package held

import (
	"context"

	"mini-pos/internal/model"
)

// Store keeps held orders per terminal.
// Take and Delete return model.ErrHeldOrderNotFound for unknown tickets.
type Store interface {
	Save(ctx context.Context, order model.HeldOrder) error
	Take(ctx context.Context, terminalID, ticketID string) (model.HeldOrder, error)
	Delete(ctx context.Context, terminalID, ticketID string) error
	List(ctx context.Context, terminalID string) ([]model.HeldOrder, error)
}
