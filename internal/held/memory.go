package held

import (
	"context"
	"sort"
	"sync"

	"mini-pos/internal/model"
)

type memoryStore struct {
	mu     sync.Mutex
	orders map[string]map[string]model.HeldOrder
}

// NewMemoryStore creates a Store that lives in process memory.
func NewMemoryStore() Store {
	return &memoryStore{orders: make(map[string]map[string]model.HeldOrder)}
}

func (s *memoryStore) Save(ctx context.Context, order model.HeldOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byTicket, ok := s.orders[order.TerminalID]
	if !ok {
		byTicket = make(map[string]model.HeldOrder)
		s.orders[order.TerminalID] = byTicket
	}
	order.Lines = model.CloneLines(order.Lines)
	byTicket[order.TicketID] = order
	return nil
}

func (s *memoryStore) Take(ctx context.Context, terminalID, ticketID string) (model.HeldOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[terminalID][ticketID]
	if !ok {
		return model.HeldOrder{}, model.ErrHeldOrderNotFound
	}
	delete(s.orders[terminalID], ticketID)
	return order, nil
}

func (s *memoryStore) Delete(ctx context.Context, terminalID, ticketID string) error {
	_, err := s.Take(ctx, terminalID, ticketID)
	return err
}

func (s *memoryStore) List(ctx context.Context, terminalID string) ([]model.HeldOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.HeldOrder, 0, len(s.orders[terminalID]))
	for _, order := range s.orders[terminalID] {
		order.Lines = model.CloneLines(order.Lines)
		out = append(out, order)
	}
	sortByCreation(out)
	return out, nil
}

func sortByCreation(orders []model.HeldOrder) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].TicketID < orders[j].TicketID
		}
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
}
