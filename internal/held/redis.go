package held

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mini-pos/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// heldRecord is the JSON value stored per ticket.
type heldRecord struct {
	TicketID   string             `json:"ticketId"`
	TerminalID string             `json:"terminalId"`
	Label      string             `json:"label,omitempty"`
	Lines      []model.CartLine   `json:"lines"`
	Customer   model.Customer     `json:"customer"`
	Discount   model.DiscountSpec `json:"discount"`
	CreatedAt  time.Time          `json:"createdAt"`
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisStore creates a Store shared by every terminal through Redis.
// Each ticket is one JSON value; each terminal has a sorted set of its tickets
// scored by creation time. A ttl of zero keeps held orders until recalled.
func NewRedisStore(client *redis.Client, ttl time.Duration, logger zerolog.Logger) Store {
	return &redisStore{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "held-redis-store").Logger(),
	}
}

func (s *redisStore) Save(ctx context.Context, order model.HeldOrder) error {
	data, err := json.Marshal(heldRecord{
		TicketID:   order.TicketID,
		TerminalID: order.TerminalID,
		Label:      order.Label,
		Lines:      order.Lines,
		Customer:   order.Customer,
		Discount:   model.SpecOf(order.Discount),
		CreatedAt:  order.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal held order failed: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, ticketKey(order.TerminalID, order.TicketID), data, s.ttl)
		pipe.ZAdd(ctx, terminalKey(order.TerminalID), redis.Z{
			Score:  float64(order.CreatedAt.UnixMilli()),
			Member: order.TicketID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save held order failed: %w", err)
	}
	return nil
}

// Take reads and decodes the ticket before deleting it, so an unreadable
// record stays in place. WATCH makes concurrent takes of one ticket yield a
// single winner.
func (s *redisStore) Take(ctx context.Context, terminalID, ticketID string) (model.HeldOrder, error) {
	key := ticketKey(terminalID, ticketID)

	var order model.HeldOrder
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			tx.ZRem(ctx, terminalKey(terminalID), ticketID)
			return model.ErrHeldOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("redis take held order failed: %w", err)
		}

		order, err = decodeRecord(data)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.ZRem(ctx, terminalKey(terminalID), ticketID)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return model.HeldOrder{}, model.ErrHeldOrderNotFound
	}
	if errors.Is(err, model.ErrHeldOrderNotFound) {
		return model.HeldOrder{}, err
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("ticket_id", ticketID).Msg("failed to take held order")
		return model.HeldOrder{}, err
	}
	return order, nil
}

// Delete drops the ticket whether or not its record can be decoded.
func (s *redisStore) Delete(ctx context.Context, terminalID, ticketID string) error {
	var removed *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.Del(ctx, ticketKey(terminalID, ticketID))
		pipe.ZRem(ctx, terminalKey(terminalID), ticketID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete held order failed: %w", err)
	}
	if removed.Val() == 0 {
		return model.ErrHeldOrderNotFound
	}
	return nil
}

func (s *redisStore) List(ctx context.Context, terminalID string) ([]model.HeldOrder, error) {
	tickets, err := s.client.ZRange(ctx, terminalKey(terminalID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list held orders failed: %w", err)
	}
	if len(tickets) == 0 {
		return []model.HeldOrder{}, nil
	}

	keys := make([]string, len(tickets))
	for i, ticket := range tickets {
		keys[i] = ticketKey(terminalID, ticket)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis load held orders failed: %w", err)
	}

	out := make([]model.HeldOrder, 0, len(values))
	var expired []any
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			expired = append(expired, tickets[i])
			continue
		}
		order, err := decodeRecord([]byte(raw))
		if err != nil {
			s.logger.Error().Err(err).Str("ticket_id", tickets[i]).Msg("skipping unreadable held order")
			continue
		}
		out = append(out, order)
	}

	if len(expired) > 0 {
		if err := s.client.ZRem(ctx, terminalKey(terminalID), expired...).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to prune expired tickets")
		}
	}

	sortByCreation(out)
	return out, nil
}

func decodeRecord(data []byte) (model.HeldOrder, error) {
	var rec heldRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.HeldOrder{}, fmt.Errorf("unmarshal held order failed: %w", err)
	}
	discount, err := rec.Discount.Discount()
	if err != nil {
		return model.HeldOrder{}, fmt.Errorf("held order %s: %w", rec.TicketID, err)
	}
	return model.HeldOrder{
		TicketID:   rec.TicketID,
		TerminalID: rec.TerminalID,
		Label:      rec.Label,
		Lines:      rec.Lines,
		Customer:   rec.Customer,
		Discount:   discount,
		CreatedAt:  rec.CreatedAt,
	}, nil
}

func terminalKey(terminalID string) string {
	return fmt.Sprintf("held:%s", terminalID)
}

func ticketKey(terminalID, ticketID string) string {
	return fmt.Sprintf("held:%s:%s", terminalID, ticketID)
}
