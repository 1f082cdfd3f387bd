// Package publisher emits completed-sale events to Kafka.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mini-pos/internal/model"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// EventSaleCompleted is the event_type header of a completed sale.
const EventSaleCompleted = "sale.completed"

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// SaleEvent is the payload of a sale.completed message.
type SaleEvent struct {
	ReceiptID     string                 `json:"receipt_id"`
	ReceiptNumber string                 `json:"receipt_number"`
	TerminalID    string                 `json:"terminal_id"`
	CustomerID    string                 `json:"customer_id"`
	Items         []model.StockDecrement `json:"items"`
	TotalAmount   decimal.Decimal        `json:"total_amount"`
	Method        model.TenderMethod     `json:"method"`
	CompletedAt   time.Time              `json:"completed_at"`
}

// ReceiptPublisher publishes each receipt as a sale.completed event keyed by
// receipt id.
type ReceiptPublisher struct {
	writer MessageWriter
	logger zerolog.Logger
}

// NewKafkaWriter creates a writer for topic on brokers.
func NewKafkaWriter(topic string, brokers ...string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

// NewReceiptPublisher creates a ReceiptPublisher writing to writer.
func NewReceiptPublisher(writer MessageWriter, logger zerolog.Logger) *ReceiptPublisher {
	return &ReceiptPublisher{
		writer: writer,
		logger: logger.With().Str("component", "receipt-publisher").Logger(),
	}
}

// HandleReceipt publishes receipt.
func (p *ReceiptPublisher) HandleReceipt(ctx context.Context, receipt *model.Receipt) error {
	payload, err := json.Marshal(SaleEvent{
		ReceiptID:     receipt.ID.String(),
		ReceiptNumber: receipt.Number,
		TerminalID:    receipt.TerminalID,
		CustomerID:    receipt.Customer.ID,
		Items:         receipt.StockDecrements(),
		TotalAmount:   receipt.Totals.GrandTotal,
		Method:        receipt.Method,
		CompletedAt:   receipt.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal sale event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(receipt.ID.String()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventSaleCompleted)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish sale event: %w", err)
	}

	p.logger.Debug().Str("receipt_id", receipt.ID.String()).Msg("sale event published")
	return nil
}

// Close flushes and closes the writer.
func (p *ReceiptPublisher) Close() error {
	return p.writer.Close()
}
