// Package printer issues abstract print and cash drawer requests for
// completed sales.
package printer

import (
	"context"
	"fmt"

	"mini-pos/internal/model"

	"github.com/rs/zerolog"
)

// Device types accepted by NewDevice.
const (
	TypeNone = "none"
	TypeLog  = "log"
)

// Device is a receipt printer with an attached cash drawer.
type Device interface {
	// Print outputs a rendered receipt.
	Print(ctx context.Context, data []byte) error
	// OpenDrawer pops the cash drawer.
	OpenDrawer(ctx context.Context) error
}

type nullDevice struct{}

// NewNullDevice creates a Device that does nothing.
func NewNullDevice() Device {
	return nullDevice{}
}

func (nullDevice) Print(ctx context.Context, data []byte) error {
	return nil
}

func (nullDevice) OpenDrawer(ctx context.Context) error {
	return nil
}

type logDevice struct {
	logger zerolog.Logger
}

// NewLogDevice creates a Device that writes receipts to the logger.
func NewLogDevice(logger zerolog.Logger) Device {
	return &logDevice{logger: logger.With().Str("component", "log-printer").Logger()}
}

func (d *logDevice) Print(ctx context.Context, data []byte) error {
	d.logger.Info().Msg("receipt\n" + string(data))
	return nil
}

func (d *logDevice) OpenDrawer(ctx context.Context) error {
	d.logger.Info().Msg("cash drawer opened")
	return nil
}

// NewDevice creates the Device for printerType.
func NewDevice(printerType string, logger zerolog.Logger) (Device, error) {
	switch printerType {
	case "", TypeNone:
		return NewNullDevice(), nil
	case TypeLog:
		return NewLogDevice(logger), nil
	default:
		return nil, fmt.Errorf("unsupported printer type %q", printerType)
	}
}

// ReceiptPrinter prints every completed receipt and opens the drawer for
// cash sales.
type ReceiptPrinter struct {
	device    Device
	storeName string
	width     int
}

// NewReceiptPrinter creates a ReceiptPrinter rendering width columns.
func NewReceiptPrinter(device Device, storeName string, width int) *ReceiptPrinter {
	if width < MinWidth {
		width = MinWidth
	}
	return &ReceiptPrinter{device: device, storeName: storeName, width: width}
}

// HandleReceipt prints receipt.
func (p *ReceiptPrinter) HandleReceipt(ctx context.Context, receipt *model.Receipt) error {
	if receipt.Method == model.TenderCash {
		if err := p.device.OpenDrawer(ctx); err != nil {
			return fmt.Errorf("printer: failed to open drawer: %w", err)
		}
	}
	if err := p.device.Print(ctx, FormatReceipt(receipt, p.storeName, p.width)); err != nil {
		return fmt.Errorf("printer: failed to print receipt %s: %w", receipt.Number, err)
	}
	return nil
}
