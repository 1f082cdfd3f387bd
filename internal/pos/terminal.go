// Package pos ties the cart, checkout, barcode capture and held-order queue
// of one counter into a terminal session.
package pos

import (
	"context"
	"sync"

	"mini-pos/internal/barcode"
	"mini-pos/internal/cart"
	"mini-pos/internal/checkout"
	"mini-pos/internal/held"
	"mini-pos/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CustomerLookup resolves a customer by id.
type CustomerLookup interface {
	Get(id string) (model.Customer, error)
}

// CartView is a snapshot of a terminal's cart with freshly computed totals.
type CartView struct {
	TerminalID string             `json:"terminalId"`
	Lines      []model.CartLine   `json:"lines"`
	Customer   model.Customer     `json:"customer"`
	Discount   model.DiscountSpec `json:"discount"`
	Totals     model.Totals       `json:"totals"`
	Checkout   checkout.State     `json:"checkoutState"`
}

// ScanResult is the outcome of a scan request.
type ScanResult struct {
	Scans []barcode.Scan `json:"scans"`
	Cart  CartView       `json:"cart"`
}

// Terminal is one counter session. All methods are safe for concurrent use
// and run one at a time. Changing the cart while a checkout is pending
// cancels that checkout.
type Terminal struct {
	mu        sync.Mutex
	id        string
	taxRate   decimal.Decimal
	cart      *cart.Cart
	processor *checkout.Processor
	capture   *barcode.Capture
	queue     *held.Queue
	customers CustomerLookup
	logger    zerolog.Logger
}

// ID returns the terminal id.
func (t *Terminal) ID() string {
	return t.id
}

// Cart returns the current cart.
func (t *Terminal) Cart() CartView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view()
}

// AddItem adds quantity of the product with code or barcode.
func (t *Terminal) AddItem(code string, quantity int) (CartView, error) {
	return t.mutate(func() error {
		return t.cart.Add(code, quantity)
	})
}

// SetQuantity overwrites the quantity of a cart line. Zero or less removes it.
func (t *Terminal) SetQuantity(code string, quantity int) (CartView, error) {
	return t.mutate(func() error {
		return t.cart.SetQuantity(code, quantity)
	})
}

// RemoveItem drops a cart line.
func (t *Terminal) RemoveItem(code string) CartView {
	view, _ := t.mutate(func() error {
		t.cart.Remove(code)
		return nil
	})
	return view
}

// ClearCart empties the cart and resets discount and customer.
func (t *Terminal) ClearCart() CartView {
	view, _ := t.mutate(func() error {
		t.cart.Clear()
		t.capture.Reset()
		return nil
	})
	return view
}

// SetDiscount applies a cart-level discount.
func (t *Terminal) SetDiscount(spec model.DiscountSpec) (CartView, error) {
	return t.mutate(func() error {
		d, err := spec.Discount()
		if err != nil {
			return err
		}
		t.cart.SetDiscount(d)
		return nil
	})
}

// SetCustomer attributes the cart to a customer from the directory.
func (t *Terminal) SetCustomer(customerID string) (CartView, error) {
	return t.mutate(func() error {
		c, err := t.customers.Get(customerID)
		if err != nil {
			return err
		}
		t.cart.SetCustomer(c)
		return nil
	})
}

// Scan feeds scanner input. A trailing code without a terminator is treated
// as complete. Each scanned code adds one unit.
func (t *Terminal) Scan(input string) ScanResult {
	t.mu.Lock()
	defer t.mu.Unlock()

	scans := t.capture.Feed(input)
	if t.capture.Pending() != "" {
		if s := t.capture.Key('\n'); s != nil {
			scans = append(scans, *s)
		}
	}

	for _, s := range scans {
		if s.Err == nil {
			t.processor.Cancel()
			break
		}
	}

	if scans == nil {
		scans = []barcode.Scan{}
	}
	return ScanResult{Scans: scans, Cart: t.view()}
}

// Hold suspends the cart under a new ticket and clears it.
func (t *Terminal) Hold(ctx context.Context, label string) (model.HeldOrder, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	order, err := t.queue.Hold(ctx, t.cart.Lines(), t.cart.Customer(), t.cart.Discount(), label)
	if err != nil {
		return model.HeldOrder{}, err
	}

	t.processor.Cancel()
	t.cart.Clear()
	t.capture.Reset()
	return order, nil
}

// Recall resumes a held order. A non-empty cart is rejected with
// model.ErrCartNotEmpty unless replace is set, in which case it is discarded.
func (t *Terminal) Recall(ctx context.Context, ticketID string, replace bool) (CartView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.cart.IsEmpty() && !replace {
		return CartView{}, model.ErrCartNotEmpty
	}

	order, err := t.queue.Recall(ctx, ticketID)
	if err != nil {
		return CartView{}, err
	}

	t.processor.Cancel()
	t.cart.Restore(order.Lines, order.Customer, order.Discount)

	t.logger.Debug().
		Str("ticket_id", order.TicketID).
		Int("line_count", len(order.Lines)).
		Msg("held order recalled")

	return t.view(), nil
}

// DiscardHold deletes a held order without recalling it.
func (t *Terminal) DiscardHold(ctx context.Context, ticketID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.queue.Discard(ctx, ticketID)
}

// Holds lists the terminal's held orders, oldest first.
func (t *Terminal) Holds(ctx context.Context) ([]model.HeldOrder, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.queue.List(ctx)
}

// BeginCheckout opens a checkout and returns the amount due.
func (t *Terminal) BeginCheckout() (CartView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := t.processor.Begin(); err != nil {
		return CartView{}, err
	}
	return t.view(), nil
}

// Pay settles the open checkout.
func (t *Terminal) Pay(ctx context.Context, method model.TenderMethod, amount decimal.Decimal) (*model.Receipt, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.processor.AttemptPayment(ctx, method, amount)
}

// CancelCheckout abandons the open checkout.
func (t *Terminal) CancelCheckout() CartView {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.processor.Cancel()
	return t.view()
}

// LastReceipt returns the most recent receipt of this terminal, or nil.
func (t *Terminal) LastReceipt() *model.Receipt {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.processor.LastReceipt()
}

func (t *Terminal) mutate(fn func() error) (CartView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := fn(); err != nil {
		return CartView{}, err
	}
	t.processor.Cancel()
	return t.view(), nil
}

func (t *Terminal) view() CartView {
	lines := t.cart.Lines()
	if lines == nil {
		lines = []model.CartLine{}
	}
	return CartView{
		TerminalID: t.id,
		Lines:      lines,
		Customer:   t.cart.Customer(),
		Discount:   model.SpecOf(t.cart.Discount()),
		Totals:     t.cart.Totals(t.taxRate),
		Checkout:   t.processor.State(),
	}
}
