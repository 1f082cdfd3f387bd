package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one product in an open cart. UnitPrice is captured when the
// product is first added and does not follow later catalogue changes.
type CartLine struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// LineTotal returns quantity x unit price, unrounded.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CloneLines returns an independent copy of lines.
func CloneLines(lines []CartLine) []CartLine {
	if lines == nil {
		return nil
	}
	out := make([]CartLine, len(lines))
	copy(out, lines)
	return out
}

// Totals is derived from a cart, a discount and a tax rate. It is never stored
// on the cart itself.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	Tax        decimal.Decimal `json:"tax"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

// HeldOrder is a suspended cart waiting to be recalled.
type HeldOrder struct {
	TicketID   string     `json:"ticketId"`
	TerminalID string     `json:"terminalId"`
	Label      string     `json:"label,omitempty"`
	Lines      []CartLine `json:"lines"`
	Customer   Customer   `json:"customer"`
	Discount   Discount   `json:"-"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// MarshalJSON writes the discount in its DiscountSpec form.
func (h HeldOrder) MarshalJSON() ([]byte, error) {
	type heldOrder HeldOrder
	return json.Marshal(struct {
		heldOrder
		DiscountSpec DiscountSpec `json:"discountSpec"`
	}{heldOrder(h), SpecOf(h.Discount)})
}

// UnmarshalJSON restores the discount from its DiscountSpec form.
func (h *HeldOrder) UnmarshalJSON(data []byte) error {
	type heldOrder HeldOrder
	var aux struct {
		heldOrder
		DiscountSpec DiscountSpec `json:"discountSpec"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	discount, err := aux.DiscountSpec.Discount()
	if err != nil {
		return err
	}
	*h = HeldOrder(aux.heldOrder)
	h.Discount = discount
	return nil
}

// TenderMethod is how a customer settles a sale.
type TenderMethod string

const (
	TenderCash     TenderMethod = "cash"
	TenderCard     TenderMethod = "card"
	TenderTransfer TenderMethod = "transfer"
)

// IsValid reports whether m is a supported tender.
func (m TenderMethod) IsValid() bool {
	switch m {
	case TenderCash, TenderCard, TenderTransfer:
		return true
	}
	return false
}

// AcceptsChange reports whether the tender may exceed the total and be paid
// back as change. Non-cash tenders settle the exact amount.
func (m TenderMethod) AcceptsChange() bool {
	return m == TenderCash
}

// Receipt is the immutable record of a completed sale.
type Receipt struct {
	ID         uuid.UUID       `json:"id"`
	Number     string          `json:"number"`
	TerminalID string          `json:"terminalId"`
	Lines      []CartLine      `json:"lines"`
	Customer   Customer        `json:"customer"`
	Discount   DiscountSpec    `json:"discountSpec"`
	TaxRate    decimal.Decimal `json:"taxRate"`
	Totals     Totals          `json:"totals"`
	Method     TenderMethod    `json:"method"`
	Tendered   decimal.Decimal `json:"tendered"`
	Change     decimal.Decimal `json:"change"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// StockDecrements lists the stock reduction the sale implies, one per line.
func (r *Receipt) StockDecrements() []StockDecrement {
	out := make([]StockDecrement, len(r.Lines))
	for i, l := range r.Lines {
		out[i] = StockDecrement{Code: l.Code, Quantity: l.Quantity}
	}
	return out
}
