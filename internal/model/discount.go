package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Discount kinds as they appear on the wire.
const (
	DiscountNone    = "none"
	DiscountPercent = "percent"
	DiscountFixed   = "fixed"
)

var hundred = decimal.NewFromInt(100)

// Discount is applied once to a whole cart. The only implementations are
// NoDiscount, PercentDiscount and FixedDiscount.
type Discount interface {
	Kind() string
	Value() decimal.Decimal
	isDiscount()
}

// NoDiscount is the default discount of a fresh cart.
type NoDiscount struct{}

// PercentDiscount takes a share of the subtotal.
type PercentDiscount struct {
	percent decimal.Decimal
}

// FixedDiscount takes a flat amount off the subtotal.
type FixedDiscount struct {
	amount decimal.Decimal
}

func (NoDiscount) Kind() string { return DiscountNone }

func (NoDiscount) Value() decimal.Decimal { return decimal.Zero }

func (NoDiscount) isDiscount() {}

func (PercentDiscount) Kind() string { return DiscountPercent }

// Value returns the percentage, e.g. 10 for 10%.
func (d PercentDiscount) Value() decimal.Decimal { return d.percent }

func (PercentDiscount) isDiscount() {}

func (FixedDiscount) Kind() string { return DiscountFixed }

func (d FixedDiscount) Value() decimal.Decimal { return d.amount }

func (FixedDiscount) isDiscount() {}

// NewPercentDiscount returns a percentage discount in [0, 100].
func NewPercentDiscount(percent decimal.Decimal) (Discount, error) {
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return nil, ErrInvalidDiscount
	}
	return PercentDiscount{percent: percent}, nil
}

// NewFixedDiscount returns a flat discount. Amounts above the cart subtotal
// are clamped when totals are computed.
func NewFixedDiscount(amount decimal.Decimal) (Discount, error) {
	if amount.IsNegative() {
		return nil, ErrInvalidDiscount
	}
	return FixedDiscount{amount: amount}, nil
}

// DiscountSpec is the serialisable form of a Discount.
type DiscountSpec struct {
	Type  string          `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// SpecOf converts a Discount to its serialisable form.
func SpecOf(d Discount) DiscountSpec {
	if d == nil {
		return DiscountSpec{Type: DiscountNone}
	}
	return DiscountSpec{Type: d.Kind(), Value: d.Value()}
}

// Discount converts the spec back into a validated Discount.
func (s DiscountSpec) Discount() (Discount, error) {
	switch s.Type {
	case "", DiscountNone:
		return NoDiscount{}, nil
	case DiscountPercent:
		return NewPercentDiscount(s.Value)
	case DiscountFixed:
		return NewFixedDiscount(s.Value)
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidDiscount, s.Type)
	}
}
