// Package pricing derives cart totals from lines, a discount and a tax rate.
package pricing

import (
	"mini-pos/internal/model"

	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the number of decimal places of the smallest currency unit.
const CurrencyPlaces = 2

var hundred = decimal.NewFromInt(100)

// Compute returns the totals for lines under discount and taxRate.
//
// Line totals are summed unrounded. The discount and the tax are each rounded
// half-up to the currency unit once, at cart level, so many lines never
// accumulate per-line rounding drift.
func Compute(lines []model.CartLine, discount model.Discount, taxRate decimal.Decimal) model.Totals {
	subtotal := Subtotal(lines)

	discountAmount := DiscountAmount(subtotal, discount)
	taxable := subtotal.Sub(discountAmount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	tax := decimal.Zero
	if taxRate.IsPositive() {
		tax = RoundCurrency(taxable.Mul(taxRate))
	}

	return model.Totals{
		Subtotal:   subtotal,
		Discount:   discountAmount,
		Tax:        tax,
		GrandTotal: taxable.Add(tax),
	}
}

// Subtotal sums quantity x unit price over lines.
func Subtotal(lines []model.CartLine) decimal.Decimal {
	subtotal := decimal.Zero
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		subtotal = subtotal.Add(l.LineTotal())
	}
	return subtotal
}

// DiscountAmount returns the amount discount takes off subtotal. It never
// exceeds subtotal.
func DiscountAmount(subtotal decimal.Decimal, discount model.Discount) decimal.Decimal {
	if !subtotal.IsPositive() {
		return decimal.Zero
	}

	var amount decimal.Decimal
	switch d := discount.(type) {
	case model.PercentDiscount:
		amount = RoundCurrency(subtotal.Mul(d.Value()).Div(hundred))
	case model.FixedDiscount:
		amount = RoundCurrency(d.Value())
	default:
		return decimal.Zero
	}

	if amount.IsNegative() {
		return decimal.Zero
	}
	if amount.GreaterThan(subtotal) {
		return subtotal
	}
	return amount
}

// RoundCurrency rounds half-up to CurrencyPlaces. Amounts handled here are
// never negative, so shopspring's half-away-from-zero is half-up.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}
