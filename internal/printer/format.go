package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"mini-pos/internal/model"

	"github.com/shopspring/decimal"
)

// MinWidth is the narrowest receipt that can be rendered.
const MinWidth = 32

// FormatReceipt renders receipt as fixed-width plain text.
func FormatReceipt(receipt *model.Receipt, storeName string, width int) []byte {
	if width < MinWidth {
		width = MinWidth
	}
	var buf bytes.Buffer
	rule := strings.Repeat("-", width)

	if storeName != "" {
		buf.WriteString(center(storeName, width) + "\n")
	}
	buf.WriteString(pair("No", receipt.Number, width))
	buf.WriteString(pair("Date", receipt.CreatedAt.Format("2006-01-02 15:04"), width))
	buf.WriteString(pair("Terminal", receipt.TerminalID, width))
	if !receipt.Customer.IsWalkIn() && receipt.Customer.Name != "" {
		buf.WriteString(pair("Customer", receipt.Customer.Name, width))
	}
	buf.WriteString(rule + "\n")

	for _, l := range receipt.Lines {
		buf.WriteString(truncate(l.Name, width) + "\n")
		qty := fmt.Sprintf("  %d x %s", l.Quantity, money(l.UnitPrice))
		buf.WriteString(pair(qty, money(l.LineTotal()), width))
	}
	buf.WriteString(rule + "\n")

	buf.WriteString(pair("Subtotal", money(receipt.Totals.Subtotal), width))
	if receipt.Totals.Discount.IsPositive() {
		label := "Discount"
		if receipt.Discount.Type == model.DiscountPercent {
			label = fmt.Sprintf("Discount %s%%", receipt.Discount.Value.String())
		}
		buf.WriteString(pair(label, "-"+money(receipt.Totals.Discount), width))
	}
	if receipt.Totals.Tax.IsPositive() {
		rate := receipt.TaxRate.Mul(decimal.NewFromInt(100)).String()
		buf.WriteString(pair(fmt.Sprintf("Tax %s%%", rate), money(receipt.Totals.Tax), width))
	}
	buf.WriteString(pair("TOTAL", money(receipt.Totals.GrandTotal), width))
	buf.WriteString(pair(strings.ToUpper(string(receipt.Method)), money(receipt.Tendered), width))
	if receipt.Method == model.TenderCash {
		buf.WriteString(pair("Change", money(receipt.Change), width))
	}
	buf.WriteString(rule + "\n")
	buf.WriteString(center("Thank you", width) + "\n")

	return buf.Bytes()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// pair renders left and right justified to width.
func pair(left, right string, width int) string {
	gap := width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 1 {
		left = truncate(left, width-utf8.RuneCountInString(right)-1)
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right + "\n"
}

func center(s string, width int) string {
	s = truncate(s, width)
	pad := (width - utf8.RuneCountInString(s)) / 2
	return strings.Repeat(" ", pad) + s
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width])
}
