// Package cart holds the mutable line items of one in-progress sale.
package cart

import (
	"strings"

	"mini-pos/internal/model"
	"mini-pos/internal/pricing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ProductLookup resolves a product code or barcode to a catalogue entry.
type ProductLookup interface {
	FindByCode(code string) (model.Product, error)
}

// Cart is an ordered set of lines, unique by product code.
// Quantities never exceed the product's stock at the time of the mutation.
// A Cart is not safe for concurrent use.
type Cart struct {
	catalog  ProductLookup
	lines    []model.CartLine
	discount model.Discount
	customer model.Customer
	logger   zerolog.Logger
}

// New creates an empty cart for the walk-in customer.
func New(catalog ProductLookup, logger zerolog.Logger) *Cart {
	return &Cart{
		catalog:  catalog,
		discount: model.NoDiscount{},
		customer: model.WalkInCustomer(),
		logger:   logger.With().Str("component", "cart").Logger(),
	}
}

// Add puts quantity units of a product in the cart. Adding a product that
// already has a line increases that line's quantity.
func (c *Cart) Add(code string, quantity int) error {
	if quantity <= 0 {
		return model.ErrInvalidQuantity.ForProduct(code)
	}

	product, err := c.catalog.FindByCode(code)
	if err != nil {
		return err
	}
	if product.Stock <= 0 {
		return model.ErrOutOfStock.ForProduct(product.Code)
	}

	if i := c.indexOf(product.Code); i >= 0 {
		next := c.lines[i].Quantity + quantity
		if next > product.Stock {
			c.logger.Debug().
				Str("product_code", product.Code).
				Int("requested", next).
				Int("stock", product.Stock).
				Msg("add rejected")
			return model.ErrInsufficientStock.ForProduct(product.Code)
		}
		c.lines[i].Quantity = next
		return nil
	}

	if quantity > product.Stock {
		return model.ErrInsufficientStock.ForProduct(product.Code)
	}

	c.lines = append(c.lines, model.CartLine{
		Code:      product.Code,
		Name:      product.Name,
		Unit:      product.Unit,
		Quantity:  quantity,
		UnitPrice: product.Price,
	})
	return nil
}

// SetQuantity overwrites a line's quantity. A quantity of zero or less
// removes the line. The unit price is unchanged.
func (c *Cart) SetQuantity(code string, quantity int) error {
	code = strings.TrimSpace(code)
	i := c.indexOf(code)
	if i < 0 {
		return model.ErrLineNotFound.ForProduct(code)
	}
	if quantity <= 0 {
		c.removeAt(i)
		return nil
	}

	product, err := c.catalog.FindByCode(code)
	if err != nil {
		return err
	}
	if quantity > product.Stock {
		return model.ErrInsufficientStock.ForProduct(code)
	}

	c.lines[i].Quantity = quantity
	return nil
}

// Remove drops the line for code. It is a no-op when there is none.
func (c *Cart) Remove(code string) {
	if i := c.indexOf(strings.TrimSpace(code)); i >= 0 {
		c.removeAt(i)
	}
}

// Clear empties the cart and resets discount and customer to defaults.
func (c *Cart) Clear() {
	c.lines = nil
	c.discount = model.NoDiscount{}
	c.customer = model.WalkInCustomer()
}

// SetDiscount attaches a cart-level discount. nil resets it.
func (c *Cart) SetDiscount(d model.Discount) {
	if d == nil {
		d = model.NoDiscount{}
	}
	c.discount = d
}

// SetCustomer attributes the sale to a customer.
func (c *Cart) SetCustomer(customer model.Customer) {
	c.customer = customer
}

// Discount returns the attached discount.
func (c *Cart) Discount() model.Discount {
	return c.discount
}

// Customer returns the selected customer.
func (c *Cart) Customer() model.Customer {
	return c.customer
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []model.CartLine {
	return model.CloneLines(c.lines)
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Totals computes the cart totals at taxRate. The result is only valid until
// the next mutation.
func (c *Cart) Totals(taxRate decimal.Decimal) model.Totals {
	return pricing.Compute(c.lines, c.discount, taxRate)
}

// Restore replaces the whole cart state, e.g. with a recalled held order.
func (c *Cart) Restore(lines []model.CartLine, customer model.Customer, discount model.Discount) {
	c.lines = model.CloneLines(lines)
	c.customer = customer
	c.SetDiscount(discount)
}

func (c *Cart) indexOf(code string) int {
	for i := range c.lines {
		if c.lines[i].Code == code {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	if len(c.lines) == 0 {
		c.lines = nil
	}
}
