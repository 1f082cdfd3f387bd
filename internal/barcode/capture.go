// Package barcode accumulates scanner keystrokes and adds scanned products
// to a cart.
package barcode

import (
	"strings"

	"mini-pos/internal/model"

	"github.com/rs/zerolog"
)

// Cart is the part of a cart a scan feeds.
type Cart interface {
	Add(code string, quantity int) error
}

// ProductLookup resolves a scanned code.
type ProductLookup interface {
	FindByCode(code string) (model.Product, error)
}

// Scan is the outcome of one terminated scan.
type Scan struct {
	Input   string         `json:"input"`
	Product *model.Product `json:"product,omitempty"`
	Err     error          `json:"-"`
}

// Capture buffers keystrokes until a terminator. Both '\n' and '\r' always
// terminate; an extra terminator such as '\t' may be configured.
// A Capture is not safe for concurrent use.
type Capture struct {
	catalog    ProductLookup
	cart       Cart
	terminator rune
	buf        strings.Builder
	logger     zerolog.Logger
}

// NewCapture creates a Capture that feeds cart. A zero terminator means '\n'.
func NewCapture(catalog ProductLookup, cart Cart, terminator rune, logger zerolog.Logger) *Capture {
	if terminator == 0 {
		terminator = '\n'
	}
	return &Capture{
		catalog:    catalog,
		cart:       cart,
		terminator: terminator,
		logger:     logger.With().Str("component", "barcode-capture").Logger(),
	}
}

// Key feeds one keystroke. It returns a Scan when r terminates a non-empty
// buffer and nil otherwise. The buffer is cleared on every terminator.
func (c *Capture) Key(r rune) *Scan {
	if !c.isTerminator(r) {
		c.buf.WriteRune(r)
		return nil
	}

	input := strings.TrimSpace(c.buf.String())
	c.buf.Reset()
	if input == "" {
		return nil
	}
	return c.resolve(input)
}

// Feed feeds a burst of keystrokes and returns every completed scan. Input
// after the last terminator stays buffered.
func (c *Capture) Feed(input string) []Scan {
	var scans []Scan
	for _, r := range input {
		if s := c.Key(r); s != nil {
			scans = append(scans, *s)
		}
	}
	return scans
}

// Reset drops a partially typed code.
func (c *Capture) Reset() {
	c.buf.Reset()
}

// Pending returns the buffered, unterminated input.
func (c *Capture) Pending() string {
	return c.buf.String()
}

func (c *Capture) isTerminator(r rune) bool {
	return r == c.terminator || r == '\n' || r == '\r'
}

func (c *Capture) resolve(input string) *Scan {
	product, err := c.catalog.FindByCode(input)
	if err != nil {
		c.logger.Debug().Str("input", input).Msg("scanned code not found")
		return &Scan{Input: input, Err: err}
	}

	if err := c.cart.Add(product.Code, 1); err != nil {
		c.logger.Debug().Err(err).Str("product_code", product.Code).Msg("scanned product rejected")
		return &Scan{Input: input, Product: &product, Err: err}
	}

	return &Scan{Input: input, Product: &product}
}
