package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"mini-pos/internal/model"

	"github.com/rs/zerolog"
)

// Index holds the session's product list in memory and answers lookups.
// Product.Stock is only mutated through DecrementStock, DecrementAll and the
// matching restore calls.
type Index struct {
	mu        sync.RWMutex
	products  []model.Product
	byCode    map[string]int
	byBarcode map[string]int
	logger    zerolog.Logger
}

// NewIndex creates an empty index.
func NewIndex(logger zerolog.Logger) *Index {
	return &Index{
		byCode:    make(map[string]int),
		byBarcode: make(map[string]int),
		logger:    logger.With().Str("component", "catalog-index").Logger(),
	}
}

// Load replaces the index contents with the products listed by src.
func (x *Index) Load(ctx context.Context, src Source) error {
	products, err := src.ListProducts(ctx)
	if err != nil {
		x.logger.Error().Err(err).Msg("failed to list products")
		return fmt.Errorf("failed to load catalogue: %w", err)
	}
	return x.Replace(products)
}

// Replace swaps in a new product list. Codes must be unique, and so must
// barcodes where present.
func (x *Index) Replace(products []model.Product) error {
	byCode := make(map[string]int, len(products))
	byBarcode := make(map[string]int, len(products))
	list := make([]model.Product, 0, len(products))

	for _, p := range products {
		p.Code = strings.TrimSpace(p.Code)
		p.Barcode = strings.TrimSpace(p.Barcode)
		if p.Code == "" {
			return fmt.Errorf("product %q has no code", p.Name)
		}
		if p.Stock < 0 {
			p.Stock = 0
		}
		if _, dup := byCode[p.Code]; dup {
			return model.ErrDuplicateProduct.ForProduct(p.Code)
		}
		if p.Barcode != "" {
			if _, dup := byBarcode[p.Barcode]; dup {
				return model.ErrDuplicateProduct.ForProduct(p.Code)
			}
			byBarcode[p.Barcode] = len(list)
		}
		byCode[p.Code] = len(list)
		list = append(list, p)
	}

	x.mu.Lock()
	x.products = list
	x.byCode = byCode
	x.byBarcode = byBarcode
	x.mu.Unlock()

	x.logger.Info().Int("product_count", len(list)).Msg("catalogue loaded")
	return nil
}

// Len returns the number of products in the index.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.products)
}

// FindByCode looks a product up by code, then by barcode.
func (x *Index) FindByCode(code string) (model.Product, error) {
	code = strings.TrimSpace(code)

	x.mu.RLock()
	defer x.mu.RUnlock()

	if i, ok := x.lookup(code); ok {
		return x.products[i], nil
	}
	return model.Product{}, model.ErrProductNotFound.ForProduct(code)
}

func (x *Index) lookup(code string) (int, bool) {
	if i, ok := x.byCode[code]; ok {
		return i, true
	}
	if code == "" {
		return 0, false
	}
	i, ok := x.byBarcode[code]
	return i, ok
}

// Search returns the products whose name, code or barcode contains query,
// ignoring case. A non-empty category must match exactly, ignoring case.
// Each call returns a fresh slice in catalogue order.
func (x *Index) Search(query, category string) []model.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	category = strings.TrimSpace(category)

	x.mu.RLock()
	defer x.mu.RUnlock()

	result := make([]model.Product, 0)
	for _, p := range x.products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Code), q) &&
			!strings.Contains(strings.ToLower(p.Barcode), q) {
			continue
		}
		result = append(result, p)
	}
	return result
}

// Categories returns the distinct product categories, sorted.
func (x *Index) Categories() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, p := range x.products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// DecrementStock subtracts quantity from the product's stock.
func (x *Index) DecrementStock(code string, quantity int) error {
	return x.DecrementAll([]model.StockDecrement{{Code: code, Quantity: quantity}})
}

// DecrementAll applies every decrement or none. All lines are validated
// against current stock before any of them is subtracted.
func (x *Index) DecrementAll(decrements []model.StockDecrement) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	// Quantities for the same product accumulate across lines.
	need := make(map[int]int, len(decrements))
	for _, d := range decrements {
		if d.Quantity <= 0 {
			return model.ErrInvalidQuantity.ForProduct(d.Code)
		}
		i, ok := x.byCode[d.Code]
		if !ok {
			return model.ErrProductNotFound.ForProduct(d.Code)
		}
		need[i] += d.Quantity
		if need[i] > x.products[i].Stock {
			x.logger.Debug().
				Str("product_code", d.Code).
				Int("requested", need[i]).
				Int("stock", x.products[i].Stock).
				Msg("insufficient stock")
			return model.ErrInsufficientStock.ForProduct(d.Code)
		}
	}

	for i, qty := range need {
		x.products[i].Stock -= qty
	}
	return nil
}

// RestoreAll adds the decremented quantities back. It compensates a
// DecrementAll whose sale could not be completed.
func (x *Index) RestoreAll(decrements []model.StockDecrement) {
	x.mu.Lock()
	defer x.mu.Unlock()

	for _, d := range decrements {
		i, ok := x.byCode[d.Code]
		if !ok || d.Quantity <= 0 {
			continue
		}
		x.products[i].Stock += d.Quantity
	}
}

// Stock returns the on-hand stock of a product.
func (x *Index) Stock(code string) (int, error) {
	p, err := x.FindByCode(code)
	if err != nil {
		return 0, err
	}
	return p.Stock, nil
}
