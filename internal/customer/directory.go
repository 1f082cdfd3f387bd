// Package customer is the read-only customer directory a cart picks its
// customer from.
package customer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"mini-pos/internal/model"

	"github.com/rs/zerolog"
)

// Source lists every known customer.
type Source interface {
	ListCustomers(ctx context.Context) ([]model.Customer, error)
}

// Directory holds the customer list in memory. The walk-in customer is
// always present and always listed first.
type Directory struct {
	mu        sync.RWMutex
	customers []model.Customer
	byID      map[string]int
	logger    zerolog.Logger
}

// NewDirectory creates a directory holding only the walk-in customer.
func NewDirectory(logger zerolog.Logger) *Directory {
	d := &Directory{logger: logger.With().Str("component", "customer-directory").Logger()}
	d.Replace(nil)
	return d
}

// Load replaces the directory contents with the customers listed by src.
func (d *Directory) Load(ctx context.Context, src Source) error {
	customers, err := src.ListCustomers(ctx)
	if err != nil {
		d.logger.Error().Err(err).Msg("failed to list customers")
		return fmt.Errorf("failed to load customers: %w", err)
	}
	d.Replace(customers)
	return nil
}

// Replace swaps in a new customer list. Entries without an id and repeated
// ids are skipped.
func (d *Directory) Replace(customers []model.Customer) {
	list := make([]model.Customer, 0, len(customers)+1)
	byID := make(map[string]int, len(customers)+1)

	list = append(list, model.WalkInCustomer())
	byID[model.WalkInCustomerID] = 0

	for _, c := range customers {
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" {
			continue
		}
		if _, dup := byID[c.ID]; dup {
			d.logger.Warn().Str("customer_id", c.ID).Msg("skipping duplicate customer")
			continue
		}
		byID[c.ID] = len(list)
		list = append(list, c)
	}

	d.mu.Lock()
	d.customers = list
	d.byID = byID
	d.mu.Unlock()

	d.logger.Info().Int("customer_count", len(list)).Msg("customer directory loaded")
}

// Get returns the customer with id.
func (d *Directory) Get(id string) (model.Customer, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	i, ok := d.byID[strings.TrimSpace(id)]
	if !ok {
		return model.Customer{}, model.ErrCustomerNotFound
	}
	return d.customers[i], nil
}

// Search returns the customers whose id, name or phone contains query,
// ignoring case. An empty query lists everyone.
func (d *Directory) Search(query string) []model.Customer {
	q := strings.ToLower(strings.TrimSpace(query))

	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make([]model.Customer, 0)
	for _, c := range d.customers {
		if q == "" ||
			strings.Contains(strings.ToLower(c.ID), q) ||
			strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(c.Phone, q) {
			result = append(result, c)
		}
	}
	return result
}
