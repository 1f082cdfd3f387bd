package pos

import (
	"regexp"
	"sync"

	"mini-pos/internal/barcode"
	"mini-pos/internal/cart"
	"mini-pos/internal/catalog"
	"mini-pos/internal/checkout"
	"mini-pos/internal/held"
	"mini-pos/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var terminalIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

// Dependencies are the collaborators shared by every terminal of a store.
type Dependencies struct {
	Catalog        *catalog.Index
	Persister      catalog.StockPersister
	Customers      CustomerLookup
	HeldStore      held.Store
	Numbers        *checkout.Numberer
	Sinks          []checkout.ReceiptSink
	TaxRate        decimal.Decimal
	ScanTerminator rune
}

// Registry creates terminal sessions on first use and keeps them for the
// life of the process.
type Registry struct {
	mu        sync.Mutex
	deps      Dependencies
	terminals map[string]*Terminal
	logger    zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(deps Dependencies, logger zerolog.Logger) *Registry {
	return &Registry{
		deps:      deps,
		terminals: make(map[string]*Terminal),
		logger:    logger,
	}
}

// Terminal returns the session for id, creating it if needed.
func (r *Registry) Terminal(id string) (*Terminal, error) {
	if !terminalIDPattern.MatchString(id) {
		return nil, model.ErrInvalidTerminal
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.terminals[id]; ok {
		return t, nil
	}

	t := r.newTerminal(id)
	r.terminals[id] = t

	r.logger.Info().Str("terminal_id", id).Msg("terminal session opened")
	return t, nil
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.terminals)
}

func (r *Registry) newTerminal(id string) *Terminal {
	logger := r.logger.With().Str("terminal_id", id).Logger()

	c := cart.New(r.deps.Catalog, logger)
	processor := checkout.NewProcessor(
		checkout.Config{TerminalID: id, TaxRate: r.deps.TaxRate},
		c,
		r.deps.Catalog,
		r.deps.Persister,
		r.deps.Numbers,
		r.deps.Sinks,
		r.logger,
	)

	return &Terminal{
		id:        id,
		taxRate:   r.deps.TaxRate,
		cart:      c,
		processor: processor,
		capture:   barcode.NewCapture(r.deps.Catalog, c, r.deps.ScanTerminator, logger),
		queue:     held.NewQueue(id, r.deps.HeldStore, r.logger),
		customers: r.deps.Customers,
		logger:    logger.With().Str("component", "terminal").Logger(),
	}
}
