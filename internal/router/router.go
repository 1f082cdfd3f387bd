package router

import (
	"net/http"
	"time"

	"mini-pos/internal/handler"
	"mini-pos/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers the router mounts. Sales is optional
// and only mounted when sales are recorded.
type Handlers struct {
	Catalog   *handler.CatalogHandler
	Terminals *handler.TerminalHandler
	Sales     *handler.SaleHandler
}

// Options configures the middleware stack.
type Options struct {
	APIKey         string
	CORSOrigin     string
	RequestTimeout time.Duration
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Recovery -> RequestID -> Logging -> CORS -> APIKeyAuth -> Timeout
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(opts.CORSOrigin))
	r.Use(middleware.APIKeyAuth(opts.APIKey, logger, "/health"))
	if opts.RequestTimeout > 0 {
		r.Use(chimw.Timeout(opts.RequestTimeout))
	}

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.Catalog.ListProducts)
		r.Get("/products/{code}", h.Catalog.GetProduct)
		r.Get("/categories", h.Catalog.Categories)
		r.Post("/catalog/reload", h.Catalog.Reload)
		r.Get("/customers", h.Catalog.ListCustomers)

		if h.Sales != nil {
			r.Get("/sales/{id}", h.Sales.GetByID)
		}

		r.Route("/terminals/{terminal}", func(r chi.Router) {
			r.Get("/cart", h.Terminals.GetCart)
			r.Delete("/cart", h.Terminals.ClearCart)
			r.Post("/cart/items", h.Terminals.AddItem)
			r.Put("/cart/items/{code}", h.Terminals.UpdateQuantity)
			r.Delete("/cart/items/{code}", h.Terminals.RemoveItem)
			r.Put("/cart/discount", h.Terminals.SetDiscount)
			r.Put("/cart/customer", h.Terminals.SetCustomer)

			r.Post("/scan", h.Terminals.Scan)

			r.Get("/holds", h.Terminals.ListHolds)
			r.Post("/holds", h.Terminals.Hold)
			r.Post("/holds/{ticket}/recall", h.Terminals.Recall)
			r.Delete("/holds/{ticket}", h.Terminals.DiscardHold)

			r.Post("/checkout", h.Terminals.BeginCheckout)
			r.Delete("/checkout", h.Terminals.CancelCheckout)
			r.Post("/checkout/payment", h.Terminals.Pay)

			r.Get("/receipts/last", h.Terminals.LastReceipt)
		})
	})

	return r
}
