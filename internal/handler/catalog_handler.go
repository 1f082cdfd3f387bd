package handler

import (
	"net/http"

	"mini-pos/internal/model"
	"mini-pos/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CustomerSearcher finds customers by name, phone or id.
type CustomerSearcher interface {
	Search(query string) []model.Customer
}

// CatalogHandler handles catalogue and customer lookups.
type CatalogHandler struct {
	service   service.CatalogService
	customers CustomerSearcher
	logger    zerolog.Logger
}

// NewCatalogHandler creates a new catalogue handler.
func NewCatalogHandler(service service.CatalogService, customers CustomerSearcher, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service:   service,
		customers: customers,
		logger:    logger.With().Str("handler", "catalog").Logger(),
	}
}

// ListProducts handles GET /api/products?q=&category= requests.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, h.service.Search(q.Get("q"), q.Get("category")))
}

// GetProduct handles GET /api/products/{code} requests. The code may also
// be a barcode.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetByCode(chi.URLParam(r, "code"))
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Categories handles GET /api/categories requests.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories := h.service.Categories()
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// Reload handles POST /api/catalog/reload requests.
func (h *CatalogHandler) Reload(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Reload(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"products": count})
}

// ListCustomers handles GET /api/customers?q= requests.
func (h *CatalogHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.customers.Search(r.URL.Query().Get("q")))
}
