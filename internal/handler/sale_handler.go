package handler

import (
	"net/http"

	"mini-pos/internal/model"
	"mini-pos/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SaleHandler serves recorded sales.
type SaleHandler struct {
	service service.SaleService
	logger  zerolog.Logger
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(service service.SaleService, logger zerolog.Logger) *SaleHandler {
	return &SaleHandler{
		service: service,
		logger:  logger.With().Str("handler", "sale").Logger(),
	}
}

// GetByID handles GET /api/sales/{id} requests.
func (h *SaleHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidID, "invalid sale ID format", h.logger)
		return
	}

	receipt, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to retrieve sale", h.logger)
		return
	}

	if receipt == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeSaleNotFound, "sale not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, receipt)
}
