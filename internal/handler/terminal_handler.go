package handler

import (
	"errors"
	"net/http"
	"strconv"

	"mini-pos/internal/model"
	"mini-pos/internal/pos"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// AddItemRequest adds a product by code or barcode. Quantity defaults to 1.
type AddItemRequest struct {
	Code     string `json:"code"`
	Quantity *int   `json:"quantity,omitempty"`
}

// UpdateQuantityRequest overwrites a line quantity.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// SetCustomerRequest attributes the cart to a customer.
type SetCustomerRequest struct {
	CustomerID string `json:"customerId"`
}

// ScanRequest carries raw scanner input.
type ScanRequest struct {
	Input string `json:"input"`
}

// HoldRequest optionally labels a held order.
type HoldRequest struct {
	Label string `json:"label"`
}

// PaymentRequest offers a tender for the open checkout.
type PaymentRequest struct {
	Method model.TenderMethod `json:"method"`
	Amount decimal.Decimal    `json:"amount"`
}

// ScanResult reports one scanned code.
type ScanResult struct {
	Input   string               `json:"input"`
	Product *model.Product       `json:"product,omitempty"`
	Error   *model.ErrorResponse `json:"error,omitempty"`
}

// ScanResponse is the outcome of a scan request.
type ScanResponse struct {
	Scans []ScanResult `json:"scans"`
	Cart  pos.CartView `json:"cart"`
}

// TerminalProvider resolves terminal sessions by id.
type TerminalProvider interface {
	Terminal(id string) (*pos.Terminal, error)
}

// TerminalHandler drives terminal sessions: cart, scans, held orders and
// checkout.
type TerminalHandler struct {
	terminals TerminalProvider
	logger    zerolog.Logger
}

// NewTerminalHandler creates a new terminal handler.
func NewTerminalHandler(terminals TerminalProvider, logger zerolog.Logger) *TerminalHandler {
	return &TerminalHandler{
		terminals: terminals,
		logger:    logger.With().Str("handler", "terminal").Logger(),
	}
}

func (h *TerminalHandler) terminal(w http.ResponseWriter, r *http.Request) (*pos.Terminal, bool) {
	t, err := h.terminals.Terminal(chi.URLParam(r, "terminal"))
	if err != nil {
		writeDomainError(w, err, h.logger)
		return nil, false
	}
	return t, true
}

// GetCart handles GET /api/terminals/{terminal}/cart requests.
func (h *TerminalHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	t, ok := h.terminal(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, t.Cart())
}

// AddItem handles POST /api/terminals/{terminal}/cart/items requests.
func (h *TerminalHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	t, ok := h.terminal(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "code is required", h.logger)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	view, err := t.AddItem(req.Code, quantity)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// UpdateQuantity handles PUT /api/terminals/{terminal}/cart/items/{code} requests.
func (h *TerminalHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	t, ok := h.terminal(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if req.Quantity == nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "quantity is required", h.logger)
		return
	}

	view, err := t.SetQuantity(chi.URLParam(r, "code"), *req.Quantity)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// RemoveItem handles DELETE /api/terminals/{terminal}/cart/items/{code} requests.
func (h *TerminalHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	t, ok := h.terminal(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, t.RemoveItem(chi.URLParam(r, "code")))
}

// ClearCart handles DELETE /api/terminals/{terminal}/cart requests.
func (h *TerminalHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	t, ok := h.terminal(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, t.ClearCart())
}

// SetDiscount handles PUT /api/terminals/{terminal}/cart/discount requests.
func (h *TerminalHandler) SetDiscount(w http.ResponseWriter, r *http.Request) {
	t, ok := h.terminal(w, r)
	if !ok {
		return
	}

	var spec model.DiscountSpec
	if err := decodeJSON(w, r, &spec, false); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	view, err := t.SetDiscount(spec)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SetCustomer handles PUT /api/terminals/{terminal}/cart/customer requests.
func (h *TerminalHandler) SetCustomer(w http.ResponseWriter, r *http.Request) {
	t, ok := h.terminal(w, r)
	if !ok {
		return
	}

	var req SetCustomerRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if req.CustomerID == "" {
		req.CustomerID = model.WalkInCustomerID
	}

	view, err := t.SetCustomer(req.CustomerID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Scan handles POST /api/terminals/{terminal}/scan requests.
func (h *TerminalHandler) Scan(w http.ResponseWriter, r *http.Request) {
	t, ok := h.terminal(w, r)
	if !ok {
		return
	}

	var req ScanRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	result := t.Scan(req.Input)

	resp := ScanResponse{Scans: make([]ScanResult, len(result.Scans)), Cart: result.Cart}
	for i, s := range result.Scans {
		resp.Scans[i] = ScanResult{Input: s.Input, Product: s.Product}
		if s.Err != nil {
			resp.Scans[i].Error = scanError(s.Err)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func scanError(err error) *model.ErrorResponse {
	var de *model.DomainError
	if errors.As(err, &de) {
		resp := errorResponse(de)
		return &resp
	}
	return &model.ErrorResponse{Error: model.ErrCodeInternalError, Message: "scan failed"}
}

// ListHolds handles GET /api/terminals/{terminal}/holds requests.
func (h *TerminalHandler) ListHolds(w http.ResponseWriter, r *http.Request) {
	t, ok := h.terminal(w, r)
	if !ok {
		return
	}

	holds, err := t.Holds(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if holds == nil {
		holds = []model.HeldOrder{}
	}
	writeJSON(w, http.StatusOK, holds)
}

// Hold handles POST /api/terminals/{terminal}/holds requests.
func (h *TerminalHandler) Hold(w http.ResponseWriter, r *http.Request) {
	t, ok := h.terminal(w, r)
	if !ok {
		return
	}

	var req HoldRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	order, err := t.Hold(r.Context(), req.Label)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// Recall handles POST /api/terminals/{terminal}/holds/{ticket}/recall requests.
// ?replace=true discards a non-empty active cart.
func (h *TerminalHandler) Recall(w http.ResponseWriter, r *http.Request) {
	t, ok := h.terminal(w, r)
	if !ok {
		return
	}

	replace := false
	if v := r.URL.Query().Get("replace"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid replace parameter", h.logger)
			return
		}
		replace = parsed
	}

	view, err := t.Recall(r.Context(), chi.URLParam(r, "ticket"), replace)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// DiscardHold handles DELETE /api/terminals/{terminal}/holds/{ticket} requests.
func (h *TerminalHandler) DiscardHold(w http.ResponseWriter, r *http.Request) {
	t, ok := h.terminal(w, r)
	if !ok {
		return
	}

	if err := t.DiscardHold(r.Context(), chi.URLParam(r, "ticket")); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BeginCheckout handles POST /api/terminals/{terminal}/checkout requests.
func (h *TerminalHandler) BeginCheckout(w http.ResponseWriter, r *http.Request) {
	t, ok := h.terminal(w, r)
	if !ok {
		return
	}

	view, err := t.BeginCheckout()
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Pay handles POST /api/terminals/{terminal}/checkout/payment requests.
func (h *TerminalHandler) Pay(w http.ResponseWriter, r *http.Request) {
	t, ok := h.terminal(w, r)
	if !ok {
		return
	}

	var req PaymentRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	receipt, err := t.Pay(r.Context(), req.Method, req.Amount)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

// CancelCheckout handles DELETE /api/terminals/{terminal}/checkout requests.
func (h *TerminalHandler) CancelCheckout(w http.ResponseWriter, r *http.Request) {
	t, ok := h.terminal(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, t.CancelCheckout())
}

// LastReceipt handles GET /api/terminals/{terminal}/receipts/last requests.
func (h *TerminalHandler) LastReceipt(w http.ResponseWriter, r *http.Request) {
	t, ok := h.terminal(w, r)
	if !ok {
		return
	}

	receipt := t.LastReceipt()
	if receipt == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeReceiptNotFound, "no sale completed on this terminal", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}
