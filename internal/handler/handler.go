package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"mini-pos/internal/model"

	"github.com/rs/zerolog"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 64 << 10

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code, error code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("error_code", code).Int("status", status).Msg(message)
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps err to a status code. Anything that is not a
// business rule violation is reported as an internal error without detail.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var de *model.DomainError
	if !errors.As(err, &de) {
		logger.Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error:   model.ErrCodeInternalError,
			Message: "internal server error",
		})
		return
	}

	status := statusFor(de.Code)
	logger.Debug().Str("error_code", de.Code).Str("product_code", de.ProductCode).Int("status", status).Msg(de.Message)
	writeJSON(w, status, errorResponse(de))
}

func errorResponse(de *model.DomainError) model.ErrorResponse {
	return model.ErrorResponse{
		Error:       de.Code,
		Message:     de.Message,
		ProductCode: de.ProductCode,
	}
}

func statusFor(code string) int {
	switch code {
	case model.ErrCodeInvalidJSON,
		model.ErrCodeMissingField,
		model.ErrCodeInvalidQuantity,
		model.ErrCodeInvalidDiscount,
		model.ErrCodeInvalidTender,
		model.ErrCodeInvalidTerminal,
		model.ErrCodeInvalidID:
		return http.StatusBadRequest
	case model.ErrCodeProductNotFound,
		model.ErrCodeLineNotFound,
		model.ErrCodeHeldOrderNotFound,
		model.ErrCodeCustomerNotFound,
		model.ErrCodeSaleNotFound,
		model.ErrCodeReceiptNotFound:
		return http.StatusNotFound
	case model.ErrCodeOutOfStock,
		model.ErrCodeInsufficientStock,
		model.ErrCodeCartNotEmpty,
		model.ErrCodeCheckoutNotStarted,
		model.ErrCodeDuplicateProduct:
		return http.StatusConflict
	case model.ErrCodeEmptyCart,
		model.ErrCodeInsufficientTender:
		return http.StatusUnprocessableEntity
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a JSON body into dst. An empty body is accepted when
// optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, optional bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return nil
	}
	return model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body")
}
