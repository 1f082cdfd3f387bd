package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mini-pos/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{model.ErrCodeInvalidQuantity, http.StatusBadRequest},
		{model.ErrCodeInvalidDiscount, http.StatusBadRequest},
		{model.ErrCodeInvalidTender, http.StatusBadRequest},
		{model.ErrCodeInvalidTerminal, http.StatusBadRequest},
		{model.ErrCodeProductNotFound, http.StatusNotFound},
		{model.ErrCodeLineNotFound, http.StatusNotFound},
		{model.ErrCodeHeldOrderNotFound, http.StatusNotFound},
		{model.ErrCodeCustomerNotFound, http.StatusNotFound},
		{model.ErrCodeOutOfStock, http.StatusConflict},
		{model.ErrCodeInsufficientStock, http.StatusConflict},
		{model.ErrCodeCartNotEmpty, http.StatusConflict},
		{model.ErrCodeCheckoutNotStarted, http.StatusConflict},
		{model.ErrCodeEmptyCart, http.StatusUnprocessableEntity},
		{model.ErrCodeInsufficientTender, http.StatusUnprocessableEntity},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, statusFor(tt.code))
		})
	}
}

func TestWriteDomainError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   model.ErrorResponse
	}{
		{
			name:           "Product specific error",
			err:            model.ErrInsufficientStock.ForProduct("P001"),
			expectedStatus: http.StatusConflict,
			expectedBody: model.ErrorResponse{
				Error:       model.ErrCodeInsufficientStock,
				Message:     model.ErrInsufficientStock.Message,
				ProductCode: "P001",
			},
		},
		{
			name:           "Wrapped domain error",
			err:            errors.Join(errors.New("context"), model.ErrEmptyCart),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody: model.ErrorResponse{
				Error:   model.ErrCodeEmptyCart,
				Message: model.ErrEmptyCart.Message,
			},
		},
		{
			name:           "Infrastructure error hides detail",
			err:            errors.New("dial tcp 10.0.0.1:5432: connection refused"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody: model.ErrorResponse{
				Error:   model.ErrCodeInternalError,
				Message: "internal server error",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			writeDomainError(w, tt.err, zerolog.Nop())

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.expectedBody, decodeError(t, w))
		})
	}
}
