package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mini-pos/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSaleService is a mock implementation of SaleService.
type MockSaleService struct {
	mock.Mock
}

func (m *MockSaleService) HandleReceipt(ctx context.Context, receipt *model.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockSaleService) GetByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Receipt), args.Error(1)
}

func TestSaleHandler_GetByID(t *testing.T) {
	saleID := uuid.New()
	receipt := &model.Receipt{ID: saleID, Number: "RCP-20260101-0001", TerminalID: "T1"}

	tests := []struct {
		name           string
		id             string
		mockReturn     *model.Receipt
		mockError      error
		expectService  bool
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Found",
			id:             saleID.String(),
			mockReturn:     receipt,
			expectService:  true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Not found",
			id:             saleID.String(),
			expectService:  true,
			expectedStatus: http.StatusNotFound,
			expectedCode:   model.ErrCodeSaleNotFound,
		},
		{
			name:           "Repository error",
			id:             saleID.String(),
			mockError:      errors.New("database error"),
			expectService:  true,
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   model.ErrCodeInternalError,
		},
		{
			name:           "Invalid ID",
			id:             "not-a-uuid",
			expectService:  false,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockSaleService)
			if tt.expectService {
				if tt.mockReturn != nil {
					svc.On("GetByID", mock.Anything, saleID).Return(tt.mockReturn, tt.mockError)
				} else {
					svc.On("GetByID", mock.Anything, saleID).Return(nil, tt.mockError)
				}
			}

			h := NewSaleHandler(svc, zerolog.Nop())
			r := chi.NewRouter()
			r.Get("/api/sales/{id}", h.GetByID)

			req := httptest.NewRequest(http.MethodGet, "/api/sales/"+tt.id, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Error)
			} else {
				var got model.Receipt
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				assert.Equal(t, receipt.Number, got.Number)
			}

			if tt.expectService {
				svc.AssertExpectations(t)
			} else {
				svc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
			}
		})
	}
}
