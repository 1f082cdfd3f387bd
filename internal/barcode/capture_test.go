package barcode

import (
	"testing"

	"mini-pos/internal/cart"
	"mini-pos/internal/catalog"
	"mini-pos/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCapture(t *testing.T, terminator rune) (*Capture, *cart.Cart) {
	t.Helper()
	idx := catalog.NewIndex(zerolog.Nop())
	require.NoError(t, idx.Replace([]model.Product{
		{Code: "P001", Name: "Coffee", Price: decimal.NewFromInt(30), Stock: 2, Barcode: "8991234567890"},
		{Code: "P002", Name: "Tea", Price: decimal.NewFromInt(20), Stock: 0, Barcode: "8990000000001"},
	}))
	c := cart.New(idx, zerolog.Nop())
	return NewCapture(idx, c, terminator, zerolog.Nop()), c
}

func TestCapture_Key(t *testing.T) {
	capture, c := newTestCapture(t, 0)

	for _, r := range "899123456789" {
		assert.Nil(t, capture.Key(r))
	}
	assert.Equal(t, "899123456789", capture.Pending())
	assert.Equal(t, 0, c.Len())

	assert.Nil(t, capture.Key('0'))
	scan := capture.Key('\n')

	require.NotNil(t, scan)
	require.NoError(t, scan.Err)
	assert.Equal(t, "P001", scan.Product.Code)
	assert.Equal(t, "", capture.Pending())
	assert.Equal(t, 1, c.Lines()[0].Quantity)
}

func TestCapture_Feed(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		terminator rune
		expectErrs []error
		expectQty  int
	}{
		{
			name:       "Single scan",
			input:      "8991234567890\n",
			expectErrs: []error{nil},
			expectQty:  1,
		},
		{
			name:       "Carriage return terminates",
			input:      "8991234567890\r\n",
			expectErrs: []error{nil},
			expectQty:  1,
		},
		{
			name:       "Unknown code clears buffer",
			input:      "12345\n8991234567890\n",
			expectErrs: []error{model.ErrProductNotFound, nil},
			expectQty:  1,
		},
		{
			name:       "Out of stock",
			input:      "8990000000001\n",
			expectErrs: []error{model.ErrOutOfStock},
		},
		{
			name:       "Third scan exceeds stock",
			input:      "P001\nP001\nP001\n",
			expectErrs: []error{nil, nil, model.ErrInsufficientStock},
			expectQty:  2,
		},
		{
			name:       "Tab terminator",
			input:      "P001\t",
			terminator: '\t',
			expectErrs: []error{nil},
			expectQty:  1,
		},
		{
			name:  "Unterminated input",
			input: "P001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capture, c := newTestCapture(t, tt.terminator)

			scans := capture.Feed(tt.input)

			require.Len(t, scans, len(tt.expectErrs))
			for i, expected := range tt.expectErrs {
				if expected == nil {
					assert.NoError(t, scans[i].Err)
				} else {
					assert.ErrorIs(t, scans[i].Err, expected)
				}
			}
			if tt.expectQty == 0 {
				assert.Equal(t, 0, c.Len())
			} else {
				require.Equal(t, 1, c.Len())
				assert.Equal(t, tt.expectQty, c.Lines()[0].Quantity)
			}
		})
	}
}

func TestCapture_Reset(t *testing.T) {
	capture, c := newTestCapture(t, 0)

	capture.Feed("89912")
	capture.Reset()
	scans := capture.Feed("P001\n")

	require.Len(t, scans, 1)
	assert.NoError(t, scans[0].Err)
	assert.Equal(t, 1, c.Len())
}
