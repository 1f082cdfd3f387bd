package model

import "github.com/shopspring/decimal"

// Product represents a sellable item in the store catalogue.
type Product struct {
	Code     string          `json:"code" db:"code"`
	Name     string          `json:"name" db:"name"`
	Category string          `json:"category" db:"category"`
	Price    decimal.Decimal `json:"price" db:"price"`
	Unit     string          `json:"unit" db:"unit"`
	Stock    int             `json:"stock" db:"stock"`
	Barcode  string          `json:"barcode,omitempty" db:"barcode"`
}

// StockDecrement is a request to reduce the on-hand stock of one product.
type StockDecrement struct {
	Code     string `json:"code"`
	Quantity int    `json:"quantity"`
}
