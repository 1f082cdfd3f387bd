package model

import "github.com/shopspring/decimal"

// WalkInCustomerID identifies the anonymous counter customer.
const WalkInCustomerID = "walk-in"

// Customer is the buyer a sale is attributed to.
type Customer struct {
	ID      string           `json:"id" db:"id"`
	Name    string           `json:"name" db:"name"`
	Phone   string           `json:"phone,omitempty" db:"phone"`
	Balance *decimal.Decimal `json:"balance,omitempty" db:"balance"`
}

// WalkInCustomer returns the default customer of a fresh cart.
func WalkInCustomer() Customer {
	return Customer{ID: WalkInCustomerID, Name: "Walk-in Customer"}
}

// IsWalkIn reports whether c is the anonymous counter customer.
func (c Customer) IsWalkIn() bool {
	return c.ID == WalkInCustomerID
}
