package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error       string `json:"error"`
	Message     string `json:"message"`
	ProductCode string `json:"productCode,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeMissingField       = "MISSING_FIELD"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeOutOfStock         = "OUT_OF_STOCK"
	ErrCodeInsufficientStock  = "INSUFFICIENT_STOCK"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeLineNotFound       = "LINE_NOT_FOUND"
	ErrCodeInvalidDiscount    = "INVALID_DISCOUNT"
	ErrCodeEmptyCart          = "EMPTY_CART"
	ErrCodeCartNotEmpty       = "CART_NOT_EMPTY"
	ErrCodeHeldOrderNotFound  = "HELD_ORDER_NOT_FOUND"
	ErrCodeInvalidTender      = "INVALID_TENDER"
	ErrCodeInsufficientTender = "INSUFFICIENT_TENDER"
	ErrCodeCheckoutNotStarted = "CHECKOUT_NOT_STARTED"
	ErrCodeCustomerNotFound   = "CUSTOMER_NOT_FOUND"
	ErrCodeDuplicateProduct   = "DUPLICATE_PRODUCT"
	ErrCodeInvalidTerminal    = "INVALID_TERMINAL"
	ErrCodeInvalidID          = "INVALID_ID"
	ErrCodeSaleNotFound       = "SALE_NOT_FOUND"
	ErrCodeReceiptNotFound    = "RECEIPT_NOT_FOUND"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// DomainError is a recoverable business rule violation.
// ProductCode is set when the error concerns one specific product.
type DomainError struct {
	Code        string
	Message     string
	ProductCode string
}

func (e *DomainError) Error() string {
	if e.ProductCode != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.ProductCode)
	}
	return e.Message
}

// Is reports whether target carries the same error code, so that a
// product-specific copy still matches its sentinel with errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// ForProduct returns a copy of the error naming the given product.
func (e *DomainError) ForProduct(code string) *DomainError {
	return &DomainError{
		Code:        e.Code,
		Message:     e.Message,
		ProductCode: code,
	}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound    = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrOutOfStock         = NewDomainError(ErrCodeOutOfStock, "Product is out of stock")
	ErrInsufficientStock  = NewDomainError(ErrCodeInsufficientStock, "Requested quantity exceeds available stock")
	ErrInvalidQuantity    = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrLineNotFound       = NewDomainError(ErrCodeLineNotFound, "Product is not in the cart")
	ErrInvalidDiscount    = NewDomainError(ErrCodeInvalidDiscount, "Discount must be a percentage between 0 and 100 or a non-negative amount")
	ErrEmptyCart          = NewDomainError(ErrCodeEmptyCart, "Cart has no items")
	ErrCartNotEmpty       = NewDomainError(ErrCodeCartNotEmpty, "Active cart must be empty before recalling a held order")
	ErrHeldOrderNotFound  = NewDomainError(ErrCodeHeldOrderNotFound, "Held order not found")
	ErrInvalidTender      = NewDomainError(ErrCodeInvalidTender, "Tender method or amount is invalid")
	ErrInsufficientTender = NewDomainError(ErrCodeInsufficientTender, "Tendered amount is less than the total due")
	ErrCheckoutNotStarted = NewDomainError(ErrCodeCheckoutNotStarted, "Checkout has not been started")
	ErrCustomerNotFound   = NewDomainError(ErrCodeCustomerNotFound, "Customer not found")
	ErrDuplicateProduct   = NewDomainError(ErrCodeDuplicateProduct, "Product code or barcode is not unique")
	ErrInvalidTerminal    = NewDomainError(ErrCodeInvalidTerminal, "Terminal id must be 1 to 32 letters, digits, dashes or underscores")
)
