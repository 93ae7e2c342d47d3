package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeMissingField      = "MISSING_FIELD"
	ErrCodeEmptyCart         = "EMPTY_CART"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeVariantNotFound   = "VARIANT_NOT_FOUND"
	ErrCodeVariantInactive   = "VARIANT_INACTIVE"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeDuplicateVariant  = "DUPLICATE_VARIANT"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeInvalidStatus     = "INVALID_STATUS"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a business-rule violation carrying a stable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrEmptyCart       = NewDomainError(ErrCodeEmptyCart, "Cart must contain at least one item")
	ErrInvalidQuantity = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrProductNotFound = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrOrderNotFound   = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrInvalidStatus   = NewDomainError(ErrCodeInvalidStatus, "Status must be PAID, FULFILLED, or CANCELLED")
	ErrUserNotFound    = NewDomainError(ErrCodeUserNotFound, "User not found")
)

// VariantNotFoundError identifies the missing variant in a stock check.
type VariantNotFoundError struct {
	VariantID string
}

func (e *VariantNotFoundError) Error() string {
	return fmt.Sprintf("variant %s not found", e.VariantID)
}

// VariantInactiveError names a variant that can no longer be sold.
type VariantInactiveError struct {
	VariantID string
	Title     string
}

func (e *VariantInactiveError) Error() string {
	return fmt.Sprintf("variant %s of %q is inactive", e.VariantID, e.Title)
}

// InsufficientStockError names the product/colour/size and remaining stock
// of a line whose requested quantity exceeds availability.
type InsufficientStockError struct {
	Title     string
	Colour    string
	Size      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q (%s/%s): requested %d, available %d",
		e.Title, e.Colour, e.Size, e.Requested, e.Available)
}

// DuplicateVariantError names a colour+size combination that already exists
// for the product, either in the same request or in the database.
type DuplicateVariantError struct {
	Colour string
	Size   string
}

func (e *DuplicateVariantError) Error() string {
	return fmt.Sprintf("variant with colour %q and size %q already exists", e.Colour, e.Size)
}
