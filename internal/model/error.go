package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeMissingField        = "MISSING_FIELD"
	ErrCodeEmptyCart           = "EMPTY_CART"
	ErrCodeMissingItemID       = "MISSING_ITEM_ID"
	ErrCodeInvalidQuantity     = "INVALID_QUANTITY"
	ErrCodeInvalidAmount       = "INVALID_AMOUNT"
	ErrCodeInvalidClientSecret = "INVALID_CLIENT_SECRET"
	ErrCodeTotalMismatch       = "TOTAL_MISMATCH"
	ErrCodeMissingPaymentRef   = "MISSING_PAYMENT_REF"
	ErrCodePaymentInitFailed   = "PAYMENT_INIT_FAILED"
	ErrCodePaymentNotSucceeded = "PAYMENT_NOT_SUCCEEDED"
	ErrCodeOrderNotFound       = "ORDER_NOT_FOUND"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// DomainError carries a stable code alongside the human-readable message so
// handlers can map errors to HTTP statuses without inspecting error strings.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
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
	ErrEmptyCart           = NewDomainError(ErrCodeEmptyCart, "Order must contain at least one item")
	ErrMissingItemID       = NewDomainError(ErrCodeMissingItemID, "Every order item requires a product id")
	ErrInvalidQuantity     = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidAmount       = NewDomainError(ErrCodeInvalidAmount, "Amount must be greater than zero")
	ErrInvalidClientSecret = NewDomainError(ErrCodeInvalidClientSecret, "Client secret is malformed")
	ErrTotalMismatch       = NewDomainError(ErrCodeTotalMismatch, "Declared total does not match item subtotals plus shipping")
	ErrMissingPaymentRef   = NewDomainError(ErrCodeMissingPaymentRef, "Payment intent ID is required")
	ErrPaymentNotSucceeded = NewDomainError(ErrCodePaymentNotSucceeded, "Payment has not succeeded")
	ErrOrderNotFound       = NewDomainError(ErrCodeOrderNotFound, "Order not found")
)

// MissingField builds a validation error naming the absent shipping field.
func MissingField(field string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingField,
		Message: fmt.Sprintf("Missing required field: %s", field),
	}
}

// PaymentInitError wraps a payment collaborator rejection during intent creation.
func PaymentInitError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodePaymentInitFailed,
		Message: "Failed to create payment intent",
		Err:     err,
	}
}
