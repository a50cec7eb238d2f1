package model

import "fmt"

// Standard error codes for API responses
const (
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeUnauthorised         = "UNAUTHORIZED"
	ErrCodeInsufficientStock    = "INSUFFICIENT_STOCK"
	ErrCodeAlreadyPaid          = "ALREADY_PAID"
	ErrCodeCannotCancelPaid     = "CANNOT_CANCEL_PAID_ORDER"
	ErrCodeAmountTooLow         = "AMOUNT_TOO_LOW"
	ErrCodeGatewayNotConfigured = "GATEWAY_NOT_CONFIGURED"
	ErrCodeGatewayRejected      = "GATEWAY_REJECTED"
	ErrCodeVerificationFailed   = "VERIFICATION_FAILED"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// DomainError is a business-rule failure carrying a stable code that handlers
// map to an HTTP status.
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

// NewValidationError creates a VALIDATION_ERROR with a formatted message.
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(ErrCodeValidation, fmt.Sprintf(format, args...))
}

// Common domain errors
var (
	ErrOrderNotFound      = NewDomainError(ErrCodeNotFound, "Order not found.")
	ErrPaymentNotFound    = NewDomainError(ErrCodeNotFound, "Payment record not found.")
	ErrNotOrderOwner      = NewDomainError(ErrCodeForbidden, "Not authorized.")
	ErrAlreadyPaid        = NewDomainError(ErrCodeAlreadyPaid, "Order already paid.")
	ErrCannotCancelPaid   = NewDomainError(ErrCodeCannotCancelPaid, "Paid orders cannot be cancelled here. Contact support.")
	ErrAmountTooLow       = NewDomainError(ErrCodeAmountTooLow, "Order total must be at least ₹1 to pay online. Current total is too low.")
	ErrVerificationFailed = NewDomainError(ErrCodeVerificationFailed, "Payment verification failed.")
	ErrGatewayUnavailable = NewDomainError(ErrCodeGatewayNotConfigured, "Payment gateway is not configured.")
)

// ErrorResponse is the uniform error envelope returned by every handler.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
