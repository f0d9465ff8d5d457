package model

import (
	"errors"
	"fmt"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON             = "INVALID_JSON"
	ErrCodeNotAuthenticated        = "NOT_AUTHENTICATED"
	ErrCodeForbidden               = "FORBIDDEN"
	ErrCodeProductUnavailable      = "PRODUCT_UNAVAILABLE"
	ErrCodeCouponNotFound          = "COUPON_NOT_FOUND"
	ErrCodeCouponInactive          = "COUPON_INACTIVE"
	ErrCodeCouponMinimumNotMet     = "COUPON_MINIMUM_NOT_MET"
	ErrCodeCouponUsageExceeded     = "COUPON_USAGE_EXCEEDED"
	ErrCodeValidation              = "VALIDATION_ERROR"
	ErrCodeNotFound                = "NOT_FOUND"
	ErrCodeCartConflict            = "CART_CONFLICT"
	ErrCodeCollaboratorUnavailable = "COLLABORATOR_UNAVAILABLE"
	ErrCodeRateLimited             = "RATE_LIMITED"
	ErrCodeInternalError           = "INTERNAL_ERROR"
)

// DomainError is a recoverable business error identified by its Code.
// Two DomainErrors match under errors.Is when their codes are equal.
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

// Unwrap returns the underlying cause, if any.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a VALIDATION_ERROR with a specific message.
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(ErrCodeValidation, fmt.Sprintf(format, args...))
}

// NewCollaboratorError marks err as a failure of an external collaborator
// (catalogue, coupon registry, storage) that callers may retry.
func NewCollaboratorError(collaborator string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeCollaboratorUnavailable,
		Message: collaborator + " unavailable",
		Err:     err,
	}
}

// Common domain errors
var (
	ErrNotAuthenticated        = NewDomainError(ErrCodeNotAuthenticated, "Authentication is required")
	ErrForbidden               = NewDomainError(ErrCodeForbidden, "Not allowed to access this resource")
	ErrProductUnavailable      = NewDomainError(ErrCodeProductUnavailable, "Product is not available")
	ErrCouponNotFound          = NewDomainError(ErrCodeCouponNotFound, "Coupon not found")
	ErrCouponInactive          = NewDomainError(ErrCodeCouponInactive, "Coupon is not active")
	ErrCouponMinimumNotMet     = NewDomainError(ErrCodeCouponMinimumNotMet, "Cart subtotal is below the coupon minimum")
	ErrCouponUsageExceeded     = NewDomainError(ErrCodeCouponUsageExceeded, "Coupon usage limit reached")
	ErrValidation              = NewDomainError(ErrCodeValidation, "Validation failed")
	ErrNotFound                = NewDomainError(ErrCodeNotFound, "Resource not found")
	ErrCartConflict            = NewDomainError(ErrCodeCartConflict, "Cart was modified concurrently")
	ErrCollaboratorUnavailable = NewDomainError(ErrCodeCollaboratorUnavailable, "Dependency unavailable")
)
