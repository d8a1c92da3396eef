package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrNotFound          = errors.New("entity not found")
	ErrAlreadyExists     = errors.New("entity already exists")
	ErrOperationFailed   = errors.New("operation failed")
	ErrConfirmInProgress = errors.New("payment confirmation already in progress")
)

// AuthenticationFailedError is returned when the OAuth password-grant
// exchange is rejected by the provider.
type AuthenticationFailedError struct {
	Message string
}

func (e *AuthenticationFailedError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// PurchaseFailedError is returned when the provider rejects a purchase
// request, or when a request cannot be built or sent at all. Message is the
// provider's message verbatim when one was supplied.
type PurchaseFailedError struct {
	Message string
}

func (e *PurchaseFailedError) Error() string {
	return fmt.Sprintf("purchase failed: %s", e.Message)
}

// InvalidPaymentError is returned when verification, eligibility or a
// lifecycle operation is rejected. StatusCode carries the HTTP status when
// the failure was detected at the transport level, zero otherwise.
type InvalidPaymentError struct {
	Message    string
	StatusCode int
}

func (e *InvalidPaymentError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("invalid payment (http %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("invalid payment: %s", e.Message)
}
