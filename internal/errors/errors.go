package errors

import "fmt"

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	if ve, ok := err.(*ValidationError); ok {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	if nfe, ok := err.(*NotFoundError); ok {
		return nfe, true
	}
	return nil, false
}

// VerificationError marks a payment-signature mismatch. It is distinct
// from ValidationError (missing input) and from storage or transport
// failures: the caller gets a definitive "not authentic", not a fault.
type VerificationError struct {
	Message string
}

func (e *VerificationError) Error() string {
	return e.Message
}

func NewVerificationError(message string) *VerificationError {
	return &VerificationError{Message: message}
}

func IsVerificationError(err error) (*VerificationError, bool) {
	if ve, ok := err.(*VerificationError); ok {
		return ve, true
	}
	return nil, false
}

// GatewayConfigError means externally-provisioned gateway credentials
// are absent. Raised before any remote call is attempted.
type GatewayConfigError struct {
	Message string
}

func (e *GatewayConfigError) Error() string {
	return e.Message
}

func NewGatewayConfigError(message string) *GatewayConfigError {
	return &GatewayConfigError{Message: message}
}

func IsGatewayConfigError(err error) (*GatewayConfigError, bool) {
	if ge, ok := err.(*GatewayConfigError); ok {
		return ge, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}
