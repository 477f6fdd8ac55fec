// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Details returns the most specific message available, preferring the cause.
func (e *Error) Details() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Message
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Provider errors
	ErrSymbolNotFound   = &Error{Code: "SYMBOL_NOT_FOUND", Message: "symbol not found"}
	ErrValidationFailed = &Error{Code: "VALIDATION_FAILED", Message: "provider response failed validation"}
	ErrProviderTimeout  = &Error{Code: "PROVIDER_TIMEOUT", Message: "provider request timed out"}
	ErrProviderFailed   = &Error{Code: "PROVIDER_FAILED", Message: "provider request failed"}

	// Gateway errors
	ErrMissingVIX = &Error{Code: "MISSING_VIX", Message: "volatility index quote missing or without price"}

	// Dashboard client errors
	ErrGatewayStatus      = &Error{Code: "GATEWAY_STATUS", Message: "gateway returned an error"}
	ErrResponseParse      = &Error{Code: "RESPONSE_PARSE", Message: "failed to parse gateway response"}
	ErrGatewayUnreachable = &Error{Code: "GATEWAY_UNREACHABLE", Message: "gateway unreachable"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)
