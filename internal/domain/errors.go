package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use with errors.Is().
var (
	// ErrConfiguration marks unresolvable product or rate data. Fatal, never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrValidation marks malformed policy input, reported before projection starts.
	ErrValidation = errors.New("validation error")

	// ErrUnsupportedProduct is returned for product ids without a capability record.
	ErrUnsupportedProduct = errors.New("unsupported product")

	// ErrMissingRate is returned when a required rate table or scalar is absent.
	ErrMissingRate = errors.New("missing rate")
)

// ConfigurationError describes a product or rate lookup that cannot resolve.
type ConfigurationError struct {
	Resource string
	Key      string
	Reason   string
	Err      error
}

func (e *ConfigurationError) Error() string {
	msg := "configuration error: " + e.Resource
	if e.Key != "" {
		msg += " [" + e.Key + "]"
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is lets errors.Is match ErrConfiguration as well as the wrapped cause.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// NewUnsupportedProductError reports a product id with no capability record.
func NewUnsupportedProductError(id ProductID) *ConfigurationError {
	return &ConfigurationError{Resource: "product", Key: string(id), Err: ErrUnsupportedProduct}
}

// NewMissingRateError reports an absent rate table or scalar.
func NewMissingRateError(table, key string) *ConfigurationError {
	return &ConfigurationError{Resource: table, Key: key, Err: ErrMissingRate}
}

// ValidationError describes a policy input rule violation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError formats a ValidationError for a field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
