package providers

import (
	"errors"
	"fmt"
)

// ErrorType represents the kind of a provider failure.
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeConfiguration: the provider could not be built from its config.
	ErrorTypeConfiguration
	// ErrorTypeTransport: network failure or a non-2xx status.
	ErrorTypeTransport
	// ErrorTypeDecoding: a structured response was requested but the body is not JSON.
	ErrorTypeDecoding
)

var (
	// ErrUnknownProvider is returned when a name has no registered constructor.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrNilRegistry is returned when registering into a nil registry.
	ErrNilRegistry = errors.New("provider registry is nil")
)

// ProviderError is the error returned by provider construction and Generate.
type ProviderError struct {
	Type       ErrorType
	Provider   string
	Message    string
	StatusCode int // HTTP status for transport errors, 0 when no response was received
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.TypeString(), e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.TypeString(), e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func (e *ProviderError) TypeString() string {
	switch e.Type {
	case ErrorTypeConfiguration:
		return "ConfigurationError"
	case ErrorTypeTransport:
		return "TransportError"
	case ErrorTypeDecoding:
		return "DecodingError"
	default:
		return "UnknownError"
	}
}

// LoggableFields returns key/value pairs for structured logging.
func (e *ProviderError) LoggableFields() []any {
	fields := []any{
		"error_type", e.TypeString(),
		"provider", e.Provider,
		"message", e.Message,
	}
	if e.StatusCode != 0 {
		fields = append(fields, "status", e.StatusCode)
	}
	if e.Err != nil {
		fields = append(fields, "error", e.Err.Error())
	}
	return fields
}

// NewProviderError creates a new ProviderError
func NewProviderError(errType ErrorType, provider, message string, err error) *ProviderError {
	return &ProviderError{
		Type:     errType,
		Provider: provider,
		Message:  message,
		Err:      err,
	}
}

// KindOf returns the ErrorType of the first ProviderError in err's chain.
func KindOf(err error) ErrorType {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Type
	}
	return ErrorTypeUnknown
}

func IsConfigurationError(err error) bool { return KindOf(err) == ErrorTypeConfiguration }
func IsTransportError(err error) bool     { return KindOf(err) == ErrorTypeTransport }
func IsDecodingError(err error) bool      { return KindOf(err) == ErrorTypeDecoding }
