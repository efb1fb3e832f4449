package spira

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid spira configuration")
	// ErrUnsupportedVersion indicates an API version this client cannot talk to
	ErrUnsupportedVersion = errors.New("unsupported spira API version")
	// ErrDecode is matched by every decode-stage error
	ErrDecode = errors.New("spira decode error")
)

// MissingFieldError reports a required field absent from a JSON object.
type MissingFieldError struct {
	Field   string
	Snippet string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %q in %s", e.Field, e.Snippet)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrDecode }

// InvalidFieldError reports a field that is present but holds an unusable value.
type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

func (e *InvalidFieldError) Is(target error) bool { return target == ErrDecode }

// UnknownEnumCodeError reports an integer code outside an enum's table.
type UnknownEnumCodeError struct {
	Field string
	Value int64
}

func (e *UnknownEnumCodeError) Error() string {
	return fmt.Sprintf("unknown code %d for field %q", e.Value, e.Field)
}

func (e *UnknownEnumCodeError) Is(target error) bool { return target == ErrDecode }

// DateFormatError reports a timestamp in none of the supported encodings.
type DateFormatError struct {
	Raw    string
	Reason string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("unsupported date %q: %s", e.Raw, e.Reason)
}

func (e *DateFormatError) Is(target error) bool { return target == ErrDecode }

// MalformedPayloadError reports a body that is not JSON or has the wrong shape.
type MalformedPayloadError struct {
	Reason  string
	Snippet string
	Err     error
}

func (e *MalformedPayloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed payload: %s: %v (body: %s)", e.Reason, e.Err, e.Snippet)
	}
	return fmt.Sprintf("malformed payload: %s (body: %s)", e.Reason, e.Snippet)
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }

func (e *MalformedPayloadError) Is(target error) bool { return target == ErrDecode }

// ElementError attaches the array index to an element-level decode failure.
type ElementError struct {
	Index int
	Err   error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("element %d: %v", e.Index, e.Err)
}

func (e *ElementError) Unwrap() error { return e.Err }

// TransportError wraps a failure returned by the Transport.
type TransportError struct {
	Path string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request %s failed: %v", e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError represents a non-success HTTP status from the service
type APIError struct {
	StatusCode int
	Path       string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("spira API error: status %d for %s: %s", e.StatusCode, e.Path, e.Body)
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
