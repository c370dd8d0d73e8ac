package errors

import (
	goerrors "errors"
	"fmt"
	"maps"
	"sort"
	"strings"
)

// UnknownCode is used when an error carries no usable status code.
const UnknownCode = 500

// Error is the single error shape the kit surfaces: an HTTP-style status
// code, a human-readable message, optional per-field detail from backend
// validation responses, and the wrapped cause.
type Error struct {
	Code     int               `json:"code,omitempty"`
	Message  string            `json:"message,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`

	cause error
}

// New creates an error with the given status code and formatted message.
func New(code int, format string, args ...any) *Error {
	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}
	return &Error{Code: code, Message: message}
}

// Wrap wraps err with a status code and message, preserving the chain.
// Returns nil if err is nil.
func Wrap(err error, code int, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return New(code, format, args...).WithCause(err)
}

// FromError converts any error to *Error. A nil error yields nil, an
// existing *Error is returned unchanged, anything else gets UnknownCode.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return New(UnknownCode, "%v", err)
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "code=%d, message=%s", e.Code, e.Message)
	if len(e.Metadata) > 0 {
		keys := make([]string, 0, len(e.Metadata))
		for k := range e.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(", metadata={")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%s", k, e.Metadata[k])
		}
		b.WriteString("}")
	}
	if e.cause != nil {
		fmt.Fprintf(&b, ", cause=%s", e.cause.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.cause }

// Is reports whether err is an *Error with the same code and message.
func (e *Error) Is(err error) bool {
	var target *Error
	if goerrors.As(err, &target) {
		return e.Code == target.Code && e.Message == target.Message
	}
	return false
}

// WithMetadata returns a copy of the error with the given metadata merged in.
func (e *Error) WithMetadata(m map[string]string) *Error {
	if len(m) == 0 {
		return e
	}
	err := e.clone()
	if err.Metadata == nil {
		err.Metadata = make(map[string]string, len(m))
	}
	maps.Copy(err.Metadata, m)
	return err
}

// WithCause returns a copy of the error carrying cause.
func (e *Error) WithCause(cause error) *Error {
	if cause == nil {
		return e
	}
	err := e.clone()
	err.cause = cause
	return err
}

// GetCode returns the status code.
func (e *Error) GetCode() int { return e.Code }

// GetMessage returns the message.
func (e *Error) GetMessage() string { return e.Message }

// GetMetadata returns a copy of the metadata.
func (e *Error) GetMetadata() map[string]string {
	if len(e.Metadata) == 0 {
		return nil
	}
	m := make(map[string]string, len(e.Metadata))
	maps.Copy(m, e.Metadata)
	return m
}

// GetCause returns the wrapped cause.
func (e *Error) GetCause() error { return e.cause }

func (e *Error) clone() *Error {
	var metadata map[string]string
	if len(e.Metadata) > 0 {
		metadata = make(map[string]string, len(e.Metadata))
		maps.Copy(metadata, e.Metadata)
	}
	return &Error{Code: e.Code, Message: e.Message, Metadata: metadata, cause: e.cause}
}

// Semantic constructors for the status codes this kit actually meets.

func BadRequest(format string, args ...any) *Error {
	return New(400, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return New(401, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(403, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(404, format, args...)
}

func RequestTimeout(format string, args ...any) *Error {
	return New(408, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(409, format, args...)
}

func UnprocessableEntity(format string, args ...any) *Error {
	return New(422, format, args...)
}

func TooManyRequests(format string, args ...any) *Error {
	return New(429, format, args...)
}

func Internal(format string, args ...any) *Error {
	return New(500, format, args...)
}

func ServiceUnavailable(format string, args ...any) *Error {
	return New(503, format, args...)
}

func GatewayTimeout(format string, args ...any) *Error {
	return New(504, format, args...)
}

// Standard-library passthroughs so callers need only one errors import.

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return goerrors.Is(err, target) }

// As finds the first error in err's chain matching target.
func As(err error, target any) bool { return goerrors.As(err, target) }

// Unwrap returns the result of calling err's Unwrap method, if any.
func Unwrap(err error) error { return goerrors.Unwrap(err) }

// Join wraps the given errors, discarding nils.
func Join(errs ...error) error { return goerrors.Join(errs...) }
