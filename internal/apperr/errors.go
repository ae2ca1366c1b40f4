// Package apperr defines the error taxonomy shared by both services.
// Adapters and handlers surface typed errors; the HTTP boundary maps each
// kind to a stable status code and a JSON envelope.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an Error for status mapping and logging.
type Kind int

const (
	// KindValidation covers malformed input, rejected before any adapter runs.
	KindValidation Kind = iota

	// KindUnavailable covers providers whose credentials are not configured.
	KindUnavailable

	// KindBadGateway covers upstream HTTP failures and transport errors.
	KindBadGateway

	// KindUnexpectedShape covers upstream responses missing expected fields.
	KindUnexpectedShape

	// KindInternal is the catch-all for anything unanticipated.
	KindInternal
)

// String returns the snake_case name of the kind for log output.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnavailable:
		return "service_unavailable"
	case KindBadGateway:
		return "bad_gateway"
	case KindUnexpectedShape:
		return "unexpected_shape"
	default:
		return "internal"
	}
}

// Error is the canonical application error. Status is the HTTP status the
// boundary layer responds with; Detail is the client-facing message.
type Error struct {
	Kind   Kind
	Status int
	Detail string
	Err    error // wrapped cause, optional
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation returns a 400 validation error.
func Validation(detail string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Detail: detail}
}

// Unprocessable returns a 422 validation error for schema-level violations.
func Unprocessable(detail string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusUnprocessableEntity, Detail: detail}
}

// TooLarge returns a 413 validation error for oversized uploads.
func TooLarge(detail string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusRequestEntityTooLarge, Detail: detail}
}

// NotFound returns a 404 validation error for unknown providers or routes.
func NotFound(detail string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusNotFound, Detail: detail}
}

// Unavailable returns a 503 error for a provider with missing credentials.
func Unavailable(detail string) *Error {
	return &Error{Kind: KindUnavailable, Status: http.StatusServiceUnavailable, Detail: detail}
}

// BadGateway returns a 502 error for an upstream HTTP or transport failure.
func BadGateway(detail string, cause error) *Error {
	return &Error{Kind: KindBadGateway, Status: http.StatusBadGateway, Detail: detail, Err: cause}
}

// UnexpectedShape returns a 502 error for an upstream response whose
// expected fields are absent. Question generation intercepts this kind and
// degrades to placeholder content instead of failing.
func UnexpectedShape(detail string, cause error) *Error {
	return &Error{Kind: KindUnexpectedShape, Status: http.StatusBadGateway, Detail: detail, Err: cause}
}

// Internal returns a 500 error with a client-safe detail message.
func Internal(detail string, cause error) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Detail: detail, Err: cause}
}

// FromError extracts the *Error from err, wrapping anything unrecognized as
// an internal error so callers always get a mappable value.
func FromError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return hasKind(err, KindValidation)
}

// IsUnavailable checks if an error is a missing-credentials error.
func IsUnavailable(err error) bool {
	return hasKind(err, KindUnavailable)
}

// IsBadGateway checks if an error is an upstream failure.
func IsBadGateway(err error) bool {
	return hasKind(err, KindBadGateway)
}

// IsUnexpectedShape checks if an error is an upstream shape mismatch.
func IsUnexpectedShape(err error) bool {
	return hasKind(err, KindUnexpectedShape)
}

func hasKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
