package domain

import (
	"errors"
	"fmt"
)

// Application error codes.
// Handlers map these to HTTP status codes and user-facing messages.
const (
	ECONFLICT     = "conflict"          // 409 - duplicate email, duplicate cart line
	EINTERNAL     = "internal"          // 500 - store failure (details hidden)
	EINVALID      = "invalid"           // 400 - validation failure
	EINVALIDREF   = "invalid_reference" // 404 - referenced product does not exist
	ENOTFOUND     = "not_found"         // 404 - requested resource not found
	EUNAUTHORIZED = "unauthorized"      // 401 - missing or invalid token
	EFORBIDDEN    = "forbidden"         // 403 - authenticated but not permitted
	ENOTIMPL      = "not_implemented"   // 501
	ERATELIMIT    = "rate_limit"        // 429
	ETOOLARGE     = "too_large"         // 413 - request body exceeds limit
	ETIMEOUT      = "timeout"           // 503 - request exceeded its deadline
)

// genericInternalMessage replaces the message of internal errors in responses.
const genericInternalMessage = "An internal error occurred. Please try again later."

// Error represents an application error with a code and message.
type Error struct {
	// Code is a machine-readable error code (e.g., EINVALID, ENOTFOUND).
	Code string

	// Message is a human-readable error message safe to show to users.
	Message string

	// Op is the operation where the error occurred (e.g., "cart.add").
	// Used for logging, never shown to users.
	Op string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		if e.Op != "" {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a domain error with the same code and message.
// This lets sentinel errors match copies that carry a different Op.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// classify unwraps err into a domain error or a validation error. At most one
// of the results is non-nil.
func classify(err error) (*Error, *ValidationError) {
	var e *Error
	if errors.As(err, &e) {
		return e, nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return nil, ve
	}
	return nil, nil
}

// ErrorCode returns the code of err; anything unclassified is EINTERNAL.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	switch e, ve := classify(err); {
	case e != nil:
		return e.Code
	case ve != nil:
		return EINVALID
	}
	return EINTERNAL
}

// ErrorMessage returns the text safe to send to a client. Internal and
// unclassified errors collapse to one generic sentence so store details
// never leak.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	switch e, ve := classify(err); {
	case e != nil && e.Code != EINTERNAL:
		return e.Message
	case ve != nil:
		return "Validation failed"
	}
	return genericInternalMessage
}

// ErrorOp returns the operation tag for logging, or "".
func ErrorOp(err error) string {
	switch e, ve := classify(err); {
	case e != nil:
		return e.Op
	case ve != nil:
		return ve.Op
	}
	return ""
}

// Errorf builds a domain error with a formatted client message.
func Errorf(code, op, format string, args ...any) error {
	return &Error{
		Code:    code,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError attaches code, op and a client message to err. A nil err stays nil.
func WrapError(err error, code, op, message string) error {
	if err == nil {
		return nil
	}

	return &Error{
		Code:    code,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// WithOp returns a copy of a sentinel domain error tagged with op.
// Non-domain errors are returned unchanged.
func WithOp(err error, op string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	cp := *e
	cp.Op = op
	return &cp
}

// IsCode returns true if err has the given error code.
func IsCode(err error, code string) bool {
	return ErrorCode(err) == code
}

// =============================================================================
// Validation Errors (field-level)
// =============================================================================

// ValidationError represents one or more field validation failures.
type ValidationError struct {
	// Fields maps field names to error messages.
	Fields map[string]string

	// Op is the operation where validation failed.
	Op string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		for field, msg := range e.Fields {
			if e.Op != "" {
				return fmt.Sprintf("%s: %s: %s", e.Op, field, msg)
			}
			return fmt.Sprintf("%s: %s", field, msg)
		}
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: validation failed for %d fields", e.Op, len(e.Fields))
	}
	return fmt.Sprintf("validation failed for %d fields", len(e.Fields))
}

func NewValidationError(op, field, message string) error {
	return &ValidationError{Op: op, Fields: map[string]string{field: message}}
}

// AddFieldError records one more field failure on err, starting a new
// ValidationError when err is not one.
func AddFieldError(err error, field, message string) error {
	if _, ve := classify(err); ve != nil {
		ve.Fields[field] = message
		return ve
	}
	return &ValidationError{Fields: map[string]string{field: message}}
}

func IsValidationError(err error) bool {
	_, ve := classify(err)
	return ve != nil
}

// GetValidationFields returns nil unless err is a ValidationError.
func GetValidationFields(err error) map[string]string {
	if _, ve := classify(err); ve != nil {
		return ve.Fields
	}
	return nil
}

// =============================================================================
// Constructors
// =============================================================================

// NotFound reports a missing resource addressed by the request path,
// e.g. NotFound("cart.remove", "cart item", id).
func NotFound(op, resource, identifier string) error {
	return &Error{Code: ENOTFOUND, Op: op, Message: fmt.Sprintf("%s not found: %s", resource, identifier)}
}

// InvalidReference reports a missing entity named in the request body, such
// as the product of a cart line.
func InvalidReference(op, resource, identifier string) error {
	return &Error{Code: EINVALIDREF, Op: op, Message: fmt.Sprintf("%s not found: %s", resource, identifier)}
}

func Unauthorized(op, message string) error {
	return &Error{Code: EUNAUTHORIZED, Op: op, Message: message}
}

func Forbidden(op, message string) error {
	return &Error{Code: EFORBIDDEN, Op: op, Message: message}
}

func Invalid(op, message string) error {
	return &Error{Code: EINVALID, Op: op, Message: message}
}

func Conflict(op, message string) error {
	return &Error{Code: ECONFLICT, Op: op, Message: message}
}

// Internal wraps a store or infrastructure failure. Clients only ever see
// genericInternalMessage; err and message are for the logs.
func Internal(err error, op, message string) error {
	return &Error{Code: EINTERNAL, Op: op, Message: message, Err: err}
}
