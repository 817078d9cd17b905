package errors

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Messages returned to clients for the user domain errors.
const (
	MsgObjectNotFound = "Object not found"
	MsgEmailExists    = "Email already registered in the system"
	MsgInternal       = "An internal error occurred"
)

// Kind classifies an error for transport translation.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindDuplicateEmail
	KindValidation
)

// String returns a short name for the kind, used in logs.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindDuplicateEmail:
		return "duplicate_email"
	case KindValidation:
		return "validation"
	default:
		return "internal"
	}
}

// NotFoundError is raised when a requested id has no stored user.
type NotFoundError struct {
	Message string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "resource not found"
}

// GRPCStatus returns the gRPC status for this error
func (e *NotFoundError) GRPCStatus() *status.Status {
	return status.New(codes.NotFound, e.Error())
}

// DuplicateEmailError is raised when an email already belongs to another user.
type DuplicateEmailError struct {
	Email   string
	Message string
}

// NewDuplicateEmailError creates a new duplicate email error
func NewDuplicateEmailError(email, message string) *DuplicateEmailError {
	return &DuplicateEmailError{Email: email, Message: message}
}

// Error implements the error interface
func (e *DuplicateEmailError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("email %s already exists", e.Email)
}

// GRPCStatus returns the gRPC status for this error
func (e *DuplicateEmailError) GRPCStatus() *status.Status {
	return status.New(codes.AlreadyExists, e.Error())
}

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// GRPCStatus returns the gRPC status for this error
func (e *ValidationError) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Error())
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// GRPCStatus returns the gRPC status for this error.
// The wrapped cause is not exposed.
func (e *InternalError) GRPCStatus() *status.Status {
	return status.New(codes.Internal, e.Message)
}

// KindOf walks the error chain and reports the first known kind.
func KindOf(err error) Kind {
	var (
		notFound   *NotFoundError
		duplicate  *DuplicateEmailError
		validation *ValidationError
	)
	switch {
	case err == nil:
		return KindInternal
	case errors.As(err, &notFound):
		return KindNotFound
	case errors.As(err, &duplicate):
		return KindDuplicateEmail
	case errors.As(err, &validation):
		return KindValidation
	default:
		return KindInternal
	}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsDuplicateEmail reports whether err is a DuplicateEmailError.
func IsDuplicateEmail(err error) bool {
	return KindOf(err) == KindDuplicateEmail
}
