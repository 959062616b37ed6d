package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError carries a stable code next to the message, so callers branch on
// Code and the CLI can print Details as JSON.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Cause   error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// InvalidArgument reports a missing selector, predicate, source or record.
func InvalidArgument(name string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s cannot be nil", name),
		Details: map[string]any{"argument": name},
	}
}

// EmptySequence reports an aggregate applied to a sequence with no elements.
func EmptySequence(op string) *AppError {
	return &AppError{
		Code: ErrCodeEmptySequence, Message: fmt.Sprintf("%s of an empty sequence is undefined", op),
		Details: map[string]any{"operation": op},
	}
}

// NotFound reports an unknown sample, category or entity. id may be empty.
func NotFound(resource, id string) *AppError {
	if id == "" {
		return &AppError{
			Code: ErrCodeNotFound, Message: fmt.Sprintf("%s not found", resource),
			Details: map[string]any{"resource": resource},
		}
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("unknown %s %q", resource, id),
		Details: map[string]any{"resource": resource, "id": id},
	}
}

// InvalidInput reports a flag, expression or record field that was rejected.
func InvalidInput(field, reason string) *AppError {
	if field == "" {
		return &AppError{Code: ErrCodeInvalidInput, Message: reason}
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("invalid %s: %s", field, reason),
		Details: map[string]any{"field": field},
	}
}

// Validation wraps an already formatted list of field errors.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// SampleFailed wraps the error a sample returned.
func SampleFailed(sample string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeSampleFailed, Message: fmt.Sprintf("sample %s failed", sample),
		Details: map[string]any{"sample": sample}, Cause: cause,
	}
}

// Internal wraps a failure no caller is expected to handle, such as a
// recovered panic.
func Internal(cause error) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: "internal error", Cause: cause}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether any AppError in err's chain carries code.
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		appErr, ok := AsAppError(err)
		if !ok {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Cause
	}
	return false
}
