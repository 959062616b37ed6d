package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Query errors
const (
	// ErrCodeInvalidArgument indicates a required argument was absent.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeEmptySequence indicates an aggregate that needs at least one
	// element was applied to an empty sequence.
	ErrCodeEmptySequence ErrorCode = "EMPTY_SEQUENCE"
)

// Lookup and input errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Runner errors
const (
	// ErrCodeSampleFailed indicates a sample returned an error.
	ErrCodeSampleFailed ErrorCode = "SAMPLE_FAILED"
	// ErrCodeInternal indicates an unexpected failure, such as a recovered panic.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)
