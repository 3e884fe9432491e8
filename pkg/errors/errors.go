package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrUnsupported  ErrorCode = "UNSUPPORTED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Path errors
	ErrMarkerMissing ErrorCode = "MARKER_MISSING"

	// Migration errors
	ErrWalk         ErrorCode = "WALK"
	ErrFileRead     ErrorCode = "FILE_READ"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrEncoding     ErrorCode = "ENCODING"
	ErrBackup       ErrorCode = "BACKUP"
	ErrBackupExists ErrorCode = "BACKUP_EXISTS"

	// Symlink errors
	ErrListRead      ErrorCode = "LIST_READ"
	ErrSymlinkRead   ErrorCode = "SYMLINK_READ"
	ErrSymlinkRemove ErrorCode = "SYMLINK_REMOVE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"

	// Batch outcome
	ErrPartialFailure ErrorCode = "PARTIAL_FAILURE"
)

// Process exit codes
const (
	ExitOK      = 0
	ExitFatal   = 1
	ExitPartial = 2
)

// RelocateError represents a structured error with code and details
type RelocateError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *RelocateError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *RelocateError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *RelocateError) Is(target error) bool {
	var targetErr *RelocateError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new RelocateError with the given code and message
func New(code ErrorCode, message string) *RelocateError {
	return &RelocateError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new RelocateError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *RelocateError {
	return &RelocateError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a RelocateError
func Wrap(err error, code ErrorCode, message string) *RelocateError {
	if err == nil {
		return nil
	}
	return &RelocateError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *RelocateError {
	if err == nil {
		return nil
	}
	return &RelocateError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *RelocateError) WithDetail(key string, value interface{}) *RelocateError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var relErr *RelocateError
	if errors.As(err, &relErr) {
		return relErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a RelocateError
func GetErrorCode(err error) ErrorCode {
	var relErr *RelocateError
	if errors.As(err, &relErr) {
		return relErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a RelocateError
func GetErrorDetails(err error) map[string]interface{} {
	var relErr *RelocateError
	if errors.As(err, &relErr) {
		return relErr.Details
	}
	return nil
}

// ExitCode maps an error returned by a command to the process exit status.
// Batches that finished with some failed items exit with ExitPartial so
// callers can tell them apart from runs that never started.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if IsErrorCode(err, ErrPartialFailure) {
		return ExitPartial
	}
	return ExitFatal
}
