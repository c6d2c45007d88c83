package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeSheetNotFound         = "SHEET_NOT_FOUND"
	CodeWorkbookError         = "WORKBOOK_ERROR"
	CodeInvalidMergedRange    = "INVALID_MERGED_RANGE"
	CodeClassifierUnavailable = "CLASSIFIER_UNAVAILABLE"
	CodeConfigInvalid         = "CONFIG_INVALID"
	CodeDatabaseError         = "DATABASE_ERROR"
	CodeNotFound              = "NOT_FOUND"
	CodeInvalidInput          = "INVALID_INPUT"
	CodeInternalError         = "INTERNAL_ERROR"
)

// Common error constructors

// SheetNotFound marks a requested sheet that is absent from its workbook.
// Fatal to that sheet's processing; callers continue with other sheets.
func SheetNotFound(sheet string) *AppError {
	return New(CodeSheetNotFound, fmt.Sprintf("sheet %q not found in workbook", sheet))
}

func WorkbookError(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeWorkbookError,
		Message: fmt.Sprintf("failed to read workbook %s", path),
		Cause:   cause,
	}
}

// ClassifierUnavailable marks a failed or malformed row-classifier
// response. Always recovered locally via the deterministic fallback.
func ClassifierUnavailable(cause error) *AppError {
	return &AppError{
		Code:    CodeClassifierUnavailable,
		Message: "row classifier unavailable",
		Cause:   cause,
	}
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}
