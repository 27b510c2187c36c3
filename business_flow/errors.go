// Package businessflow contains the core business logic and use cases for the lead dashboard
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Listing-related errors
	ErrListingNotFound    = errors.New("listing not found")
	ErrIdentifierRequired = errors.New("listing_id or property_url is required")

	// List-related errors
	ErrListNotFound     = errors.New("list not found")
	ErrListAccessDenied = errors.New("list access denied")
	ErrListNameRequired = errors.New("list name is required")
	ErrItemIDRequired   = errors.New("item identifier is required")

	// User scoping errors
	ErrUserIDRequired = errors.New("user identifier is required")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 200")

	// Export errors
	ErrUnsupportedExportFormat = errors.New("unsupported export format")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsListingNotFound(err error) bool {
	return errors.Is(err, ErrListingNotFound)
}

func IsIdentifierRequired(err error) bool {
	return errors.Is(err, ErrIdentifierRequired)
}

func IsListNotFound(err error) bool {
	return errors.Is(err, ErrListNotFound)
}

func IsListAccessDenied(err error) bool {
	return errors.Is(err, ErrListAccessDenied)
}

func IsItemIDRequired(err error) bool {
	return errors.Is(err, ErrItemIDRequired)
}

func IsUserIDRequired(err error) bool {
	return errors.Is(err, ErrUserIDRequired)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsUnsupportedExportFormat(err error) bool {
	return errors.Is(err, ErrUnsupportedExportFormat)
}
