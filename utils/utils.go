// Package utils provides utility functions for the application.
package utils

import (
	"strconv"
)

func ToPtr[T any](v T) *T {
	return &v
}

func IsTrue(b *bool) bool {
	return b != nil && *b
}

// StrOrEmpty dereferences an optional string.
func StrOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// FloatString renders an optional float without a trailing ".000000"; absent
// values render as the empty string. Used for CSV cells.
func FloatString(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
