package helpers

import "strings"

// NilIfBlank returns nil for a nil pointer or a whitespace-only value and a pointer to
// the trimmed value otherwise. Optional text columns are stored as NULL, never "".
func NilIfBlank(s *string) *string {
	if s == nil {
		return nil
	}
	return StringPtr(strings.TrimSpace(*s))
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
