package utils

import (
	"strings"
	"unicode/utf8"
)

func StringPtr(s string) *string {
	return &s
}

// TrimToNil returns nil for blank strings so optional fields stay absent.
func TrimToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// RuneLength counts characters rather than bytes; message limits are
// expressed in characters.
func RuneLength(s string) int {
	return utf8.RuneCountInString(s)
}
