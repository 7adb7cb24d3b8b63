package utils

import (
	"regexp"
	"strings"
)

var (
	phoneRegex      = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)
	phoneStripRegex = regexp.MustCompile(`[^\d+]`)
)

// NormalizePhone strips formatting and converts local Kenyan numbers to
// E.164: "0712 345 678" and "254712345678" both become "+254712345678".
func NormalizePhone(phone string) string {
	cleaned := phoneStripRegex.ReplaceAllString(strings.TrimSpace(phone), "")
	countryDigits := strings.TrimPrefix(DefaultCountryCode, "+")

	switch {
	case cleaned == "":
		return ""
	case strings.HasPrefix(cleaned, "+"):
		return cleaned
	case strings.HasPrefix(cleaned, "00"):
		return "+" + cleaned[2:]
	case strings.HasPrefix(cleaned, "0"):
		return DefaultCountryCode + cleaned[1:]
	case strings.HasPrefix(cleaned, countryDigits):
		return "+" + cleaned
	default:
		return DefaultCountryCode + cleaned
	}
}

func IsValidPhone(phone string) bool {
	return phoneRegex.MatchString(NormalizePhone(phone))
}

func MaskPhone(phone string) string {
	if len(phone) < 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
