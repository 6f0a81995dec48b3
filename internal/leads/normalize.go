package leads

import (
	"regexp"
	"strings"
)

var (
	nonDigit     = regexp.MustCompile(`\D`)
	leadingFloat = regexp.MustCompile(`(\d+\.?\d*)`)
)

// CleanField collapses all whitespace runs to single spaces and trims the
// result. Empty input and the sentinel itself map to Unknown.
func CleanField(v string) string {
	v = strings.Join(strings.Fields(v), " ")
	if v == "" {
		return Unknown
	}
	return v
}

// CleanDigits strips everything but ASCII digits.
func CleanDigits(v string) string {
	v = nonDigit.ReplaceAllString(v, "")
	if v == "" {
		return Unknown
	}
	return v
}

// NameKey is the deduplication key for a business name.
func NameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// firstLine returns the first non-blank line of s.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// parseRating extracts the leading decimal from a star label such as
// "4.7 stars 120 Reviews".
func parseRating(label string) string {
	if !strings.Contains(strings.ToLower(label), "star") {
		return ""
	}
	return leadingFloat.FindString(label)
}
