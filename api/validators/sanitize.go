package validators

import (
	"strings"
	"unicode/utf8"
)

// SanitizeString trims input and caps it at maxLen runes.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen <= 0 || utf8.RuneCountInString(trimmed) <= maxLen {
		return trimmed
	}
	return string([]rune(trimmed)[:maxLen])
}

// QueryString reads a trimmed, length-capped query parameter.
func QueryString(values map[string][]string, key string, maxLen int) string {
	v := values[key]
	if len(v) == 0 {
		return ""
	}
	return SanitizeString(v[0], maxLen)
}
