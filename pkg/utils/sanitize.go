package utils

import (
	"regexp"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes all HTML tags from a string.
// Titles and notes are shown verbatim by the UI, so markup is dropped rather than escaped.
func StripHTML(input string) string {
	return tagPattern.ReplaceAllString(input, "")
}

// TruncateString safely truncates a string to max length in runes
func TruncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen])
}
