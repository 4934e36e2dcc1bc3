package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// NormalizeText lower-cases and trims a message before keyword matching
func NormalizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// CountContained returns how many terms occur in text as substrings.
// Each term counts at most once, however often it occurs.
func CountContained(text string, terms []string) int {
	count := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			count++
		}
	}
	return count
}

// FirstContained returns the first term (in list order) contained in text
func FirstContained(text string, terms []string) (string, bool) {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return term, true
		}
	}
	return "", false
}

// ContainsAny reports whether any term is contained in text
func ContainsAny(text string, terms []string) bool {
	_, ok := FirstContained(text, terms)
	return ok
}

// CountMatching returns how many patterns match text
func CountMatching(text string, patterns []*regexp.Regexp) int {
	count := 0
	for _, re := range patterns {
		if re.MatchString(text) {
			count++
		}
	}
	return count
}

// FirstWord returns the first whitespace-separated token of text
func FirstWord(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// HasWordPrefix reports whether text starts with one of words followed by a space
func HasWordPrefix(text string, words []string) bool {
	for _, w := range words {
		if strings.HasPrefix(text, w+" ") {
			return true
		}
	}
	return false
}

// TruncateRunes cuts s to at most maxRunes runes without splitting a character
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}
