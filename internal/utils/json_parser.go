package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedJSONRe    = regexp.MustCompile("(?s)```json\\s*(.+?)\\s*```")
	fencedAnyRe     = regexp.MustCompile("(?s)```\\s*(.+?)\\s*```")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)(\w+)(\s*:)`)
	controlCharRe   = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
)

// ParseModelJSON extracts and decodes a JSON object from a language-model reply.
// The reply may be:
// - pure JSON
// - JSON wrapped in a markdown code block
// - JSON surrounded by prose
// - JSON with trailing commas, bare keys or single quotes
func ParseModelJSON(input string, target interface{}) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("empty input")
	}

	if err := json.Unmarshal([]byte(input), target); err == nil {
		return nil
	}

	if extracted := extractFromMarkdown(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
	}

	if extracted := extractJSONFromText(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
		if cleaned := cleanAndFixJSON(extracted); cleaned != "" {
			if err := json.Unmarshal([]byte(cleaned), target); err == nil {
				return nil
			}
		}
	}

	if cleaned := cleanAndFixJSON(input); cleaned != "" {
		if err := json.Unmarshal([]byte(cleaned), target); err == nil {
			return nil
		}
	}

	return fmt.Errorf("failed to parse JSON from model reply: %s", truncateString(input, 100))
}

// extractFromMarkdown extracts JSON from ```json ... ``` or ``` ... ``` blocks
func extractFromMarkdown(input string) string {
	if matches := fencedJSONRe.FindStringSubmatch(input); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	if matches := fencedAnyRe.FindStringSubmatch(input); len(matches) > 1 {
		content := strings.TrimSpace(matches[1])
		if strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[") {
			return content
		}
	}

	return ""
}

// extractJSONFromText finds the first balanced JSON object in surrounding text
func extractJSONFromText(input string) string {
	if start := strings.Index(input, "{"); start >= 0 {
		return extractBalancedBraces(input[start:], '{', '}')
	}
	return ""
}

// extractBalancedBraces extracts content with balanced braces, ignoring braces inside strings
func extractBalancedBraces(input string, open, close rune) string {
	depth := 0
	inString := false
	escape := false
	start := 0

	for i, ch := range input {
		if escape {
			escape = false
			continue
		}

		switch {
		case ch == '\\':
			escape = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			if depth == 0 {
				start = i
			}
			depth++
		case ch == close:
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}

	return ""
}

// cleanAndFixJSON attempts to fix common formatting mistakes in model output
func cleanAndFixJSON(input string) string {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "\ufeff")
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = fixSingleQuotes(s)
	s = bareKeyRe.ReplaceAllString(s, `$1"$2"$3`)
	return controlCharRe.ReplaceAllString(s, "")
}

// fixSingleQuotes converts single-quoted JSON strings to double-quoted ones
func fixSingleQuotes(input string) string {
	var result strings.Builder
	inDoubleQuote := false
	inSingleQuote := false
	escape := false
	var prev rune

	for _, ch := range input {
		switch {
		case escape:
			escape = false
		case ch == '\\':
			escape = true
		case ch == '"' && inSingleQuote:
			result.WriteString(`\"`)
			prev = ch
			continue
		case ch == '"':
			inDoubleQuote = !inDoubleQuote
		case ch == '\'' && !inDoubleQuote:
			if inSingleQuote {
				inSingleQuote = false
				ch = '"'
			} else if strings.ContainsRune(":,[{ ", prev) || prev == 0 {
				inSingleQuote = true
				ch = '"'
			}
		}
		result.WriteRune(ch)
		if ch != ' ' {
			prev = ch
		}
	}

	return result.String()
}

func truncateString(s string, maxRunes int) string {
	if cut := TruncateRunes(s, maxRunes); cut != s {
		return cut + "..."
	}
	return s
}
