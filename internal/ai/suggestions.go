package ai

import (
	"strings"
	"unicode"
)

const maxSuggestions = 3

var defaultSuggestions = [...]string{"Create task", "Check schedule", "Generate report"}

// DefaultSuggestions returns a fresh copy of the suggestions used when a
// reply has no bullet lines.
func DefaultSuggestions() []string {
	out := make([]string, len(defaultSuggestions))
	copy(out, defaultSuggestions[:])
	return out
}

// ExtractSuggestions returns up to three bullet lines ("- ...") from text,
// in order, with the marker and surrounding whitespace removed.
// A bare "-" line yields "". Repeats are kept.
func ExtractSuggestions(text string) []string {
	s, _ := extractSuggestions(text)
	return s
}

func extractSuggestions(text string) (suggestions []string, fallback bool) {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "-") {
			continue
		}
		suggestions = append(suggestions, strings.TrimFunc(trimmed, isMarker))
		if len(suggestions) == maxSuggestions {
			break
		}
	}

	if len(suggestions) == 0 {
		return DefaultSuggestions(), true
	}
	return suggestions, false
}

func isMarker(r rune) bool {
	return r == '-' || unicode.IsSpace(r)
}
