package stt

import (
	"regexp"
	"strings"
)

// Known whisper hallucination patterns on silence or noise.
var hallucinationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(you|the|thank you|thanks for watching|subscribe)\.?$`),
	regexp.MustCompile(`^\[.*\]$`), // [Music], [Silence], ...
	regexp.MustCompile(`^\.+$`),
}

// IsHallucination reports whether text is a known engine artifact produced
// on silence or noise rather than actual speech.
func IsHallucination(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return true
	}
	for _, p := range hallucinationPatterns {
		if p.MatchString(t) {
			return true
		}
	}
	return false
}
