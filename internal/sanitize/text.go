// Package sanitize converts untrusted engine output into the dossier data model.
//
// Every function in this package is total: malformed input never produces an error or a panic,
// it degrades to a documented default instead.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Restricted replaces any redaction-checked text that could leak internal simulation reasoning.
const Restricted = "Restricted in visible state."

const descriptorLimit = 64

var (
	restrictedPattern = regexp.MustCompile(`(?i)` +
		`\b\d+(?:\.\d+)?\s*%` + // 63%, 12.5 %
		`|\b0\.\d+\b` + // 0.63
		`|\b(?:seed|rng|debug|hypothesis|belief|suspicion|credibility|confidence|likelihood|probability)\b`)
	descriptorShape     = regexp.MustCompile(`^[a-z_-]+$`)
	descriptorForbidden = []string{"seed", "rng", "debug", "belief", "hypothesis"}
)

// ClampText returns value as trimmed single-spaced text of at most limit characters.
//
// Non-string or blank values yield fallback. With redact set, text matching the restricted-content
// pattern is replaced as a whole by Restricted.
func ClampText(value any, fallback string, limit int, redact bool) string {
	s, ok := value.(string)
	if !ok {
		return fallback
	}
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return fallback
	}
	if redact && restrictedPattern.MatchString(s) {
		return Restricted
	}
	return truncate(s, limit)
}

// Descriptor returns value as a lower snake_case token, or fallback when the value is missing,
// contains a digit or a forbidden substring, or does not reduce to letters, underscores and hyphens.
func Descriptor(value any, fallback string) string {
	s := strings.ToLower(ClampText(value, "", descriptorLimit, false))
	if s == "" || strings.ContainsFunc(s, unicode.IsDigit) {
		return fallback
	}
	for _, forbidden := range descriptorForbidden {
		if strings.Contains(s, forbidden) {
			return fallback
		}
	}
	token := strings.Join(strings.Fields(s), "_")
	if !descriptorShape.MatchString(token) {
		return fallback
	}
	return token
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
