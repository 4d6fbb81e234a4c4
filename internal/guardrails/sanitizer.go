package guardrails

import (
	"regexp"
	"strings"
)

type piiPattern struct {
	category string
	re       *regexp.Regexp
	token    string
}

// Ordered: substitution runs category by category, so earlier patterns win
// on overlapping spans.
var piiPatterns = []piiPattern{
	{"phone", regexp.MustCompile(`\b\d{10}\b`), "<PHONE_REDACTED>"},
	{"email", regexp.MustCompile(`\b[\w.\-]+@[\w.\-]+\.[A-Za-z]{2,}\b`), "<EMAIL_REDACTED>"},
	{"address", regexp.MustCompile(`\d{1,5}\s\w+\s\w+`), "<ADDRESS_REDACTED>"},
	{"name", regexp.MustCompile(`\b(?:Name is|I am|My name is)\s+[A-Z][a-z]+`), "<NAME_REDACTED>"},
}

// Sanitize replaces personally identifying spans (phone numbers, emails, a
// naive address heuristic, name announcements) with category tokens. It
// returns the cleaned text and the list of categories that matched, each
// reported once.
func Sanitize(text string) (string, []string) {
	var removed []string
	sanitized := text

	for _, p := range piiPatterns {
		if p.re.MatchString(sanitized) {
			sanitized = p.re.ReplaceAllString(sanitized, p.token)
			removed = append(removed, p.category)
		}
	}

	return strings.TrimSpace(sanitized), removed
}
