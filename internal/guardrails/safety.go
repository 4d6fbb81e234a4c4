package guardrails

import "strings"

// Plain substring matching is deliberate: a missed emergency costs more than
// a false positive, and keyword lists stay auditable.
var redFlagKeywords = []string{
	"chest pain", "shortness of breath", "difficulty breathing", "severe bleeding",
	"loss of consciousness", "sudden weakness", "slurred speech", "facial droop",
	"very high fever", "seizure", "unresponsive", "severe allergic reaction",
	"anaphylaxis", "severe abdominal pain", "vomiting blood",
}

var selfHarmKeywords = []string{
	"suicide", "kill myself", "end my life", "self harm",
	"hurt myself", "cut myself", "end everything", "end it once for all",
}

// ContainsSelfHarm reports whether the text mentions self-harm or suicidal
// ideation.
func ContainsSelfHarm(text string) bool {
	lowered := strings.ToLower(text)
	for _, keyword := range selfHarmKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// DetectRedFlags returns every emergency keyword found in the text, in
// keyword-list order.
func DetectRedFlags(text string) []string {
	var found []string
	lowered := strings.ToLower(text)
	for _, keyword := range redFlagKeywords {
		if strings.Contains(lowered, keyword) {
			found = append(found, keyword)
		}
	}
	return found
}
