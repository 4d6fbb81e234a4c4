package triage

import "strings"

const Disclaimer = "Educational only - not medical advice."

const (
	ConfidenceLow    = "LOW"
	ConfidenceMedium = "MEDIUM"
	ConfidenceHigh   = "HIGH"
)

const (
	EscalationEmergency = "emergency"
	EscalationUrgent    = "urgent"
	EscalationNonUrgent = "non-urgent"
)

type Escalation struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type Condition struct {
	Name             string   `json:"name"`
	Confidence       string   `json:"confidence"`
	Rationale        string   `json:"rationale"`
	SeverityScore    *float64 `json:"severity_score,omitempty"`
	RiskCategory     string   `json:"risk_category,omitempty"`
	EducationalLinks []string `json:"educational_links,omitempty"`
}

// ModelResponse is the normalized outcome of one analysis. Every field of
// the JSON contract is present; Metadata is always stamped by the caller.
type ModelResponse struct {
	Disclaimer         string            `json:"disclaimer"`
	Escalation         *Escalation       `json:"escalation"`
	ProbableConditions []Condition       `json:"probable_conditions"`
	NextSteps          []string          `json:"next_steps"`
	Metadata           map[string]string `json:"metadata"`
	Error              string            `json:"error,omitempty"`
}

// EmergencySelfHarm is the fixed short-circuit response for self-harm
// language: emergency escalation, no differential.
func EmergencySelfHarm() *ModelResponse {
	return &ModelResponse{
		Disclaimer: Disclaimer,
		Escalation: &Escalation{
			Level:   EscalationEmergency,
			Message: "If you are in danger, call emergency services.",
		},
		ProbableConditions: []Condition{},
		NextSteps:          []string{"Seek immediate help from emergency services or a crisis line."},
	}
}

// EmergencyRedFlags is the fixed short-circuit response for red-flag
// symptoms. The message enumerates every matched keyword, comma-joined, in
// keyword-list order.
func EmergencyRedFlags(flags []string) *ModelResponse {
	message := "Red-flag symptoms detected: " + strings.Join(flags, ", ") + "."

	return &ModelResponse{
		Disclaimer: Disclaimer,
		Escalation: &Escalation{
			Level:   EscalationEmergency,
			Message: message,
		},
		ProbableConditions: []Condition{},
		NextSteps:          []string{"Go to the nearest emergency department."},
	}
}

// Unclear is the fallback when the model's output cannot be parsed into the
// contract. The rationale keeps the first 300 characters of the raw reply,
// truncated on a rune boundary.
func Unclear(rawText string) *ModelResponse {
	rationale := rawText
	if runes := []rune(rationale); len(runes) > 300 {
		rationale = string(runes[:300])
	}

	return &ModelResponse{
		Disclaimer: Disclaimer,
		Escalation: nil,
		ProbableConditions: []Condition{
			{
				Name:       "Unclear response",
				Confidence: ConfidenceLow,
				Rationale:  rationale,
			},
		},
		NextSteps: []string{
			"Try rephrasing your symptoms with more detail.",
			"Consult a healthcare professional for guidance.",
		},
	}
}
