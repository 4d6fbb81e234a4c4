package prompt

import (
	"fmt"
	"strconv"
)

const SystemPrompt = `You are a responsible medical-education assistant, not a doctor.
Follow these strict rules:

1. Always begin responses with:
   "Educational only - not medical advice. Seek a healthcare professional for diagnosis or treatment."
2. NEVER provide a diagnosis, prescription, or dosage.
3. You may list probable conditions for educational purposes only, with confidence levels: LOW, MEDIUM, or HIGH.
4. Provide step-by-step next actions (e.g., self-care, seeing a clinician, or emergency signs).
5. If red-flag symptoms are mentioned (chest pain, breathing difficulty, etc.), skip condition guessing and output only emergency escalation guidance.
6. Maintain empathy, but stay factual.
7. End every output with a reminder to contact a healthcare professional.
8. Always produce output in structured JSON.`

// userPromptTemplate restates the exact JSON contract the normalizer expects
// back. Keep the schema text in sync with triage.ModelResponse.
const userPromptTemplate = `User symptoms: """%s"""
Patient age: %s
Pregnant: %s
Chronic conditions: %s

Return JSON exactly in this format:

{
  "disclaimer": "string",
  "escalation": null or {"level":"emergency"|"urgent"|"non-urgent","message":"string"},
  "probable_conditions": [
    {"name":"string","confidence":"LOW|MEDIUM|HIGH","rationale":"string"}
  ],
  "next_steps": ["string"],
  "metadata": {"model":"string","prompt_version":"v1"}
}`

// Build renders the full prompt for one analysis: the fixed system
// instruction, the templated user instruction, and a trailing directive to
// emit JSON only. Missing optional fields render as "unknown" (age,
// pregnancy) or "none" (chronic conditions).
func Build(symptoms string, age *int, pregnant *bool, chronicConditions string) string {
	ageText := "unknown"
	if age != nil {
		ageText = strconv.Itoa(*age)
	}

	pregnantText := "unknown"
	if pregnant != nil {
		pregnantText = strconv.FormatBool(*pregnant)
	}

	chronicText := chronicConditions
	if chronicText == "" {
		chronicText = "none"
	}

	userPrompt := fmt.Sprintf(userPromptTemplate, symptoms, ageText, pregnantText, chronicText)

	return SystemPrompt + "\n\n" + userPrompt + "\n\nReturn strictly JSON output."
}
