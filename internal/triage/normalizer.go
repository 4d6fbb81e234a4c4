package triage

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/symptom-triage/backend/internal/metrics"
	"github.com/symptom-triage/backend/pkg/logger"
)

// Normalize converts a raw LLM reply into a contract-conforming
// ModelResponse. The model is expected to wrap its JSON in prose, so the
// scan is the first "{" through the last "}". Anything that fails to parse
// becomes the Unclear fallback; Normalize never reports an error.
func Normalize(rawText, model string) *ModelResponse {
	response := decode(rawText)
	StampMetadata(response, model)
	return response
}

func decode(rawText string) *ModelResponse {
	start := strings.Index(rawText, "{")
	end := strings.LastIndex(rawText, "}")
	if start == -1 || end <= start {
		logger.Debug("No JSON object found in LLM output")
		metrics.FallbackResponses.Inc()
		return Unclear(rawText)
	}

	span := rawText[start : end+1]
	if !gjson.Valid(span) || len(gjson.Parse(span).Map()) == 0 {
		logger.Debug("LLM output span is not a usable JSON object")
		metrics.FallbackResponses.Inc()
		return Unclear(rawText)
	}

	var response ModelResponse
	if err := json.Unmarshal([]byte(span), &response); err != nil {
		logger.Debug("Failed to decode LLM output", zap.Error(err))
		metrics.FallbackResponses.Inc()
		return Unclear(rawText)
	}

	if response.ProbableConditions == nil {
		response.ProbableConditions = []Condition{}
	}
	if response.NextSteps == nil {
		response.NextSteps = []string{}
	}

	return &response
}

// StampMetadata overwrites the response metadata with the model identifier,
// the current UTC timestamp, and a fresh query identifier.
func StampMetadata(response *ModelResponse, model string) {
	response.Metadata = map[string]string{
		"model":     model,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"query_id":  uuid.New().String(),
	}
}
