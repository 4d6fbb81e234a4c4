package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/symptom-triage/backend/internal/guardrails"
	"github.com/symptom-triage/backend/internal/llm"
	"github.com/symptom-triage/backend/internal/metrics"
	"github.com/symptom-triage/backend/internal/prompt"
	"github.com/symptom-triage/backend/internal/storage/models"
	"github.com/symptom-triage/backend/internal/storage/sqlite"
	"github.com/symptom-triage/backend/pkg/logger"
)

type Engine struct {
	db      *sqlite.Client
	gateway llm.Gateway
	model   string
}

type QueryRequest struct {
	UserID            string
	Symptoms          string
	Age               *int
	Pregnant          *bool
	ChronicConditions string
}

func NewEngine(db *sqlite.Client, gateway llm.Gateway, model string) *Engine {
	return &Engine{
		db:      db,
		gateway: gateway,
		model:   model,
	}
}

// ProcessQuery runs one analysis end to end: sanitize, safety checks,
// prompt, gateway, normalize, persist. Safety short-circuits return before
// the gateway is reached and are not persisted.
func (e *Engine) ProcessQuery(ctx context.Context, req QueryRequest) (*ModelResponse, error) {
	startTime := time.Now()

	sanitized, removed := guardrails.Sanitize(req.Symptoms)
	if len(removed) > 0 {
		sanitized += "\n(PII removed)"
		for _, category := range removed {
			metrics.PIIRedactions.WithLabelValues(category).Inc()
		}
		logger.Debug("PII redacted from input", zap.Strings("categories", removed))
	}

	if guardrails.ContainsSelfHarm(sanitized) {
		logger.Warn("Self-harm language detected, short-circuiting")
		metrics.SafetyShortCircuits.WithLabelValues("self_harm").Inc()
		metrics.AnalyzeTotal.WithLabelValues("short_circuit").Inc()

		response := EmergencySelfHarm()
		StampMetadata(response, e.model)
		return response, nil
	}

	if flags := guardrails.DetectRedFlags(sanitized); len(flags) > 0 {
		logger.Warn("Red-flag symptoms detected, short-circuiting",
			zap.Strings("flags", flags),
		)
		metrics.SafetyShortCircuits.WithLabelValues("red_flags").Inc()
		metrics.AnalyzeTotal.WithLabelValues("short_circuit").Inc()

		response := EmergencyRedFlags(flags)
		StampMetadata(response, e.model)
		return response, nil
	}

	fullPrompt := prompt.Build(sanitized, req.Age, req.Pregnant, req.ChronicConditions)

	rawText, err := e.gateway.Complete(ctx, e.model, fullPrompt)
	if err != nil {
		metrics.AnalyzeTotal.WithLabelValues("gateway_error").Inc()
		return nil, err
	}

	response := Normalize(rawText, e.model)
	queryID := response.Metadata["query_id"]

	blob, err := json.Marshal(response)
	if err != nil {
		metrics.AnalyzeTotal.WithLabelValues("storage_error").Inc()
		return nil, fmt.Errorf("failed to encode response for storage: %w", err)
	}

	record := &models.HistoryRecord{
		QueryID:           queryID,
		UserID:            req.UserID,
		Symptoms:          req.Symptoms,
		Age:               req.Age,
		Pregnant:          req.Pregnant,
		ChronicConditions: req.ChronicConditions,
		ModelResponse:     string(blob),
		CreatedAt:         time.Now(),
	}

	if err := e.db.InsertHistoryRecord(record); err != nil {
		metrics.AnalyzeTotal.WithLabelValues("storage_error").Inc()
		return nil, fmt.Errorf("failed to persist history record: %w", err)
	}
	metrics.HistoryWrites.Inc()

	latency := time.Since(startTime)
	metrics.AnalyzeDuration.Observe(latency.Seconds())
	metrics.AnalyzeTotal.WithLabelValues("ok").Inc()

	logger.Info("Query processed",
		zap.String("query_id", queryID),
		zap.Duration("latency", latency),
	)

	return response, nil
}
