package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/symptom-triage/backend/internal/llm"
	"github.com/symptom-triage/backend/internal/triage"
	"github.com/symptom-triage/backend/pkg/logger"
)

type AnalyzeHandler struct {
	engine *triage.Engine
}

func NewAnalyzeHandler(engine *triage.Engine) *AnalyzeHandler {
	return &AnalyzeHandler{
		engine: engine,
	}
}

func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req struct {
		UserID            string `json:"user_id"`
		Symptoms          string `json:"symptoms"`
		Age               *int   `json:"age"`
		Pregnant          *bool  `json:"pregnant"`
		ChronicConditions string `json:"chronic_conditions"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Symptoms == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "symptoms is required",
		})
	}

	response, err := h.engine.ProcessQuery(c.Context(), triage.QueryRequest{
		UserID:            req.UserID,
		Symptoms:          req.Symptoms,
		Age:               req.Age,
		Pregnant:          req.Pregnant,
		ChronicConditions: req.ChronicConditions,
	})
	if err != nil {
		var gwErr *llm.GatewayError
		if errors.As(err, &gwErr) {
			logger.Error("LLM gateway failure", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "LLM provider request failed",
			})
		}

		logger.Error("Failed to process query", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process query",
		})
	}

	return c.JSON(response)
}
