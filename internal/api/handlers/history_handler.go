package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/symptom-triage/backend/internal/storage/sqlite"
	"github.com/symptom-triage/backend/pkg/logger"
)

type HistoryHandler struct {
	db           *sqlite.Client
	defaultLimit int
}

func NewHistoryHandler(db *sqlite.Client, defaultLimit int) *HistoryHandler {
	return &HistoryHandler{
		db:           db,
		defaultLimit: defaultLimit,
	}
}

type historyEntry struct {
	QueryID           string          `json:"query_id"`
	UserID            string          `json:"user_id,omitempty"`
	Symptoms          string          `json:"symptoms"`
	Age               *int            `json:"age,omitempty"`
	Pregnant          *bool           `json:"pregnant,omitempty"`
	ChronicConditions string          `json:"chronic_conditions,omitempty"`
	ModelResponse     json.RawMessage `json:"model_response"`
	Timestamp         string          `json:"timestamp"`
}

func (h *HistoryHandler) GetHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", h.defaultLimit)
	if limit < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must not be negative",
		})
	}

	records, err := h.db.RecentHistory(limit)
	if err != nil {
		logger.Error("Failed to read history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read history",
		})
	}

	entries := make([]historyEntry, 0, len(records))
	for _, r := range records {
		response := json.RawMessage("null")
		if json.Valid([]byte(r.ModelResponse)) && r.ModelResponse != "" {
			response = json.RawMessage(r.ModelResponse)
		}

		entries = append(entries, historyEntry{
			QueryID:           r.QueryID,
			UserID:            r.UserID,
			Symptoms:          r.Symptoms,
			Age:               r.Age,
			Pregnant:          r.Pregnant,
			ChronicConditions: r.ChronicConditions,
			ModelResponse:     response,
			Timestamp:         r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(fiber.Map{
		"history": entries,
	})
}

func (h *HistoryHandler) ClearHistory(c *fiber.Ctx) error {
	if err := h.db.ClearHistory(); err != nil {
		logger.Error("Failed to clear history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to clear history",
		})
	}

	return c.JSON(fiber.Map{
		"message": "History cleared",
	})
}
