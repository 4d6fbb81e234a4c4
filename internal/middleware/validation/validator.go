package validation

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Config struct {
	MaxSymptomLength int
	Logger           *zap.Logger
}

// Middleware screens POST /analyze bodies before they reach the engine:
// content type, required symptoms field, and a length bound. Everything
// else is the handler's concern.
func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxSymptomLength == 0 {
		cfg.MaxSymptomLength = 5000
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost || c.Path() != "/analyze" {
			return c.Next()
		}

		contentType := c.Get("Content-Type")
		if contentType != "" && !strings.Contains(contentType, "application/json") {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
				"error": "Unsupported content type",
			})
		}

		var req map[string]interface{}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid JSON format",
			})
		}

		symptoms, ok := req["symptoms"].(string)
		if !ok || strings.TrimSpace(symptoms) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "symptoms is required and must be a string",
			})
		}

		if len(symptoms) > cfg.MaxSymptomLength {
			cfg.Logger.Warn("Oversized symptom description rejected",
				zap.String("ip", c.IP()),
				zap.Int("length", len(symptoms)),
			)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Symptom description exceeds maximum length",
			})
		}

		return c.Next()
	}
}
