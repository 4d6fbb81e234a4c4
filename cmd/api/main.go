package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/symptom-triage/backend/internal/api/handlers"
	"github.com/symptom-triage/backend/internal/llm"
	"github.com/symptom-triage/backend/internal/metrics"
	"github.com/symptom-triage/backend/internal/middleware/security"
	"github.com/symptom-triage/backend/internal/middleware/validation"
	"github.com/symptom-triage/backend/internal/storage/sqlite"
	"github.com/symptom-triage/backend/internal/triage"
	"github.com/symptom-triage/backend/pkg/config"
	appLogger "github.com/symptom-triage/backend/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting symptom triage API server")

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	err = sqliteClient.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	gateway, err := llm.NewGateway(cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create LLM gateway", zap.Error(err))
	}

	engine := triage.NewEngine(sqliteClient, gateway, cfg.LLM.Model)

	metrics.Init()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))
	app.Use(validation.Middleware(validation.Config{
		MaxSymptomLength: cfg.Guardrails.MaxSymptomLength,
		Logger:           appLogger.GetLogger(),
	}))

	analyzeHandler := handlers.NewAnalyzeHandler(engine)
	historyHandler := handlers.NewHistoryHandler(sqliteClient, cfg.History.DefaultLimit)

	app.Post("/analyze", analyzeHandler.HandleAnalyze)
	app.Get("/history", historyHandler.GetHistory)
	app.Delete("/history/clear", historyHandler.ClearHistory)

	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "Server running",
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
