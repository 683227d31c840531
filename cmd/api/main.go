package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calroads/circuity-api/internal/config"
	"github.com/calroads/circuity-api/internal/database"
	"github.com/calroads/circuity-api/internal/handlers"
	"github.com/calroads/circuity-api/internal/logger"
	"github.com/calroads/circuity-api/internal/middleware"
	"github.com/calroads/circuity-api/internal/routing"
	"github.com/calroads/circuity-api/internal/services"
	"github.com/calroads/circuity-api/internal/telemetry"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := logger.Init(); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	mainLog := logger.GetLogger("main")

	cfg := config.Load()

	// Initialize OpenTelemetry tracer
	ctx := context.Background()
	tracerShutdown, err := telemetry.InitTracer(ctx, "circuity-api", cfg.SigNozEndpoint)
	if err != nil {
		mainLog.Warnf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if tracerShutdown != nil {
			if err := tracerShutdown(ctx); err != nil {
				mainLog.Warnf("Error shutting down tracer: %v", err)
			}
		}
	}()

	// Initialize OpenTelemetry metrics
	meterShutdown, err := telemetry.InitMeter(ctx, "circuity-api", cfg.SigNozEndpoint)
	if err != nil {
		mainLog.Warnf("Failed to initialize metrics: %v", err)
	}
	defer func() {
		if meterShutdown != nil {
			if err := meterShutdown(ctx); err != nil {
				mainLog.Warnf("Error shutting down metrics: %v", err)
			}
		}
	}()

	// Connect database and run migrations
	db, err := database.Connect(cfg)
	if err != nil {
		mainLog.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		mainLog.Fatalf("Failed to run migrations: %v", err)
	}

	// Collect connection pool metrics in the background
	poolCtx, poolCancel := context.WithCancel(ctx)
	defer poolCancel()
	go database.StartConnectionPoolMetricsCollector(poolCtx, db.DB, 15*time.Second)

	// Build dependencies once at startup; everything downstream receives
	// them explicitly.
	router := routing.NewClient(cfg)
	cache := services.NewCacheService(db, cfg)
	circuity := services.NewCircuityService(cache, router)
	health := services.NewHealthService(db, router)

	app := fiber.New(fiber.Config{
		AppName:      "California Circuity Factor API",
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(middleware.Prometheus())
	app.Use(telemetry.New(telemetry.Config{
		ServiceName: "circuity-api",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET, POST, OPTIONS",
		AllowHeaders: "Accept, Accept-Encoding, Content-Type, Origin, User-Agent, X-Requested-With",
	}))

	setupRoutes(app, circuity, cache, health)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		mainLog.Info("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			mainLog.Warnf("Error shutting down server: %v", err)
		}
	}()

	addr := cfg.APIHost + ":" + cfg.APIPort
	mainLog.Infof("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		mainLog.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, circuity *services.CircuityService, cache *services.CacheService, health *services.HealthService) {
	circuityHandler := handlers.NewCircuityHandler(circuity, cache)
	healthHandler := handlers.NewHealthHandler(health)

	app.Get("/", handlers.Root)
	app.Get("/health", healthHandler.Health)
	app.Get("/metrics", middleware.PrometheusHandler())

	app.Post("/calculate", circuityHandler.Calculate)
	app.Get("/history", circuityHandler.History)
	app.Get("/stats", circuityHandler.Stats)
}
