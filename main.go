package main

import (
	"os"
	"time"

	"scanbridge-backend/controllers"
	"scanbridge-backend/database"
	"scanbridge-backend/delivery"
	"scanbridge-backend/metrics"
	"scanbridge-backend/middlewares"
	"scanbridge-backend/pipeline"
	"scanbridge-backend/routes"
	"scanbridge-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"
)

// envInt reads an int env var with a default fallback.
func envInt(key string, def int) int {
	return utils.ParseIntDefault(os.Getenv(key), def)
}

func main() {
	utils.InitLogger()
	defer func() { _ = utils.Log.Sync() }()

	// ---- Database (blob store + operator + idempotency keys)
	database.Connect()
	database.AutoMigrate()

	// ---- Metrics
	metrics.Register()

	// ---- Pipeline
	blobs := database.NewBlobStore(database.DB)
	historyStore := database.NewHistoryStore(blobs)
	configStore := database.NewConfigStore(blobs)

	engine := delivery.NewEngine(nil, utils.Log)
	orch := pipeline.NewOrchestrator(engine, historyStore, configStore, pipeline.Options{
		DebounceWindow: time.Duration(envInt("DEBOUNCE_WINDOW_MS", 500)) * time.Millisecond,
		Logger:         utils.Log,
	})
	go orch.Run()
	defer orch.Shutdown()

	controllers.Configure(orch, engine, configStore)

	// ---- Limits (configurable via env)
	// Fiber default BodyLimit is 4 * 1024 * 1024 bytes if unset (per docs).
	// We allow overriding with BODY_LIMIT_BYTES or BODY_LIMIT_MB.
	bodyLimitBytes := envInt("BODY_LIMIT_BYTES", 0)
	if bodyLimitBytes <= 0 {
		bodyLimitBytes = envInt("BODY_LIMIT_MB", 4) * 1024 * 1024
	}

	// ---- Fiber app with global error handler + body limit
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.ErrorHandler,
		BodyLimit:    bodyLimitBytes,
	})

	// ---- CORS
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: false, // using Bearer tokens, not cookies
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
	}))

	// ---- Global rate limiter (applies to all routes; tune via env)
	rlMax := envInt("RATE_LIMIT_MAX", 120)                                           // default 120 reqs
	rlWindow := time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second // default 60s window
	app.Use(limiter.New(limiter.Config{
		Max:        rlMax,
		Expiration: rlWindow,
		// Default KeyGenerator = client IP; default 429 handler is fine.
	}))

	// ---- Routes
	routes.Register(app)

	// ---- Start
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.Log.Info("scan bridge listening", zap.String("port", port))
	if err := app.Listen(":" + port); err != nil {
		panic(err)
	}
}
