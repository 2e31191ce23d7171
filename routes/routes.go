package routes

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"scanbridge-backend/controllers"
	"scanbridge-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	// Ops
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard so scanner retries don't double-submit
	protected.Use(middlewares.Idempotency())

	// Scan pipeline
	protected.Post("/scan", controllers.SubmitScan)
	protected.Get("/scans", controllers.GetScans)
	protected.Delete("/scans", controllers.ClearScans)

	// Scanner intake
	protected.Get("/scanner", controllers.ScannerStatus)
	protected.Post("/scanner/start", controllers.StartScanner)
	protected.Post("/scanner/stop", controllers.StopScanner)

	// Webhook settings
	protected.Get("/webhook", controllers.GetWebhookConfig)
	protected.Put("/webhook", controllers.UpdateWebhookConfig)
	protected.Post("/webhook/test", controllers.TestWebhook)
}
