package controllers

import (
	"errors"

	"scanbridge-backend/middlewares"
	"scanbridge-backend/pipeline"

	"github.com/gofiber/fiber/v2"
)

type scanInput struct {
	Text   string `json:"text" validate:"required"`
	Format string `json:"format"`
}

// SubmitScan feeds one decode event from a scanner device into the
// pipeline.
func SubmitScan(c *fiber.Ctx) error {
	var input scanInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	outcome, err := Pipeline.Submit(input.Text, input.Format)
	if err != nil {
		if errors.Is(err, pipeline.ErrInactive) {
			c.Status(fiber.StatusConflict)
			return c.JSON(fiber.Map{
				"message": "scanner intake is stopped",
			})
		}
		return err
	}

	switch {
	case outcome.Deduplicated:
		return c.JSON(fiber.Map{
			"deduplicated": true,
			"message":      "duplicate decode ignored",
		})
	case outcome.Throttled:
		c.Status(fiber.StatusTooManyRequests)
		return c.JSON(fiber.Map{
			"throttled":    true,
			"retryAfterMs": outcome.RetryAfterMs,
			"message":      "scan rejected, pause between scans not elapsed",
		})
	default:
		c.Status(fiber.StatusAccepted)
		return c.JSON(outcome.Record)
	}
}

// GetScans renders today's history, newest first.
func GetScans(c *fiber.Ctx) error {
	view, err := Pipeline.TodayView()
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// ClearScans empties the history (user-initiated).
func ClearScans(c *fiber.Ctx) error {
	if err := Pipeline.Clear(); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "history cleared",
	})
}

// StartScanner resumes the decode intake.
func StartScanner(c *fiber.Ctx) error {
	if err := Pipeline.Start(); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"active": true})
}

// StopScanner pauses the decode intake; deliveries in flight finish.
func StopScanner(c *fiber.Ctx) error {
	if err := Pipeline.Stop(); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"active": false})
}

// ScannerStatus reports whether the intake accepts decode events.
func ScannerStatus(c *fiber.Ctx) error {
	active, err := Pipeline.Active()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"active": active})
}
