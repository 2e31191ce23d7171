package controllers

import (
	"time"

	"scanbridge-backend/middlewares"
	"scanbridge-backend/models"

	"github.com/gofiber/fiber/v2"
)

type headerInput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type webhookConfigInput struct {
	URL     string        `json:"url" validate:"omitempty,url"`
	Method  string        `json:"method" validate:"required,oneof=GET POST PUT PATCH"`
	Headers []headerInput `json:"headers"`
	PauseMs int64         `json:"pauseMs" validate:"gte=0"`
}

// GetWebhookConfig returns the current delivery target.
func GetWebhookConfig(c *fiber.Ctx) error {
	cfg, err := Config.Load()
	if err != nil {
		return err
	}
	return c.JSON(cfg)
}

// UpdateWebhookConfig validates and persists a full replacement of the
// delivery target. Sends already started keep the config they were started
// with.
func UpdateWebhookConfig(c *fiber.Ctx) error {
	var input webhookConfigInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	headers := make([]models.WebhookHeader, 0, len(input.Headers))
	for _, h := range input.Headers {
		headers = append(headers, models.WebhookHeader{Key: h.Key, Value: h.Value})
	}

	cfg := models.WebhookConfig{
		URL:     input.URL,
		Method:  input.Method,
		Headers: headers,
		PauseMs: input.PauseMs,
	}.Normalized()

	if err := Config.Save(cfg); err != nil {
		return err
	}
	return c.JSON(cfg)
}

// TestWebhook runs one delivery attempt with a synthetic record against
// the current config. The scan history is not touched.
func TestWebhook(c *fiber.Ctx) error {
	cfg, err := Config.Load()
	if err != nil {
		return err
	}

	result := Engine.TestSend(c.Context(), cfg, time.Now())
	return c.JSON(result)
}
