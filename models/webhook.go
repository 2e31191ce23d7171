package models

import (
	"strings"
	"time"
)

// DefaultPauseMs is the minimum spacing between forwarded scans when the
// user has not configured one.
const DefaultPauseMs = 1200

// WebhookHeader is one user-defined header line. Order matters: later
// duplicates win when the request is built.
type WebhookHeader struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// WebhookConfig is the user-facing delivery target. The pipeline only reads
// it; all writes go through the settings endpoints.
type WebhookConfig struct {
	URL     string          `json:"url"`
	Method  string          `json:"method"`
	Headers []WebhookHeader `json:"headers"`
	PauseMs int64           `json:"pauseMs"`
}

// DefaultWebhookConfig mirrors the defaults the app ships with: no target,
// POST, no headers, 1200 ms pause.
func DefaultWebhookConfig() WebhookConfig {
	return WebhookConfig{
		Method:  "POST",
		Headers: []WebhookHeader{},
		PauseMs: DefaultPauseMs,
	}
}

var allowedMethods = map[string]bool{
	"GET":   true,
	"POST":  true,
	"PUT":   true,
	"PATCH": true,
}

// AllowedMethod reports whether m (case-insensitive) is a supported verb.
func AllowedMethod(m string) bool {
	return allowedMethods[strings.ToUpper(strings.TrimSpace(m))]
}

// Normalized returns a copy safe for the pipeline: trimmed URL, uppercased
// method (falling back to POST), non-nil header slice, and a non-negative
// pause. Old persisted blobs may carry any of these irregularities.
func (c WebhookConfig) Normalized() WebhookConfig {
	c.URL = strings.TrimSpace(c.URL)
	c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
	if !allowedMethods[c.Method] {
		c.Method = "POST"
	}
	if c.Headers == nil {
		c.Headers = []WebhookHeader{}
	}
	if c.PauseMs < 0 {
		c.PauseMs = DefaultPauseMs
	}
	return c
}

// Pause is PauseMs as a duration, clamped to >= 0.
func (c WebhookConfig) Pause() time.Duration {
	if c.PauseMs < 0 {
		return 0
	}
	return time.Duration(c.PauseMs) * time.Millisecond
}
