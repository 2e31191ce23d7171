package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"scanbridge-backend/metrics"
	"scanbridge-backend/models"

	"go.uber.org/zap"
)

// Result is the classified outcome of exactly one delivery attempt.
// ResponseCode is set whenever a response was received, success or not;
// Error carries the transport message or a synthesized "HTTP <code>".
type Result struct {
	Status       models.DeliveryStatus `json:"status"`
	ResponseCode *int                  `json:"responseCode,omitempty"`
	Error        string                `json:"error,omitempty"`
}

// Engine builds and sends one HTTP request per record against the
// user-configured endpoint. No retries, no backoff, no queueing.
type Engine struct {
	client *http.Client
	log    *zap.Logger
}

// NewEngine wires an engine around client. A nil client falls back to
// http.DefaultClient: delivery carries no timeout of its own and relies on
// the transport's behavior.
func NewEngine(client *http.Client, log *zap.Logger) *Engine {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{client: client, log: log}
}

// wirePayload is the body contract agreed with webhook endpoints.
type wirePayload struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Send performs the single delivery attempt for rec against cfg.
func (e *Engine) Send(ctx context.Context, rec models.ScanRecord, cfg models.WebhookConfig) Result {
	start := time.Now()
	res := e.send(ctx, rec, cfg)
	metrics.DeliveryDuration.Observe(time.Since(start).Seconds())
	metrics.DeliveriesTotal.WithLabelValues(string(res.Status)).Inc()

	if res.Status == models.StatusSent {
		e.log.Info("webhook delivered",
			zap.String("id", rec.ID),
			zap.Intp("responseCode", res.ResponseCode))
	} else {
		e.log.Warn("webhook delivery failed",
			zap.String("id", rec.ID),
			zap.Intp("responseCode", res.ResponseCode),
			zap.String("error", res.Error))
	}
	return res
}

func (e *Engine) send(ctx context.Context, rec models.ScanRecord, cfg models.WebhookConfig) Result {
	if strings.TrimSpace(cfg.URL) == "" {
		return Result{Status: models.StatusFailed, Error: "webhook URL not configured"}
	}

	// GET carries no body so query-string-sensitive deployments see nothing
	// unexpected.
	var body io.Reader
	if cfg.Method != http.MethodGet {
		raw, err := json.Marshal(wirePayload{
			Text:      rec.Text,
			Timestamp: rec.ScannedAt.Format(time.RFC3339),
		})
		if err != nil {
			return Result{Status: models.StatusFailed, Error: err.Error()}
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, cfg.Method, cfg.URL, body)
	if err != nil {
		return Result{Status: models.StatusFailed, Error: err.Error()}
	}

	// Default content type first; user headers follow in order so a later
	// duplicate key (including Content-Type itself) wins.
	req.Header.Set("Content-Type", "application/json")
	for _, h := range cfg.Headers {
		key := strings.TrimSpace(h.Key)
		if key == "" {
			continue
		}
		req.Header.Set(key, h.Value)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return Result{Status: models.StatusFailed, Error: err.Error()}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return Result{Status: models.StatusSent, ResponseCode: &code}
	}
	return Result{Status: models.StatusFailed, ResponseCode: &code, Error: fmt.Sprintf("HTTP %d", code)}
}

// TestSend runs the exact delivery algorithm with a synthetic record, so
// the user can verify a configuration without touching the scan history.
func (e *Engine) TestSend(ctx context.Context, cfg models.WebhookConfig, now time.Time) Result {
	rec := models.ScanRecord{
		ID:        "test-" + now.Format(time.RFC3339),
		Text:      "Test barcode",
		Format:    "TEST",
		ScannedAt: now,
		Status:    models.StatusPending,
	}
	return e.Send(ctx, rec, cfg)
}
