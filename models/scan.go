package models

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryStatus is the lifecycle state of a scan's webhook delivery.
type DeliveryStatus string

const (
	StatusPending DeliveryStatus = "pending"
	StatusSent    DeliveryStatus = "sent"
	StatusFailed  DeliveryStatus = "failed"
)

// ScanRecord is one decoded code that made it past the debounce and throttle
// checks. Everything except the delivery outcome fields is immutable after
// creation; Status moves exactly once, pending -> sent or pending -> failed.
type ScanRecord struct {
	ID           string         `json:"id"`
	Text         string         `json:"text"`
	Format       string         `json:"format"`
	ScannedAt    time.Time      `json:"scannedAt"`
	Status       DeliveryStatus `json:"status"`
	ResponseCode *int           `json:"responseCode,omitempty"`
	Error        string         `json:"error,omitempty"`
}

// NewScanRecord builds a pending record for a decode event.
func NewScanRecord(text, format string, at time.Time) ScanRecord {
	return ScanRecord{
		ID:        uuid.NewString(),
		Text:      text,
		Format:    format,
		ScannedAt: at,
		Status:    StatusPending,
	}
}
