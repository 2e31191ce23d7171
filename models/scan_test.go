package models

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestNewScanRecord(t *testing.T) {
	at := time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local)
	rec := NewScanRecord("ABC123", "EAN-13", at)

	if rec.ID == "" {
		t.Fatal("id must be generated at creation")
	}
	if rec.Status != StatusPending {
		t.Fatalf("status = %s, want pending", rec.Status)
	}
	if !rec.ScannedAt.Equal(at) {
		t.Fatalf("scannedAt = %v, want %v", rec.ScannedAt, at)
	}

	other := NewScanRecord("ABC123", "EAN-13", at)
	if other.ID == rec.ID {
		t.Fatal("ids must be unique per record")
	}
}

func TestScanRecordRoundTrip(t *testing.T) {
	code := 502
	rec := ScanRecord{
		ID:           "0d3c9c2e-9f2b-4a51-8c0d-26f3a8a4e7b1",
		Text:         "ABC123",
		Format:       "QR",
		ScannedAt:    time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC),
		Status:       StatusFailed,
		ResponseCode: &code,
		Error:        "HTTP 502",
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	var back ScanRecord
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rec, back) {
		t.Fatalf("round trip: %+v != %+v", back, rec)
	}
}

func TestScanRecordOptionalFieldsOmitted(t *testing.T) {
	rec := NewScanRecord("ABC123", "QR", time.Now())
	raw, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "responseCode") || strings.Contains(string(raw), "error") {
		t.Fatalf("pending record should omit optional fields: %s", raw)
	}
}
