package pipeline

import (
	"sort"
	"time"

	"scanbridge-backend/models"
)

// Ledger is the day-scoped ordered store of scan records. Records live in
// insertion order (oldest first); views run newest first. "Today" is
// recomputed from the local calendar on every prune and view, so the store
// stays correct across midnight without a background timer.
// Not safe for concurrent use; the orchestrator loop owns it.
type Ledger struct {
	records []models.ScanRecord
	now     func() time.Time
}

func NewLedger(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{now: now}
}

// Insert appends the record as the newest entry.
func (l *Ledger) Insert(rec models.ScanRecord) {
	l.records = append(l.records, rec)
}

// PruneToToday drops every record whose ScannedAt is outside the current
// local calendar day and reports how many were removed. Idempotent: a
// second call in the same instant removes nothing.
func (l *Ledger) PruneToToday() int {
	start, end := dayBounds(l.now())
	kept := l.records[:0]
	for _, rec := range l.records {
		if !rec.ScannedAt.Before(start) && rec.ScannedAt.Before(end) {
			kept = append(kept, rec)
		}
	}
	removed := len(l.records) - len(kept)
	l.records = kept
	return removed
}

// UpdateStatus resolves a pending record's delivery outcome in place.
// Returns false without touching anything when the id is gone (pruned
// mid-flight) or the record already resolved; a status never moves twice
// and never moves back to pending.
func (l *Ledger) UpdateStatus(id string, status models.DeliveryStatus, responseCode *int, errMsg string) bool {
	if status != models.StatusSent && status != models.StatusFailed {
		return false
	}
	for i := range l.records {
		if l.records[i].ID != id {
			continue
		}
		if l.records[i].Status != models.StatusPending {
			return false
		}
		l.records[i].Status = status
		l.records[i].ResponseCode = responseCode
		l.records[i].Error = errMsg
		return true
	}
	return false
}

// TodayView returns a fresh copy of today's records, newest first. Ties on
// ScannedAt keep reverse insertion order, so two scans in the same
// millisecond still display latest-on-top.
func (l *Ledger) TodayView() []models.ScanRecord {
	start, end := dayBounds(l.now())
	view := make([]models.ScanRecord, 0, len(l.records))
	for i := len(l.records) - 1; i >= 0; i-- {
		rec := l.records[i]
		if !rec.ScannedAt.Before(start) && rec.ScannedAt.Before(end) {
			view = append(view, rec)
		}
	}
	sort.SliceStable(view, func(i, j int) bool {
		return view[i].ScannedAt.After(view[j].ScannedAt)
	})
	return view
}

// Clear empties the ledger unconditionally.
func (l *Ledger) Clear() {
	l.records = nil
}

// Replace loads a persisted snapshot (newest first, the stored shape) as
// the ledger's content.
func (l *Ledger) Replace(snapshot []models.ScanRecord) {
	l.records = make([]models.ScanRecord, 0, len(snapshot))
	for i := len(snapshot) - 1; i >= 0; i-- {
		l.records = append(l.records, snapshot[i])
	}
}

// Snapshot renders the ledger in the persisted shape: newest first.
func (l *Ledger) Snapshot() []models.ScanRecord {
	snapshot := make([]models.ScanRecord, 0, len(l.records))
	for i := len(l.records) - 1; i >= 0; i-- {
		snapshot = append(snapshot, l.records[i])
	}
	return snapshot
}

// Len is the number of records currently held, today or not.
func (l *Ledger) Len() int {
	return len(l.records)
}

func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
