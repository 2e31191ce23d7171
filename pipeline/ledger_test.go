package pipeline

import (
	"sync"
	"testing"
	"time"

	"scanbridge-backend/models"
)

// fakeClock lets tests move wall time, including across midnight.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func TestLedgerTodayViewNewestFirst(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local))
	l := NewLedger(clock.Now)

	first := models.NewScanRecord("one", "QR", clock.Now())
	l.Insert(first)
	clock.Advance(time.Second)
	second := models.NewScanRecord("two", "QR", clock.Now())
	l.Insert(second)

	view := l.TodayView()
	if len(view) != 2 {
		t.Fatalf("len(view) = %d, want 2", len(view))
	}
	if view[0].ID != second.ID || view[1].ID != first.ID {
		t.Fatal("view should be newest first")
	}
}

func TestLedgerTodayViewTieBreakReverseInsertion(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local))
	l := NewLedger(clock.Now)

	at := clock.Now()
	a := models.NewScanRecord("a", "QR", at)
	b := models.NewScanRecord("b", "QR", at)
	l.Insert(a)
	l.Insert(b)

	view := l.TodayView()
	if view[0].ID != b.ID {
		t.Fatal("same-instant records should display latest inserted first")
	}
}

func TestLedgerPruneIdempotent(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local))
	l := NewLedger(clock.Now)

	l.Insert(models.NewScanRecord("old", "QR", clock.Now().AddDate(0, 0, -1)))
	l.Insert(models.NewScanRecord("new", "QR", clock.Now()))

	if removed := l.PruneToToday(); removed != 1 {
		t.Fatalf("first prune removed %d, want 1", removed)
	}
	if removed := l.PruneToToday(); removed != 0 {
		t.Fatalf("second prune removed %d, want 0", removed)
	}
	if l.Len() != 1 {
		t.Fatalf("len = %d, want 1", l.Len())
	}
}

func TestLedgerMidnightRollover(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 8, 28, 23, 59, 50, 0, time.Local))
	l := NewLedger(clock.Now)

	l.Insert(models.NewScanRecord("late scan", "EAN-13", clock.Now()))
	if len(l.TodayView()) != 1 {
		t.Fatal("record should be visible before midnight")
	}

	clock.Set(time.Date(2026, 8, 29, 0, 0, 10, 0, time.Local))
	if len(l.TodayView()) != 0 {
		t.Fatal("record from yesterday should vanish after midnight")
	}
	if removed := l.PruneToToday(); removed != 1 {
		t.Fatalf("prune removed %d, want 1", removed)
	}
}

func TestLedgerUpdateStatus(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local))
	l := NewLedger(clock.Now)

	rec := models.NewScanRecord("abc", "QR", clock.Now())
	l.Insert(rec)

	code := 200
	if !l.UpdateStatus(rec.ID, models.StatusSent, &code, "") {
		t.Fatal("pending record should accept its delivery result")
	}

	got := l.TodayView()[0]
	if got.Status != models.StatusSent || got.ResponseCode == nil || *got.ResponseCode != 200 {
		t.Fatalf("record = %+v, want sent/200", got)
	}

	// A status never moves twice and never moves backwards.
	if l.UpdateStatus(rec.ID, models.StatusFailed, nil, "late failure") {
		t.Fatal("resolved record must not transition again")
	}
	if l.UpdateStatus(rec.ID, models.StatusPending, nil, "") {
		t.Fatal("pending is not a valid target status")
	}
	if got := l.TodayView()[0]; got.Status != models.StatusSent {
		t.Fatalf("status = %s, want sent", got.Status)
	}
}

func TestLedgerUpdateStatusUnknownID(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local))
	l := NewLedger(clock.Now)

	if l.UpdateStatus("gone", models.StatusFailed, nil, "whatever") {
		t.Fatal("update for an unknown id must be a silent no-op")
	}
}

func TestLedgerSnapshotReplaceRoundTrip(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local))
	l := NewLedger(clock.Now)

	first := models.NewScanRecord("one", "QR", clock.Now())
	l.Insert(first)
	clock.Advance(time.Second)
	second := models.NewScanRecord("two", "QR", clock.Now())
	l.Insert(second)

	snapshot := l.Snapshot()
	if snapshot[0].ID != second.ID {
		t.Fatal("snapshot should be newest first, matching the stored shape")
	}

	restored := NewLedger(clock.Now)
	restored.Replace(snapshot)
	view := restored.TodayView()
	if len(view) != 2 || view[0].ID != second.ID || view[1].ID != first.ID {
		t.Fatal("replace should rebuild the same ordering")
	}
}

func TestLedgerClear(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local))
	l := NewLedger(clock.Now)
	l.Insert(models.NewScanRecord("x", "QR", clock.Now()))

	l.Clear()
	if l.Len() != 0 || len(l.TodayView()) != 0 {
		t.Fatal("clear should empty the ledger")
	}
}
