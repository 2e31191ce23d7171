package pipeline

import (
	"testing"
	"time"
)

func TestDebouncerFoldsRepeatedDecodes(t *testing.T) {
	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.Local)
	d := NewDebouncer(500 * time.Millisecond)

	if !d.Accept("ABC123", base) {
		t.Fatal("first decode should be accepted")
	}
	if d.Accept("ABC123", base.Add(100*time.Millisecond)) {
		t.Fatal("identical decode 100ms later should be suppressed")
	}
	if !d.Accept("ABC123", base.Add(600*time.Millisecond)) {
		t.Fatal("identical decode after the window elapsed should be accepted")
	}
}

func TestDebouncerTextChangeAccepts(t *testing.T) {
	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.Local)
	d := NewDebouncer(500 * time.Millisecond)

	if !d.Accept("A", base) {
		t.Fatal("first decode should be accepted")
	}
	if !d.Accept("B", base.Add(50*time.Millisecond)) {
		t.Fatal("different text should be accepted immediately")
	}
	// "A" is no longer the last accepted text, so it goes through even
	// though it was seen 100ms ago.
	if !d.Accept("A", base.Add(100*time.Millisecond)) {
		t.Fatal("text differing from the last accepted one should pass")
	}
}

func TestDebouncerWindowMeasuredFromAcceptance(t *testing.T) {
	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.Local)
	d := NewDebouncer(500 * time.Millisecond)

	if !d.Accept("X", base) {
		t.Fatal("first decode should be accepted")
	}
	// A suppressed sighting must not extend the window.
	if d.Accept("X", base.Add(499*time.Millisecond)) {
		t.Fatal("decode inside the window should be suppressed")
	}
	if !d.Accept("X", base.Add(501*time.Millisecond)) {
		t.Fatal("window counts from the last acceptance, not the last sighting")
	}
}

func TestDebouncerDefaultWindow(t *testing.T) {
	d := NewDebouncer(0)
	if d.window != DefaultDebounceWindow {
		t.Fatalf("window = %v, want %v", d.window, DefaultDebounceWindow)
	}
}
