package pipeline

import (
	"testing"
	"time"
)

func TestGateSpacing(t *testing.T) {
	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.Local)
	g := NewGate()
	pause := time.Second

	ok, _ := g.Check(base, pause)
	if !ok {
		t.Fatal("first event should pass the gate")
	}

	ok, remaining := g.Check(base.Add(400*time.Millisecond), pause)
	if ok {
		t.Fatal("event 400ms after the last forward should be rejected")
	}
	if remaining != 600*time.Millisecond {
		t.Fatalf("remaining = %v, want 600ms", remaining)
	}

	ok, _ = g.Check(base.Add(1100*time.Millisecond), pause)
	if !ok {
		t.Fatal("event after the pause elapsed should pass")
	}
}

func TestGateRejectionDoesNotClaimSlot(t *testing.T) {
	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.Local)
	g := NewGate()
	pause := time.Second

	if ok, _ := g.Check(base, pause); !ok {
		t.Fatal("first event should pass")
	}
	// Rejections must not move lastForwardedAt, otherwise a steady stream
	// of rejected scans would lock the gate shut forever.
	if ok, _ := g.Check(base.Add(500*time.Millisecond), pause); ok {
		t.Fatal("second event should be rejected")
	}
	if ok, _ := g.Check(base.Add(1001*time.Millisecond), pause); !ok {
		t.Fatal("pause counts from the last forward, not the last rejection")
	}
}

func TestGateNegativePauseClamped(t *testing.T) {
	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.Local)
	g := NewGate()

	for i := 0; i < 3; i++ {
		if ok, _ := g.Check(base, -time.Second); !ok {
			t.Fatalf("event %d: negative pause means no throttling", i)
		}
	}
}

func TestGateZeroRemainingNeverNegative(t *testing.T) {
	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.Local)
	g := NewGate()
	g.Check(base, time.Second)

	_, remaining := g.Check(base.Add(999*time.Millisecond), time.Second)
	if remaining < 0 {
		t.Fatalf("remaining = %v, want >= 0", remaining)
	}
}

func TestRemainingMs(t *testing.T) {
	cases := []struct {
		name string
		in   time.Duration
		want int64
	}{
		{"zero", 0, 0},
		{"negative", -time.Second, 0},
		{"exact", 600 * time.Millisecond, 600},
		{"rounds up", 599*time.Millisecond + 600*time.Microsecond, 600},
		{"rounds down", 599*time.Millisecond + 400*time.Microsecond, 599},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RemainingMs(tc.in); got != tc.want {
				t.Fatalf("RemainingMs(%v) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}
