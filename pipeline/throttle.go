package pipeline

import "time"

// Gate enforces the user-configured minimum spacing between forwarded
// scans. It is a separate concern from the Debouncer: that one folds one
// physical code's duplicate callbacks, this one spaces distinct scans.
// Not safe for concurrent use; the orchestrator loop owns it.
type Gate struct {
	lastForwardedAt time.Time
	forwarded       bool
}

func NewGate() *Gate {
	return &Gate{}
}

// Check either claims the forwarding slot or rejects with the remaining
// wait. On acceptance lastForwardedAt is updated immediately, before any
// asynchronous delivery work, so a slow send cannot let a burst of new
// scans through the gate. A pause below zero counts as zero.
func (g *Gate) Check(now time.Time, pause time.Duration) (bool, time.Duration) {
	if pause < 0 {
		pause = 0
	}
	if g.forwarded {
		if elapsed := now.Sub(g.lastForwardedAt); elapsed < pause {
			return false, pause - elapsed
		}
	}
	g.lastForwardedAt = now
	g.forwarded = true
	return true, 0
}

// RemainingMs renders a rejection wait as whole non-negative milliseconds
// for the advisory message.
func RemainingMs(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return d.Round(time.Millisecond).Milliseconds()
}
