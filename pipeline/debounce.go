package pipeline

import "time"

// DefaultDebounceWindow is how long an identical decode is treated as the
// same physical code still sitting in front of the camera.
const DefaultDebounceWindow = 500 * time.Millisecond

// Debouncer folds the rapid-fire decode callbacks a single physical code
// produces into one logical scan. Not safe for concurrent use; the
// orchestrator loop owns it.
type Debouncer struct {
	window         time.Duration
	lastText       string
	lastAcceptedAt time.Time
	seen           bool
}

func NewDebouncer(window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Debouncer{window: window}
}

// Accept reports whether the decode at now is a new logical scan. An
// accepted pair becomes the comparison point for the next call; suppressed
// pairs leave the state untouched, so the window is measured from the last
// acceptance, not the last sighting.
func (d *Debouncer) Accept(text string, now time.Time) bool {
	if d.seen && text == d.lastText && now.Sub(d.lastAcceptedAt) < d.window {
		return false
	}
	d.lastText = text
	d.lastAcceptedAt = now
	d.seen = true
	return true
}
