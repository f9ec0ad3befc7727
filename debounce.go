package irkeys

import "time"

// DefaultQuietWindow is the minimum time between two accepted keys.
const DefaultQuietWindow = 300 * time.Millisecond

// Gate rate-limits accepted keys. It does not look at which key arrives: a
// held button emits a frame about every 108ms, and any key inside the quiet
// window after the last accepted one is dropped.
type Gate struct {
	QuietWindow time.Duration

	last    time.Time
	started bool
}

// NewGate returns a Gate with the given quiet window.
func NewGate(quiet time.Duration) *Gate {
	return &Gate{QuietWindow: quiet}
}

// Accept reports whether k may pass at now. The first call always passes.
// Only accepted keys move the window.
func (g *Gate) Accept(now time.Time, k Key) bool {
	if g.started && now.Sub(g.last) < g.QuietWindow {
		return false
	}
	g.last = now
	g.started = true
	return true
}
