package exam

import "time"

// Timer tracks wall-clock time for the active session. Elapsed time is
// always derived from the start instant rather than accumulated, so a
// delayed tick cannot introduce drift.
type Timer struct {
	startedAt time.Time
	running   bool
}

// Start records the start instant and marks the timer running.
func (t *Timer) Start(now time.Time) {
	t.startedAt = now
	t.running = true
}

// Stop halts elapsed tracking. Safe to call repeatedly.
func (t *Timer) Stop() {
	t.running = false
}

// Running reports whether periodic ticks should keep rescheduling.
func (t *Timer) Running() bool { return t.running }

// Elapsed returns the time since the start instant, or zero before Start.
func (t *Timer) Elapsed(now time.Time) time.Duration {
	if t.startedAt.IsZero() {
		return 0
	}
	return now.Sub(t.startedAt)
}
