// Package scheduler abstracts periodic ticks and the wall clock so that
// timing-sensitive code can run against a manual implementation in tests
// instead of waiting on real timers.
package scheduler

import "time"

// Ticker delivers periodic ticks until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type Scheduler interface {
	// Every returns a cancelable ticker firing at the given period.
	Every(d time.Duration) Ticker
	// Now is the scheduler's view of the wall clock. Expiry comparisons go
	// through here so a manual scheduler can move time in tests.
	Now() time.Time
}

type wallScheduler struct{}

// New returns the real-time scheduler backed by time.Ticker.
func New() Scheduler {
	return wallScheduler{}
}

func (wallScheduler) Every(d time.Duration) Ticker {
	return &wallTicker{t: time.NewTicker(d)}
}

func (wallScheduler) Now() time.Time {
	return time.Now()
}

type wallTicker struct {
	t *time.Ticker
}

func (w *wallTicker) C() <-chan time.Time {
	return w.t.C
}

func (w *wallTicker) Stop() {
	w.t.Stop()
}
