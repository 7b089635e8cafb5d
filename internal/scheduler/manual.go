package scheduler

import (
	"sync"
	"time"
)

// Manual is a Scheduler for tests: the clock only moves via Advance and
// ticks only fire when the test fires them.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*ManualTicker
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

func (m *Manual) Every(d time.Duration) Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &ManualTicker{parent: m, period: d, ch: make(chan time.Time)}
	m.tickers = append(m.tickers, t)
	return t
}

// Tickers returns the tickers handed out so far, in creation order.
func (m *Manual) Tickers() []*ManualTicker {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*ManualTicker, len(m.tickers))
	copy(out, m.tickers)
	return out
}

type ManualTicker struct {
	parent  *Manual
	period  time.Duration
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (t *ManualTicker) C() <-chan time.Time {
	return t.ch
}

func (t *ManualTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *ManualTicker) Period() time.Duration {
	return t.period
}

// Fire delivers one tick, blocking until the consumer takes it. Firing a
// stopped ticker is a no-op so tests cannot deadlock on teardown.
func (t *ManualTicker) Fire() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()
	t.ch <- t.parent.Now()
}
