package preview

import (
	"sync"
	"time"
)

// debouncer collapses bursts of triggers into one request on out, sent once
// no trigger arrived for delay. Sends never block: when out already holds a
// request the new one is dropped.
type debouncer struct {
	delay time.Duration
	out   chan<- struct{}

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

func newDebouncer(delay time.Duration, out chan<- struct{}) *debouncer {
	return &debouncer{delay: delay, out: out}
}

// Trigger restarts the quiet period.
func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { request(d.out) })
}

// Stop cancels a pending request. Later triggers are ignored.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}

// request queues a rebuild unless one is already queued.
func request(ch chan<- struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
