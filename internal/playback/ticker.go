package playback

import (
	"sync"
	"time"
)

// Ticker invokes a callback at a fixed period on a dedicated goroutine.
// Start and Stop are idempotent.
type Ticker struct {
	period time.Duration
	fn     func(now time.Time)

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool
}

func NewTicker(period time.Duration, fn func(now time.Time)) *Ticker {
	return &Ticker{period: period, fn: fn}
}

func (t *Ticker) Period() time.Duration { return t.period }

func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.running = true
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	go t.run(t.stop, t.done)
}

// Stop halts the timer and waits for the tick goroutine to exit. An
// in-flight callback completes its current frame first.
func (t *Ticker) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	stop, done := t.stop, t.done
	t.mu.Unlock()

	close(stop)
	<-done
}

func (t *Ticker) run(stop, done chan struct{}) {
	defer close(done)
	tick := time.NewTicker(t.period)
	defer tick.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-tick.C:
			t.fn(now)
		}
	}
}
