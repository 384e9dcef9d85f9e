package search

import (
	"sync"
	"time"
)

// Debouncer delays firing until the input has been quiet for the full
// window. Each Trigger resets the timer; only the timer that survives
// uncanceled fires, so superseded queries are discarded.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fire  func(query string)
}

func NewDebouncer(delay time.Duration, fire func(query string)) *Debouncer {
	return &Debouncer{delay: delay, fire: fire}
}

func (d *Debouncer) Trigger(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(query)
	})
}

// Stop cancels any pending fire.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
