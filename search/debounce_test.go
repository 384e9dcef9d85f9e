package search

import (
	"sync"
	"testing"
	"time"
)

func TestDebouncerFiresOnlySurvivingQuery(t *testing.T) {
	var mu sync.Mutex
	var fired []string

	debouncer := NewDebouncer(50*time.Millisecond, func(query string) {
		mu.Lock()
		fired = append(fired, query)
		mu.Unlock()
	})
	defer debouncer.Stop()

	// rapid keystrokes: each trigger resets the timer
	debouncer.Trigger("p")
	debouncer.Trigger("py")
	debouncer.Trigger("pyr")
	debouncer.Trigger("pyramids")

	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 1 {
		t.Fatalf("expected exactly 1 fire, got %d (%v)", len(fired), fired)
	}
	if fired[0] != "pyramids" {
		t.Errorf("fired query = %q, want %q", fired[0], "pyramids")
	}
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	var mu sync.Mutex
	count := 0

	debouncer := NewDebouncer(50*time.Millisecond, func(string) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	debouncer.Trigger("cairo")
	debouncer.Stop()

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if count != 0 {
		t.Fatalf("expected no fires after Stop, got %d", count)
	}
}

func TestDebouncerFiresAgainAfterQuietPeriod(t *testing.T) {
	var mu sync.Mutex
	var fired []string

	debouncer := NewDebouncer(30*time.Millisecond, func(query string) {
		mu.Lock()
		fired = append(fired, query)
		mu.Unlock()
	})
	defer debouncer.Stop()

	debouncer.Trigger("luxor")
	time.Sleep(100 * time.Millisecond)
	debouncer.Trigger("aswan")
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 2 || fired[0] != "luxor" || fired[1] != "aswan" {
		t.Fatalf("fired = %v, want [luxor aswan]", fired)
	}
}
