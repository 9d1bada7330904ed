package goroutine

import (
	"runtime"
	"testing"
	"time"
)

const leakPollInterval = 20 * time.Millisecond

// AssertNoLeaks records the goroutine count and, when the test finishes,
// waits for it to fall back to that baseline. Call it first in tests that
// fan work out to goroutines.
func AssertNoLeaks(t *testing.T) {
	t.Helper()
	AssertNoLeaksWithin(t, 5*time.Second)
}

// AssertNoLeaksWithin is AssertNoLeaks with an explicit grace period.
// The count is polled from the cleanup itself so the check adds no
// goroutine of its own.
func AssertNoLeaksWithin(t *testing.T, grace time.Duration) {
	t.Helper()
	baseline := runtime.NumGoroutine()

	t.Cleanup(func() {
		current, ok := waitForGoroutines(baseline, grace)
		if ok {
			return
		}
		buf := make([]byte, 1<<20)
		n := runtime.Stack(buf, true)
		t.Errorf("goroutines did not return to baseline %d (still %d)", baseline, current)
		t.Logf("Active goroutines:\n%s", buf[:n])
	})
}

func waitForGoroutines(baseline int, grace time.Duration) (int, bool) {
	deadline := time.Now().Add(grace)
	for {
		current := runtime.NumGoroutine()
		if current <= baseline {
			return current, true
		}
		if time.Now().After(deadline) {
			return current, false
		}
		time.Sleep(leakPollInterval)
	}
}
