package health

import (
	"sync"
	"sync/atomic"
	"time"
)

var (
	defaultTracker Tracker
	shuttingDown   atomic.Bool
)

// RecordSuccess records a successfully answered request.
func RecordSuccess() {
	defaultTracker.RecordSuccess()
}

// RecordError records a failed request (upstream error, bad payload, timeout).
func RecordError() {
	defaultTracker.RecordError()
}

// ErrorRate returns (errorCount, totalCount) within the window.
func ErrorRate(window time.Duration) (errors, total int) {
	return defaultTracker.ErrorRate(window)
}

// Reset clears all recorded outcomes. For tests only.
func Reset() {
	defaultTracker.Reset()
}

// SetShuttingDown sets the shutdown flag. Call when SIGTERM/SIGINT received.
// The health handler returns 503 with status shutting-down while true.
func SetShuttingDown(v bool) {
	shuttingDown.Store(v)
}

// IsShuttingDown returns true if the process is draining and should not
// receive new traffic.
func IsShuttingDown() bool {
	return shuttingDown.Load()
}

// Tracker maintains sliding windows of request outcome timestamps.
type Tracker struct {
	mu           sync.Mutex
	successTimes []time.Time
	errorTimes   []time.Time
}

// RecordSuccess records a successful request outcome in the tracker.
func (t *Tracker) RecordSuccess() {
	t.recordOutcome(&t.successTimes)
}

// RecordError records a failed request outcome in the tracker.
func (t *Tracker) RecordError() {
	t.recordOutcome(&t.errorTimes)
}

func (t *Tracker) recordOutcome(slice *[]time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	*slice = append(*slice, now)
	t.pruneLocked(now)
}

// ErrorRate returns (errorCount, totalCount) within the window.
func (t *Tracker) ErrorRate(window time.Duration) (errors, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cutoff := time.Now().Add(-window)
	errCount := countInWindow(t.errorTimes, cutoff)
	successCount := countInWindow(t.successTimes, cutoff)
	return errCount, errCount + successCount
}

// Reset clears all recorded outcomes from the tracker.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.successTimes = nil
	t.errorTimes = nil
}

func countInWindow(times []time.Time, cutoff time.Time) int {
	n := 0
	for _, ts := range times {
		if !ts.Before(cutoff) {
			n++
		}
	}
	return n
}

// pruneLocked drops timestamps older than 5 minutes so the slices stay
// bounded regardless of configured windows. Must be called with mu held.
func (t *Tracker) pruneLocked(now time.Time) {
	cutoff := now.Add(-5 * time.Minute)
	prune := func(slice *[]time.Time) {
		times := *slice
		i := 0
		for ; i < len(times) && times[i].Before(cutoff); i++ {
		}
		if i > 0 {
			*slice = append(times[:0], times[i:]...)
		}
	}
	prune(&t.successTimes)
	prune(&t.errorTimes)
}
