package analysis

import (
	"sort"
	"time"
)

// Hour-count bounds for forward mode and the context radius around a
// matched instant.
const (
	MinHours     = 1
	MaxHours     = 168
	DefaultHours = 12
	ContextHours = 6
)

// Window is a contiguous half-open index range [Start, End) into an
// hourly series. Non-empty by construction: Start < End.
type Window struct {
	Start int
	End   int
}

// Len returns the number of samples in the window.
func (w Window) Len() int {
	return w.End - w.Start
}

// Slice returns the sub-slice of values covered by the window. A nil
// input (absent optional column) stays nil.
func (w Window) Slice(values []float64) []float64 {
	if values == nil {
		return nil
	}
	return values[w.Start:w.End]
}

// ClampHours clamps a requested hour count to [MinHours, MaxHours].
func ClampHours(hours int) int {
	if hours < MinHours {
		return MinHours
	}
	if hours > MaxHours {
		return MaxHours
	}
	return hours
}

// NearestIndex returns the index of the sample closest in time to target.
// An exact match wins outright; ties between equally distant neighbours
// resolve to the earlier index. times must be non-empty and sorted
// ascending; the search is a binary lower bound over the ordered column,
// equivalent to a linear scan keeping the first minimal difference.
func NearestIndex(times []time.Time, target time.Time) int {
	n := len(times)
	i := sort.Search(n, func(k int) bool { return !times[k].Before(target) })
	if i == n {
		return n - 1
	}
	if i == 0 {
		return 0
	}
	before := target.Sub(times[i-1])
	after := times[i].Sub(target)
	if before <= after {
		return i - 1
	}
	return i
}

// ContextWindow returns up to ContextHours of samples on each side of
// idx, clipped to the series bounds. Always contains idx.
func ContextWindow(idx, length int) Window {
	start := idx - ContextHours
	if start < 0 {
		start = 0
	}
	end := idx + ContextHours + 1
	if end > length {
		end = length
	}
	return Window{Start: start, End: end}
}

// ForwardStart returns the index of the first sample at or after ref,
// falling back to the last sample when the whole series is in the past.
// times must be non-empty and sorted ascending.
func ForwardStart(times []time.Time, ref time.Time) int {
	n := len(times)
	i := sort.Search(n, func(k int) bool { return !times[k].Before(ref) })
	if i == n {
		return n - 1
	}
	return i
}

// ForwardWindow returns the window of up to hours samples starting at
// startIdx, clipped to the series length.
func ForwardWindow(startIdx, length, hours int) Window {
	end := startIdx + hours
	if end > length {
		end = length
	}
	return Window{Start: startIdx, End: end}
}
