package health

import (
	"testing"
	"time"
)

func TestTracker_ErrorRate(t *testing.T) {
	var tr Tracker
	tr.RecordSuccess()
	tr.RecordSuccess()
	tr.RecordSuccess()
	tr.RecordError()

	errors, total := tr.ErrorRate(time.Minute)
	if errors != 1 {
		t.Errorf("errors = %d, want 1", errors)
	}
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}
}

func TestTracker_EmptyWindow(t *testing.T) {
	var tr Tracker
	errors, total := tr.ErrorRate(time.Minute)
	if errors != 0 || total != 0 {
		t.Errorf("ErrorRate() = (%d, %d), want (0, 0)", errors, total)
	}
}

func TestTracker_Reset(t *testing.T) {
	var tr Tracker
	tr.RecordError()
	tr.Reset()
	errors, total := tr.ErrorRate(time.Minute)
	if errors != 0 || total != 0 {
		t.Errorf("ErrorRate() after Reset = (%d, %d), want (0, 0)", errors, total)
	}
}

func TestShuttingDownFlag(t *testing.T) {
	SetShuttingDown(true)
	if !IsShuttingDown() {
		t.Error("IsShuttingDown() = false after SetShuttingDown(true)")
	}
	SetShuttingDown(false)
	if IsShuttingDown() {
		t.Error("IsShuttingDown() = true after SetShuttingDown(false)")
	}
}
