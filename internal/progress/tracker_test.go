package progress

import (
	"errors"
	"testing"
)

func enqueueN(t *Tracker, kind Kind, n int) []*Operation {
	ops := make([]*Operation, n)
	for i := range ops {
		if kind == KindSend {
			ops[i] = NewSend([]string{"someone@example.com"}, nil)
		} else {
			ops[i] = NewWrite("Sheet2!M2")
		}
		t.Enqueue(ops[i])
	}
	return ops
}

func TestProgressEmptyTrackerIsZero(t *testing.T) {
	tracker := NewTracker()
	if got := tracker.Progress(); got != 0 {
		t.Errorf("Expected 0 for empty tracker, got %d", got)
	}
}

func TestProgressWriteOnlyBatch(t *testing.T) {
	tracker := NewTracker()
	ops := enqueueN(tracker, KindWrite, 5)

	for i, op := range ops {
		tracker.Complete(op, nil)
		expected := (i + 1) * 100 / 5
		if got := tracker.Progress(); got != expected {
			t.Errorf("After %d of 5 writes: expected %d, got %d", i+1, expected, got)
		}
	}
}

func TestProgressMixedBatchWeighting(t *testing.T) {
	tracker := NewTracker()
	sends := enqueueN(tracker, KindSend, 4)
	writes := enqueueN(tracker, KindWrite, 4)

	for _, op := range sends[:2] {
		tracker.Complete(op, nil)
	}
	for _, op := range writes {
		tracker.Complete(op, nil)
	}

	// 67*(2/4) + 33*(4/4) = 33.5 + 33 = 66.5, rounds to 67
	if got := tracker.Progress(); got != 67 {
		t.Errorf("Expected 67, got %d", got)
	}
}

func TestProgressReaches100WhenAllDone(t *testing.T) {
	tracker := NewTracker()
	sends := enqueueN(tracker, KindSend, 3)
	writes := enqueueN(tracker, KindWrite, 3)

	for _, op := range sends {
		tracker.Complete(op, nil)
	}
	for _, op := range writes {
		tracker.Complete(op, nil)
	}

	if got := tracker.Progress(); got != 100 {
		t.Errorf("Expected 100, got %d", got)
	}
}

func TestProgressMonotonicUnderCompletions(t *testing.T) {
	tracker := NewTracker()
	sends := enqueueN(tracker, KindSend, 10)
	writes := enqueueN(tracker, KindWrite, 10)

	last := tracker.Progress()
	for i := range sends {
		tracker.Complete(sends[i], nil)
		if got := tracker.Progress(); got < last {
			t.Fatalf("Progress went backwards: %d after %d", got, last)
		} else {
			last = got
		}
		tracker.Complete(writes[i], nil)
		if got := tracker.Progress(); got < last {
			t.Fatalf("Progress went backwards: %d after %d", got, last)
		} else {
			last = got
		}
	}
}

func TestFailedOperationStillCountsAsDone(t *testing.T) {
	tracker := NewTracker()
	ops := enqueueN(tracker, KindSend, 2)
	enqueueN(tracker, KindWrite, 2)

	tracker.Complete(ops[0], errors.New("send failed"))

	if ops[0].State() != StateFailed {
		t.Errorf("Expected StateFailed, got %v", ops[0].State())
	}
	_, sendsDone, _, _ := tracker.Counts()
	if sendsDone != 1 {
		t.Errorf("Expected failed send counted as done, got %d", sendsDone)
	}
}

func TestCancelShrinksTotals(t *testing.T) {
	tracker := NewTracker()
	sends := enqueueN(tracker, KindSend, 10)
	writes := enqueueN(tracker, KindWrite, 10)

	// Three pairs run, the rest are skipped.
	for i := 0; i < 3; i++ {
		tracker.Complete(sends[i], nil)
		tracker.Complete(writes[i], nil)
	}
	for i := 3; i < 10; i++ {
		tracker.Cancel(sends[i])
		tracker.Cancel(writes[i])
	}

	st, sd, wt, wd := tracker.Counts()
	if st != 3 || wt != 3 {
		t.Errorf("Expected totals reduced to 3/3, got sends %d writes %d", st, wt)
	}
	if sd != 3 || wd != 3 {
		t.Errorf("Expected done counts 3/3, got sends %d writes %d", sd, wd)
	}
	if got := tracker.Progress(); got != 100 {
		t.Errorf("Expected 100 after cancelling the remainder, got %d", got)
	}
}

func TestCancelCompletedOperationIsNoOp(t *testing.T) {
	tracker := NewTracker()
	ops := enqueueN(tracker, KindWrite, 2)

	tracker.Complete(ops[0], nil)
	tracker.Cancel(ops[0])

	_, _, wt, wd := tracker.Counts()
	if wt != 2 {
		t.Errorf("Expected total unchanged by cancel of completed op, got %d", wt)
	}
	if wd != 1 {
		t.Errorf("Expected done count 1, got %d", wd)
	}
	if ops[0].State() != StateSucceeded {
		t.Errorf("Expected state to stay succeeded, got %v", ops[0].State())
	}
}

func TestSuppressWriteProgress(t *testing.T) {
	tracker := NewTracker()
	ops := enqueueN(tracker, KindWrite, 2)
	tracker.Complete(ops[0], nil)

	tracker.SuppressWriteProgress(true)
	if got := tracker.Progress(); got != 0 {
		t.Errorf("Expected 0 while suppressed, got %d", got)
	}

	tracker.SuppressWriteProgress(false)
	if got := tracker.Progress(); got != 50 {
		t.Errorf("Expected 50 after unsuppressing, got %d", got)
	}
}
