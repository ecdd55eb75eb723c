// Package progress tracks the send and write pools of one batch and folds
// them into a single percentage. A Tracker is batch-scoped: constructed at
// batch start, passed into every operation, never shared across batches.
package progress

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Kind distinguishes the two operation pools.
type Kind int

const (
	KindSend Kind = iota
	KindWrite
)

func (k Kind) String() string {
	if k == KindSend {
		return "send"
	}
	return "write"
}

// State is an operation's completion state.
type State int32

const (
	StatePending State = iota
	StateSucceeded
	StateFailed
	StateCancelled
)

// Operation is one in-flight notification send or cell write. A send may
// carry a linked write that must only fire if the send succeeds.
type Operation struct {
	ID         uuid.UUID
	Kind       Kind
	Target     string   // cell address, for writes
	Recipients []string // to/cc, for sends
	Linked     *Operation

	state atomic.Int32
}

// NewSend creates a pending send operation, optionally linked to the write
// that records its completion.
func NewSend(recipients []string, linked *Operation) *Operation {
	return &Operation{ID: uuid.New(), Kind: KindSend, Recipients: recipients, Linked: linked}
}

// NewWrite creates a pending cell-write operation.
func NewWrite(target string) *Operation {
	return &Operation{ID: uuid.New(), Kind: KindWrite, Target: target}
}

func (o *Operation) State() State {
	return State(o.state.Load())
}

// Email sends are the user-visible, higher-latency, higher-risk half of a
// batch; sheet writes are fast confirmations. The split reflects that.
const (
	sendWeight  = 67.0
	writeWeight = 33.0
)

// Tracker holds the four batch counters. Enqueue happens at operation
// creation time, not at start of execution, so the denominator is stable
// while operations are still being registered. Completions race from
// worker goroutines; everything is guarded.
type Tracker struct {
	mu          sync.Mutex
	sendsTotal  int
	sendsDone   int
	writesTotal int
	writesDone  int

	// suppressWrites hides write-only progress (used while a view is open
	// whose saves should not animate the bar).
	suppressWrites bool
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// SuppressWriteProgress toggles reporting of write-only progress.
func (t *Tracker) SuppressWriteProgress(suppress bool) {
	t.mu.Lock()
	t.suppressWrites = suppress
	t.mu.Unlock()
}

// Enqueue registers a pending operation, growing the matching total.
func (t *Tracker) Enqueue(op *Operation) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if op.Kind == KindSend {
		t.sendsTotal++
	} else {
		t.writesTotal++
	}
}

// Complete records that an operation finished. Failed operations still
// count as done for progress purposes; the failure is surfaced separately.
func (t *Tracker) Complete(op *Operation, err error) {
	if err == nil {
		op.state.Store(int32(StateSucceeded))
	} else {
		op.state.Store(int32(StateFailed))
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if op.Kind == KindSend {
		t.sendsDone++
	} else {
		t.writesDone++
	}
}

// Cancel abandons an operation that never executed, shrinking the matching
// total so progress reflects only attempted operations. Done counters are
// never decremented; cancelling an already-completed operation is a no-op.
func (t *Tracker) Cancel(op *Operation) {
	if !op.state.CompareAndSwap(int32(StatePending), int32(StateCancelled)) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if op.Kind == KindSend {
		t.sendsTotal--
	} else {
		t.writesTotal--
	}
}

// Counts returns the current counters (sendsTotal, sendsDone, writesTotal,
// writesDone).
func (t *Tracker) Counts() (int, int, int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sendsTotal, t.sendsDone, t.writesTotal, t.writesDone
}

// Progress folds both pools into one integer percentage in [0,100].
// Write-only batches report the plain write ratio (unless suppressed);
// mixed batches weight sends at 67% and writes at 33%.
func (t *Tracker) Progress() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	progress := 0
	switch {
	case t.sendsTotal == 0 && t.writesTotal > 0 && !t.suppressWrites:
		progress = int(math.Round(100.0 * float64(t.writesDone) / float64(t.writesTotal)))
	case t.sendsTotal > 0 && t.writesTotal > 0:
		sendPart := sendWeight * float64(t.sendsDone) / float64(t.sendsTotal)
		writePart := writeWeight * float64(t.writesDone) / float64(t.writesTotal)
		progress = int(math.Round(sendPart + writePart))
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	return progress
}
