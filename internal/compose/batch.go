package compose

import (
	"context"
	"fmt"
	"sync"

	"interview_hosting/internal/diff"
	"interview_hosting/internal/mail"
	"interview_hosting/internal/progress"
	"interview_hosting/internal/records"
	"interview_hosting/internal/workflow"

	"github.com/rs/zerolog/log"
)

// Decision is the operator's call on one candidate during stepwise review.
type Decision int

const (
	// DecisionConfirm sends the draft as it stands (possibly after the
	// reviewer edited recipients or body in place).
	DecisionConfirm Decision = iota
	// DecisionSkip drops this candidate; the batch continues.
	DecisionSkip
	// DecisionSkipAll drops this candidate and every remaining one.
	DecisionSkipAll
)

// Draft is the editable email presented for review. The reviewer may
// rewrite To, Cc, and Body before confirming.
type Draft struct {
	Candidate records.Candidate
	Subject   string
	To        []string
	Cc        []string
	Body      string
}

// Reviewer sequences batch decisions; it runs on the coordinating
// goroutine and may block (a modal confirmation, a prompt).
type Reviewer interface {
	Review(draft *Draft) Decision
}

// launchAll confirms everything without review.
type launchAll struct{}

func (launchAll) Review(*Draft) Decision { return DecisionConfirm }

// LaunchAll is the reviewer for no-review batches: every pair is created
// and dispatched back to back.
var LaunchAll Reviewer = launchAll{}

// Outcome summarizes a finished batch.
type Outcome struct {
	Attempted int      // pairs actually dispatched
	Cancelled int      // pairs skipped before dispatch
	Skipped   []string // candidate names whose send failed; their writes were cancelled
}

type pair struct {
	draft  Draft
	send   *progress.Operation
	write  *progress.Operation
	target records.Status
}

// Batch pairs one notification send per candidate with the status write
// that records delivery. All pairs are registered with the tracker at
// construction so the progress denominator is stable before anything runs.
type Batch struct {
	kind      records.Kind
	transport mail.Transport
	wf        *workflow.Workflow
	tracker   *progress.Tracker
	pairs     []*pair
}

// NewBatch builds the send/write pairs for a projection. Receipt batches
// take every candidate; pairing batches only candidates whose host fields
// are complete. Returns an error if the projection kind has no automatic
// transition (done/ignored views never send).
func NewBatch(
	kind records.Kind,
	candidates []records.Candidate,
	template, subject, signature string,
	transport mail.Transport,
	wf *workflow.Workflow,
	tracker *progress.Tracker,
) (*Batch, error) {
	target, ok := workflow.NextAfterSend(kind)
	if !ok {
		return nil, fmt.Errorf("%s projection has no notification batch", kind)
	}

	b := &Batch{kind: kind, transport: transport, wf: wf, tracker: tracker}
	for _, c := range candidates {
		if kind == records.KindPairing && !c.Complete() {
			log.Warn().
				Int("row", c.RowIndex).
				Str("candidate", c.Name).
				Msg("Skipping pairing email for candidate with incomplete host fields")
			continue
		}

		fields := map[string]string{
			TagCandidateName:   FirstName(c.Name),
			TagHostingDate:     c.HostingDate,
			TagSignature:       signature,
			TagPreferenceTable: PreferenceTable(c),
		}
		var cc []string
		if kind == records.KindPairing {
			fields[TagHostName] = c.HostName
			cc = []string{c.HostEmail}
		}

		p := &pair{
			draft: Draft{
				Candidate: c,
				Subject:   subject,
				To:        []string{c.Email},
				Cc:        cc,
				Body:      Render(template, fields),
			},
			target: target,
		}
		p.write = progress.NewWrite(wf.StatusCell(c.RowIndex))
		p.send = progress.NewSend(append(append([]string{}, p.draft.To...), cc...), p.write)
		tracker.Enqueue(p.send)
		tracker.Enqueue(p.write)
		b.pairs = append(b.pairs, p)
	}
	return b, nil
}

// Size is the number of send/write pairs registered.
func (b *Batch) Size() int {
	return len(b.pairs)
}

// Run reviews and dispatches the batch. Each confirmed send executes on
// its own goroutine; its linked status write fires only after the send
// succeeds. Skips are cooperative: they cancel pairs not yet dispatched,
// never operations already running. Run blocks until every dispatched
// operation completes.
func (b *Batch) Run(ctx context.Context, reviewer Reviewer) Outcome {
	if reviewer == nil {
		reviewer = LaunchAll
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		outcome  Outcome
		skipRest bool
	)
	for _, p := range b.pairs {
		if skipRest {
			b.tracker.Cancel(p.send)
			b.tracker.Cancel(p.write)
			outcome.Cancelled++
			continue
		}

		switch reviewer.Review(&p.draft) {
		case DecisionSkip:
			b.tracker.Cancel(p.send)
			b.tracker.Cancel(p.write)
			outcome.Cancelled++
			log.Info().Str("candidate", p.draft.Candidate.Name).Msg("Email skipped by operator")
			continue
		case DecisionSkipAll:
			skipRest = true
			b.tracker.Cancel(p.send)
			b.tracker.Cancel(p.write)
			outcome.Cancelled++
			log.Info().Str("candidate", p.draft.Candidate.Name).Msg("Skipping all remaining emails")
			continue
		}

		outcome.Attempted++
		wg.Add(1)
		go func(p *pair) {
			defer wg.Done()
			b.dispatch(ctx, p, &mu, &outcome)
		}(p)
	}
	wg.Wait()
	return outcome
}

// dispatch runs one send and, on success, its linked status write. A
// failed send cancels the write: a candidate is never marked notified
// when nothing was delivered.
func (b *Batch) dispatch(ctx context.Context, p *pair, mu *sync.Mutex, outcome *Outcome) {
	err := b.transport.Send(ctx, mail.Message{
		Subject:  p.draft.Subject,
		To:       p.draft.To,
		Cc:       p.draft.Cc,
		HTMLBody: p.draft.Body,
	})
	b.tracker.Complete(p.send, err)
	if err != nil {
		b.tracker.Cancel(p.write)
		mu.Lock()
		outcome.Skipped = append(outcome.Skipped, p.draft.Candidate.Name)
		mu.Unlock()
		log.Warn().
			Err(err).
			Str("candidate", p.draft.Candidate.Name).
			Msg("Email failed; status not advanced")
		return
	}

	werr := b.wf.Transition(ctx, p.draft.Candidate.RowIndex, p.target, workflow.TriggerSendCompleted)
	b.tracker.Complete(p.write, werr)
}

// ApplyWrites pushes a diff's cell writes through the tracker, one worker
// per write. Failed writes are reported together after all complete; the
// rest of the batch is unaffected.
func ApplyWrites(ctx context.Context, store workflow.Store, writes []diff.CellWrite, tracker *progress.Tracker) error {
	ops := make([]*progress.Operation, len(writes))
	for i, w := range writes {
		ops[i] = progress.NewWrite(w.Range)
		tracker.Enqueue(ops[i])
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i, w := range writes {
		wg.Add(1)
		go func(op *progress.Operation, w diff.CellWrite) {
			defer wg.Done()
			err := store.UpdateCell(ctx, w.Range, w.Value)
			tracker.Complete(op, err)
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("writing %s: %w", w.Range, err))
				mu.Unlock()
			}
		}(ops[i], w)
	}
	wg.Wait()

	if len(errs) > 0 {
		return fmt.Errorf("%d of %d cell writes failed: %w", len(errs), len(writes), errs[0])
	}
	return nil
}
