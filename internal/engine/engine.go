// Package engine owns the in-memory mirror of the tracked candidate table:
// it pulls both sheets, promotes new intake submissions exactly once, and
// rebuilds the four status projections after every sync.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"interview_hosting/internal/dates"
	"interview_hosting/internal/records"
	"interview_hosting/internal/sheets"

	"github.com/rs/zerolog/log"
)

// ErrStoreUnavailable wraps any connectivity or auth failure against the
// record store. Fatal to the calling batch; the engine never retries on its
// own (retry is caller policy).
var ErrStoreUnavailable = errors.New("record store unavailable")

// Store is the slice of the sheets client the engine needs.
type Store interface {
	ReadRange(ctx context.Context, range_ string) ([][]interface{}, error)
	AppendRows(ctx context.Context, range_ string, rows [][]interface{}) error
	UpdateCell(ctx context.Context, cellRange string, value interface{}) error
}

const (
	// DefaultIntakeSheet holds raw form submissions; DefaultTrackedSheet
	// holds one row per candidate with the status column.
	DefaultIntakeSheet  = "Sheet1"
	DefaultTrackedSheet = "Sheet2"

	intakeCopiedFlag = "1"
)

// Engine mirrors the tracked table. All snapshot state is replaced
// wholesale under the mutex; accessors hand out copies, so a refresh can
// run while a batch still reads the projections it started from.
type Engine struct {
	store        Store
	intakeSheet  string
	trackedSheet string

	mu          sync.RWMutex
	tracked     [][]interface{}
	intake      [][]interface{}
	candidates  []records.Candidate
	projections map[records.Kind]records.Projection

	observerMu sync.Mutex
	observers  []func()
}

// Option configures an Engine.
type Option func(*Engine)

// WithSheets overrides the intake and tracked sheet names.
func WithSheets(intake, tracked string) Option {
	return func(e *Engine) {
		e.intakeSheet = intake
		e.trackedSheet = tracked
	}
}

func New(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:        store,
		intakeSheet:  DefaultIntakeSheet,
		trackedSheet: DefaultTrackedSheet,
		projections:  make(map[records.Kind]records.Projection),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TrackedSheet returns the sheet name all status and field writes target.
func (e *Engine) TrackedSheet() string {
	return e.trackedSheet
}

// Subscribe registers a callback invoked after every successful Refresh,
// once the projections have been rebuilt.
func (e *Engine) Subscribe(fn func()) {
	e.observerMu.Lock()
	e.observers = append(e.observers, fn)
	e.observerMu.Unlock()
}

// Pull reads the full intake and tracked ranges. On any read error the
// existing snapshot is left untouched: stale-but-consistent beats
// partially-updated.
func (e *Engine) Pull(ctx context.Context) error {
	intakeRange := fmt.Sprintf("%s!A:%s", e.intakeSheet, sheets.ColumnLetter(records.IntakeColumnCount-1))
	trackedRange := fmt.Sprintf("%s!A:%s", e.trackedSheet, sheets.ColumnLetter(records.ColStatus))

	intake, err := e.store.ReadRange(ctx, intakeRange)
	if err != nil {
		return fmt.Errorf("%w: reading intake table: %v", ErrStoreUnavailable, err)
	}
	tracked, err := e.store.ReadRange(ctx, trackedRange)
	if err != nil {
		return fmt.Errorf("%w: reading tracked table: %v", ErrStoreUnavailable, err)
	}

	candidates := parseCandidates(tracked)

	e.mu.Lock()
	e.intake = intake
	e.tracked = tracked
	e.candidates = candidates
	e.mu.Unlock()

	log.Debug().
		Int("intake_rows", len(intake)).
		Int("tracked_rows", len(tracked)).
		Int("candidates", len(candidates)).
		Msg("Pulled record store")
	return nil
}

// parseCandidates turns tracked rows into typed records, skipping the
// header row. Row index is the 1-based sheet position, the record's
// identity for write-back.
func parseCandidates(tracked [][]interface{}) []records.Candidate {
	var out []records.Candidate
	for i, row := range tracked {
		if i == 0 {
			continue // header
		}
		c, err := records.FromRow(row, i+1)
		if err != nil {
			log.Warn().Err(err).Int("row", i+1).Msg("Skipping tracked row with malformed status")
			continue
		}
		out = append(out, c)
	}
	return out
}

// PromoteNewArrivals appends a tracked row for every intake row that has
// not been copied yet (fewer than the full intake column count), seeds it
// with the initial status, and flags the intake row's copied column.
// Idempotent: once flagged, an intake row is full-width and never promoted
// again. Returns the number of rows promoted.
func (e *Engine) PromoteNewArrivals(ctx context.Context) (int, error) {
	e.mu.RLock()
	intake := e.intake
	e.mu.RUnlock()

	var arrivals []int
	for i, row := range intake {
		if len(row) < records.IntakeColumnCount {
			arrivals = append(arrivals, i)
		}
	}
	if len(arrivals) == 0 {
		log.Debug().Msg("No new intake arrivals")
		return 0, nil
	}

	appendRange := fmt.Sprintf("%s!A1", e.trackedSheet)
	for _, idx := range arrivals {
		seeded := seedTrackedRow(intake[idx])
		if err := e.store.AppendRows(ctx, appendRange, [][]interface{}{seeded}); err != nil {
			return 0, fmt.Errorf("%w: promoting intake row %d: %v", ErrStoreUnavailable, idx+1, err)
		}
		flagCell := sheets.CellRange(e.intakeSheet, records.IntakeColumnCount-1, idx+1)
		if err := e.store.UpdateCell(ctx, flagCell, intakeCopiedFlag); err != nil {
			return 0, fmt.Errorf("%w: flagging intake row %d: %v", ErrStoreUnavailable, idx+1, err)
		}
		log.Info().Int("intake_row", idx+1).Msg("Promoted new host request")
	}
	return len(arrivals), nil
}

// seedTrackedRow builds the tracked-table row for a raw intake row: host
// name blanked (no host yet), padded to full intake width, initial status
// appended.
func seedTrackedRow(intakeRow []interface{}) []interface{} {
	row := make([]interface{}, 0, records.TrackedColumnCount)
	row = append(row, "")
	for i := 1; i < len(intakeRow) && i < records.IntakeColumnCount; i++ {
		if intakeRow[i] == nil {
			row = append(row, "")
		} else {
			row = append(row, intakeRow[i])
		}
	}
	for len(row) < records.IntakeColumnCount {
		row = append(row, "")
	}
	row = append(row, records.AwaitingReceiptConfirmation.Cell())
	return row
}

// RebuildProjections partitions the snapshot into the four projections,
// each stably sorted ascending by hosting date. Unparseable dates are
// reported through warn (non-fatal) and keep their pre-sort order.
func (e *Engine) RebuildProjections(warn dates.WarnFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()

	buckets := make(map[records.Kind][]records.Candidate)
	for _, c := range e.candidates {
		kind := records.Kind(c.Status)
		buckets[kind] = append(buckets[kind], c)
	}

	projections := make(map[records.Kind]records.Projection, 4)
	for _, kind := range []records.Kind{records.KindReceipt, records.KindPairing, records.KindDone, records.KindIgnored} {
		bucket := buckets[kind]
		dates.SortByDate(bucket, func(c records.Candidate) string { return c.HostingDate }, warn)
		projections[kind] = records.Projection{Kind: kind, Candidates: bucket}
		log.Debug().Str("projection", kind.String()).Int("rows", len(bucket)).Msg("Rebuilt projection")
	}
	e.projections = projections
}

// Refresh is the only path by which the snapshot advances: pull, promote
// new arrivals, pull again if anything moved, rebuild projections, then
// tell observers. Safe to invoke repeatedly.
func (e *Engine) Refresh(ctx context.Context, warn dates.WarnFunc) error {
	if err := e.Pull(ctx); err != nil {
		return err
	}
	promoted, err := e.PromoteNewArrivals(ctx)
	if err != nil {
		return err
	}
	if promoted > 0 {
		if err := e.Pull(ctx); err != nil {
			return err
		}
	}
	e.RebuildProjections(warn)

	e.observerMu.Lock()
	observers := make([]func(), len(e.observers))
	copy(observers, e.observers)
	e.observerMu.Unlock()
	for _, fn := range observers {
		fn()
	}
	return nil
}

// Projection returns a copy of the current projection for kind.
func (e *Engine) Projection(kind records.Kind) records.Projection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.projections[kind].Clone()
}

// Snapshot returns a copy of all tracked candidates.
func (e *Engine) Snapshot() []records.Candidate {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]records.Candidate, len(e.candidates))
	copy(out, e.candidates)
	return out
}
