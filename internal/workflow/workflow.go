// Package workflow is the four-state status machine for tracked
// candidates. Both automatic advancement (a successful notification send)
// and manual operator overrides funnel through the same transition
// function, so every status write is applied and logged one way.
package workflow

import (
	"context"
	"fmt"

	"interview_hosting/internal/records"
	"interview_hosting/internal/sheets"

	"github.com/rs/zerolog/log"
)

// Store is the single write operation the workflow needs.
type Store interface {
	UpdateCell(ctx context.Context, cellRange string, value interface{}) error
}

// Trigger records what caused a transition.
type Trigger int

const (
	// TriggerSendCompleted: the receipt or pairing email for this candidate
	// was delivered, advancing them to the next stage.
	TriggerSendCompleted Trigger = iota
	// TriggerManual: explicit operator override. Any state may move to any
	// other state, including out of and back into Ignored.
	TriggerManual
)

func (t Trigger) String() string {
	if t == TriggerSendCompleted {
		return "send_completed"
	}
	return "manual"
}

// NextAfterSend returns the status a candidate advances to when the send
// for the given projection succeeds. Only the receipt and pairing batches
// carry an automatic transition.
func NextAfterSend(kind records.Kind) (records.Status, bool) {
	switch kind {
	case records.KindReceipt:
		return records.AwaitingHostPairing, true
	case records.KindPairing:
		return records.Paired, true
	default:
		return 0, false
	}
}

// Workflow applies status transitions against one tracked sheet.
type Workflow struct {
	store Store
	sheet string
}

func New(store Store, trackedSheet string) *Workflow {
	return &Workflow{store: store, sheet: trackedSheet}
}

// StatusCell returns the absolute address of a candidate's status cell.
func (w *Workflow) StatusCell(rowIndex int) string {
	return sheets.CellRange(w.sheet, records.ColStatus, rowIndex)
}

// Transition writes the target status digit to the candidate's status
// cell. There is no absorbing state: every transition is legal, and the
// machine relies on callers to gate automatic ones on send success.
func (w *Workflow) Transition(ctx context.Context, rowIndex int, target records.Status, trigger Trigger) error {
	cell := w.StatusCell(rowIndex)
	if err := w.store.UpdateCell(ctx, cell, target.Cell()); err != nil {
		return fmt.Errorf("writing status %s to %s: %w", target.Cell(), cell, err)
	}
	log.Info().
		Int("row", rowIndex).
		Str("status", target.String()).
		Str("trigger", trigger.String()).
		Msg("Status transition applied")
	return nil
}
