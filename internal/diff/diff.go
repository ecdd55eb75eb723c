// Package diff computes the minimal set of cell writes needed to push an
// edited projection back to the tracked table: only cells whose value
// changed since the last sync produce a write.
package diff

import (
	"errors"
	"fmt"
	"strings"

	"interview_hosting/internal/records"
	"interview_hosting/internal/sheets"

	"github.com/rs/zerolog/log"
)

// ErrInvalidColumn means a view column outside the projection's column map
// was addressed. That is a programming-contract violation, not a runtime
// condition; callers treat it as fatal.
var ErrInvalidColumn = errors.New("invalid projection column")

// CellWrite is one pending single-cell write against the tracked table.
type CellWrite struct {
	Range string
	Value string
}

// Writer diffs working copies of one projection against the view rows
// captured when the projection was built.
type Writer struct {
	kind     records.Kind
	sheet    string
	baseline []records.ViewRow
}

// NewWriter captures the synced baseline for a projection. baseline must be
// the view rows as of the last sync; the working rows handed to ComputeDiff
// are compared against it positionally.
func NewWriter(kind records.Kind, trackedSheet string, baseline []records.ViewRow) *Writer {
	return &Writer{kind: kind, sheet: trackedSheet, baseline: baseline}
}

// normalize strips surrounding whitespace so cosmetic edits do not produce
// writes. Comparison is value-based string equality.
func normalize(v string) string {
	return strings.TrimSpace(v)
}

// CellAddress maps a (view row, view column) pair to the absolute tracked-
// table address, using the row's stored sheet row index and the fixed
// column map for the projection kind.
func (w *Writer) CellAddress(viewRow, viewCol int) (string, error) {
	cols := records.ViewColumns(w.kind)
	if viewCol < 0 || viewCol >= len(cols) {
		return "", fmt.Errorf("%w: %s view has no column %d", ErrInvalidColumn, w.kind, viewCol)
	}
	if viewRow < 0 || viewRow >= len(w.baseline) {
		return "", fmt.Errorf("%w: %s view has no row %d", ErrInvalidColumn, w.kind, viewRow)
	}
	return sheets.CellRange(w.sheet, cols[viewCol], w.baseline[viewRow].RowIndex), nil
}

// ComputeDiff compares working rows against the synced baseline and
// returns one CellWrite per changed cell, in row-major order. Identical
// input produces no writes. Working rows are matched to baseline rows by
// position; the row-index column itself is never written.
func (w *Writer) ComputeDiff(working []records.ViewRow) ([]CellWrite, error) {
	if len(working) != len(w.baseline) {
		return nil, fmt.Errorf("working rows (%d) do not match synced rows (%d) for %s projection",
			len(working), len(w.baseline), w.kind)
	}

	var writes []CellWrite
	for i, row := range working {
		base := w.baseline[i]
		if row.RowIndex != base.RowIndex {
			return nil, fmt.Errorf("working row %d targets sheet row %d, synced row targets %d",
				i, row.RowIndex, base.RowIndex)
		}
		if len(row.Cells) != len(base.Cells) {
			return nil, fmt.Errorf("%w: working row %d has %d cells, expected %d",
				ErrInvalidColumn, i, len(row.Cells), len(base.Cells))
		}
		for j, cell := range row.Cells {
			if normalize(cell) == normalize(base.Cells[j]) {
				continue
			}
			addr, err := w.CellAddress(i, j)
			if err != nil {
				return nil, err
			}
			log.Debug().
				Str("projection", w.kind.String()).
				Str("cell", addr).
				Str("value", cell).
				Msg("Cell edit detected")
			writes = append(writes, CellWrite{Range: addr, Value: cell})
		}
	}
	return writes, nil
}
