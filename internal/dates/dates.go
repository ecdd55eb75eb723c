// Package dates parses the fixed calendar-date format used throughout the
// hosting spreadsheet and orders records chronologically by it.
package dates

import (
	"fmt"
	"sort"
	"time"
)

// Layout is the only accepted date format: zero-padded month and day with a
// four-digit year, e.g. "03/01/2024". The backing sheet has always stored
// dates this way.
const Layout = "01/02/2006"

// Parse parses a hosting or interview date. Any deviation from Layout
// (unpadded fields, two-digit years, non-date text) is an error.
func Parse(value string) (time.Time, error) {
	t, err := time.Parse(Layout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a parseable date in MM/DD/YYYY format", value)
	}
	return t, nil
}

// WarnFunc receives the offending cell value for each date that failed to
// parse during a sort. Sorting continues; the row keeps its relative order.
type WarnFunc func(value string)

// SortByDate stably sorts rows ascending by the date returned from dateOf.
// Rows whose date does not parse are excluded from reordering: they keep
// their original positions and only the parseable rows sort around them.
// Each parse failure is reported through warn (if non-nil) once per row.
func SortByDate[T any](rows []T, dateOf func(T) string, warn WarnFunc) {
	type dated struct {
		row  T
		when time.Time
	}
	valid := make([]dated, 0, len(rows))
	positions := make([]int, 0, len(rows))
	for i, row := range rows {
		value := dateOf(row)
		t, err := Parse(value)
		if err != nil {
			if warn != nil {
				warn(value)
			}
			continue
		}
		valid = append(valid, dated{row: row, when: t})
		positions = append(positions, i)
	}
	sort.SliceStable(valid, func(a, b int) bool {
		return valid[a].when.Before(valid[b].when)
	})
	for i, pos := range positions {
		rows[pos] = valid[i].row
	}
}

// Compare orders two date strings the way the sheet's date column sorter
// did: -1 if a is earlier, 1 if later, 0 if equal or either fails to parse.
func Compare(a, b string) int {
	da, errA := Parse(a)
	db, errB := Parse(b)
	if errA != nil || errB != nil {
		return 0
	}
	switch {
	case da.Before(db):
		return -1
	case da.After(db):
		return 1
	default:
		return 0
	}
}
