package records

import "fmt"

// Kind names one of the four status-filtered projections of the tracked
// table.
type Kind int

const (
	KindReceipt Kind = iota // status 0, awaiting receipt confirmation
	KindPairing             // status 1, awaiting host pairing
	KindDone                // status 2, paired
	KindIgnored             // status 3, ignore/duplicate list
)

func (k Kind) String() string {
	switch k {
	case KindReceipt:
		return "receipt"
	case KindPairing:
		return "pairing"
	case KindDone:
		return "done"
	case KindIgnored:
		return "ignored"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Status returns the status value the projection filters on.
func (k Kind) Status() Status {
	return Status(k)
}

// Receipt and ignored views expose three data columns; pairing and done
// views expose five. Each map entry is the tracked-table column behind the
// corresponding view column.
var (
	threeColumnMap = []int{ColHostingDate, ColCandidateName, ColCandidateEmail}
	fiveColumnMap  = []int{ColHostName, ColHostEmail, ColHostingDate, ColCandidateName, ColCandidateEmail}
)

// ViewColumns returns the tracked-table columns backing the view columns of
// a projection kind, in view order.
func ViewColumns(kind Kind) []int {
	switch kind {
	case KindReceipt, KindIgnored:
		return threeColumnMap
	default:
		return fiveColumnMap
	}
}

// ViewRow is one projection row as presented for batch editing: the view
// cells plus the backing sheet row index.
type ViewRow struct {
	RowIndex int
	Cells    []string
}

// View projects a candidate onto the view columns of the given kind.
func View(kind Kind, c Candidate) ViewRow {
	cols := ViewColumns(kind)
	cells := make([]string, len(cols))
	for i, col := range cols {
		cells[i] = c.Field(col)
	}
	return ViewRow{RowIndex: c.RowIndex, Cells: cells}
}

// Projection is a status-filtered, date-ordered view of the tracked table.
// It is rebuilt wholesale on every sync and never mutated in place.
type Projection struct {
	Kind       Kind
	Candidates []Candidate
}

// ViewRows renders the projection for batch editing. The result is a fresh
// copy each call; edits to it never touch the synced snapshot.
func (p Projection) ViewRows() []ViewRow {
	rows := make([]ViewRow, len(p.Candidates))
	for i, c := range p.Candidates {
		rows[i] = View(p.Kind, c)
	}
	return rows
}

// Clone returns a deep copy so callers can hold a projection across a
// refresh without seeing it change underneath them.
func (p Projection) Clone() Projection {
	out := Projection{Kind: p.Kind, Candidates: make([]Candidate, len(p.Candidates))}
	copy(out.Candidates, p.Candidates)
	return out
}
