package records

import "fmt"

// Status is a candidate's position in the hosting workflow. The backing
// sheet stores it as an ASCII digit in the status column; it only exists as
// a digit string at that boundary.
type Status int

const (
	// AwaitingReceiptConfirmation: the host request arrived and no receipt
	// email has gone out yet. Assigned to every newly promoted intake row.
	AwaitingReceiptConfirmation Status = iota
	// AwaitingHostPairing: receipt confirmed, no host assigned yet.
	AwaitingHostPairing
	// Paired: the candidate has been told who their host is.
	Paired
	// Ignored: removed from the active workflow (duplicate or cancelled).
	// Reversible by manual override only.
	Ignored
)

func (s Status) String() string {
	switch s {
	case AwaitingReceiptConfirmation:
		return "awaiting_receipt_confirmation"
	case AwaitingHostPairing:
		return "awaiting_host_pairing"
	case Paired:
		return "paired"
	case Ignored:
		return "ignored"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Cell returns the digit string persisted in the status column.
func (s Status) Cell() string {
	return fmt.Sprintf("%d", int(s))
}

// ParseStatus decodes a status cell. A blank cell is a newly arrived row
// and defaults to the initial state.
func ParseStatus(cell string) (Status, error) {
	switch cell {
	case "", "0":
		return AwaitingReceiptConfirmation, nil
	case "1":
		return AwaitingHostPairing, nil
	case "2":
		return Paired, nil
	case "3":
		return Ignored, nil
	default:
		return AwaitingReceiptConfirmation, fmt.Errorf("unrecognized status cell %q", cell)
	}
}
