// Package records models one row of the tracked candidate table as a typed
// value, replacing the parallel untyped arrays the spreadsheet hands back.
package records

import (
	"fmt"
	"strings"
)

// Tracked-table column indices (0-based within a sheet row).
const (
	ColHostName = iota
	ColCandidateName
	ColCandidateGender
	ColInterviewDate
	ColHostingDate
	ColCandidateEmail
	ColCandidatePhone
	ColUndergrad
	ColPreferredHostGender
	ColAllergies
	ColInterestGroups
	ColHostEmail
	ColStatus

	// TrackedColumnCount is the number of columns a fully promoted tracked
	// row carries (A through M).
	TrackedColumnCount = ColStatus + 1

	// IntakeColumnCount is the width of a fully processed intake row: the
	// last column (L) holds the copied flag.
	IntakeColumnCount = 12
)

// FieldNames labels the editable candidate fields (tracked columns B-K), in
// column order. Used for the preference table and the field editor.
var FieldNames = [...]string{
	"Interviewee Name",
	"Interviewee Gender",
	"Interview Date",
	"Hosting Date",
	"Interviewee Email",
	"Interviewee Phone",
	"Undergraduate School",
	"Preferred Host Gender",
	"Allergies",
	"Interest Groups",
}

// Candidate is one row of the tracked table. RowIndex is the 1-based sheet
// row the record came from; it is the record's identity for write-back and
// never changes once assigned.
type Candidate struct {
	HostName            string
	Name                string
	Gender              string
	InterviewDate       string
	HostingDate         string
	Email               string
	Phone               string
	Undergrad           string
	PreferredHostGender string
	Allergies           string
	InterestGroups      string
	HostEmail           string
	Status              Status
	RowIndex            int
}

// cellString renders a raw sheet cell as a trimmed-nil string the way the
// Sheets API hands cells back (interface{} values, absent cells missing).
func cellString(row []interface{}, col int) string {
	if col < len(row) && row[col] != nil {
		return fmt.Sprintf("%v", row[col])
	}
	return ""
}

// FromRow builds a Candidate from a raw tracked-table row. rowIndex is the
// 1-based position of the row in the sheet. A missing or blank status cell
// is treated as newly arrived (initial state); a malformed one is an error.
func FromRow(row []interface{}, rowIndex int) (Candidate, error) {
	status, err := ParseStatus(cellString(row, ColStatus))
	if err != nil {
		return Candidate{}, fmt.Errorf("row %d: %w", rowIndex, err)
	}
	return Candidate{
		HostName:            cellString(row, ColHostName),
		Name:                cellString(row, ColCandidateName),
		Gender:              cellString(row, ColCandidateGender),
		InterviewDate:       cellString(row, ColInterviewDate),
		HostingDate:         cellString(row, ColHostingDate),
		Email:               cellString(row, ColCandidateEmail),
		Phone:               cellString(row, ColCandidatePhone),
		Undergrad:           cellString(row, ColUndergrad),
		PreferredHostGender: cellString(row, ColPreferredHostGender),
		Allergies:           cellString(row, ColAllergies),
		InterestGroups:      cellString(row, ColInterestGroups),
		HostEmail:           cellString(row, ColHostEmail),
		Status:              status,
		RowIndex:            rowIndex,
	}, nil
}

// Field returns the tracked-table cell value for the given column index.
func (c Candidate) Field(col int) string {
	switch col {
	case ColHostName:
		return c.HostName
	case ColCandidateName:
		return c.Name
	case ColCandidateGender:
		return c.Gender
	case ColInterviewDate:
		return c.InterviewDate
	case ColHostingDate:
		return c.HostingDate
	case ColCandidateEmail:
		return c.Email
	case ColCandidatePhone:
		return c.Phone
	case ColUndergrad:
		return c.Undergrad
	case ColPreferredHostGender:
		return c.PreferredHostGender
	case ColAllergies:
		return c.Allergies
	case ColInterestGroups:
		return c.InterestGroups
	case ColHostEmail:
		return c.HostEmail
	case ColStatus:
		return c.Status.Cell()
	default:
		return ""
	}
}

// Complete reports whether every pairing-relevant field is filled in. Only
// complete records are eligible for a pairing email.
func (c Candidate) Complete() bool {
	for _, v := range []string{c.Name, c.HostingDate, c.Email, c.HostName, c.HostEmail} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}
