// Package compose renders candidate notification emails from templates
// with bracketed merge tags, and runs review batches that pair each send
// with the status write recording it.
package compose

import (
	"strings"

	"interview_hosting/internal/records"
)

// Merge tags understood by the stock templates. Templates may carry any
// bracketed tag; tags with no field supplied are left verbatim so a
// malformed template degrades visibly instead of failing the batch.
const (
	TagCandidateName   = "INTERVIEWEE NAME"
	TagHostingDate     = "HOSTING DATE"
	TagHostName        = "HOST NAME"
	TagPreferenceTable = "PREFERENCE TABLE"
	TagSignature       = "SIGNATURE"
	TagPleaTable       = "PLEA TABLE"
	TagPleaSignature   = "PLEA SIGNATURE"
)

// Render substitutes each [TAG] with its field value. Unresolved tags stay
// in place.
func Render(template string, fields map[string]string) string {
	out := template
	for tag, value := range fields {
		out = strings.ReplaceAll(out, "["+tag+"]", value)
	}
	return out
}

// FirstName extracts the name a candidate goes by. Candidates often enter
// a preferred name in parentheses or quotes alongside their legal name;
// that wins over the first token.
func FirstName(fullName string) string {
	if open := strings.Index(fullName, "("); open >= 0 {
		if close_ := strings.Index(fullName[open+1:], ")"); close_ > 0 {
			return fullName[open+1 : open+1+close_]
		}
	}
	if open := strings.Index(fullName, `"`); open >= 0 {
		if close_ := strings.Index(fullName[open+1:], `"`); close_ > 0 {
			return fullName[open+1 : open+1+close_]
		}
	}
	first, _, _ := strings.Cut(fullName, " ")
	return first
}

// PreferenceTable renders the two-column HTML table of a candidate's
// hosting preferences, used by the receipt template's [PREFERENCE TABLE]
// tag.
func PreferenceTable(c records.Candidate) string {
	var sb strings.Builder
	sb.WriteString("<table>")
	for i, name := range records.FieldNames {
		sb.WriteString("<tr><td><b>")
		sb.WriteString(name)
		sb.WriteString("</b></td><td>")
		sb.WriteString(c.Field(records.ColCandidateName + i))
		sb.WriteString("</td></tr>")
	}
	sb.WriteString("</table>")
	return sb.String()
}

// PleaTable renders the anonymous table of candidates still needing a
// host (awaiting receipt or pairing), for the [PLEA TABLE] tag in the
// plea email to prospective hosts.
func PleaTable(candidates []records.Candidate) string {
	var sb strings.Builder
	sb.WriteString(`<table border="1" style="borderStyle:solid"><tr>`)
	for _, header := range []string{
		"Date of Hosting", "Interviewee Gender", "Alma Mater",
		"Preferred Host Gender", "Allergies", "Interest Groups",
	} {
		sb.WriteString("<th>")
		sb.WriteString(header)
		sb.WriteString("</th>")
	}
	sb.WriteString("</tr>")
	for _, c := range candidates {
		if c.Status != records.AwaitingReceiptConfirmation && c.Status != records.AwaitingHostPairing {
			continue
		}
		sb.WriteString(`<tr><td style="color:red">`)
		sb.WriteString(c.HostingDate)
		sb.WriteString("</td><td>")
		sb.WriteString(c.Gender)
		sb.WriteString("</td><td>")
		sb.WriteString(c.Undergrad)
		sb.WriteString("</td><td>")
		sb.WriteString(c.PreferredHostGender)
		sb.WriteString("</td><td>")
		sb.WriteString(c.Allergies)
		sb.WriteString("</td><td>")
		sb.WriteString(c.InterestGroups)
		sb.WriteString("</td></tr>")
	}
	sb.WriteString("</table>")
	return sb.String()
}
