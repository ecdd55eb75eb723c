package sheets

import "fmt"

// ColumnLetter converts a 0-based column index to its A1-notation letters
// (0 -> "A", 25 -> "Z", 26 -> "AA").
func ColumnLetter(col int) string {
	letters := ""
	for col >= 0 {
		letters = string(rune('A'+col%26)) + letters
		col = col/26 - 1
	}
	return letters
}

// CellRange builds the single-cell A1 range for a sheet, 0-based column and
// 1-based row, e.g. CellRange("Sheet2", 12, 7) -> "Sheet2!M7". This exact
// addressing convention is what the backing store expects.
func CellRange(sheet string, col, row int) string {
	return fmt.Sprintf("%s!%s%d", sheet, ColumnLetter(col), row)
}

// RowRange builds the A1 range covering one full row across width columns,
// e.g. RowRange("Sheet2", 7, 13) -> "Sheet2!A7:M7".
func RowRange(sheet string, row, width int) string {
	return fmt.Sprintf("%s!A%d:%s%d", sheet, row, ColumnLetter(width-1), row)
}
