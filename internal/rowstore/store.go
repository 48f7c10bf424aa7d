// Package rowstore abstracts the spreadsheet service the dashboards
// persist into: named sheets of positional rows, 1-based, with row 1
// reserved for column headers.
package rowstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Store is the row-level contract against the spreadsheet service. All
// calls are synchronous and are not retried; failures surface to the
// caller wrapped as StoreError.
type Store interface {
	// ReadAll returns every row of the sheet including the header row.
	ReadAll(ctx context.Context, sheet string) ([][]string, error)
	Append(ctx context.Context, sheet string, row []string) error
	// AppendAll appends all rows in a single call.
	AppendAll(ctx context.Context, sheet string, rows [][]string) error
	// UpdateCell writes one cell. row and col are 1-based.
	UpdateCell(ctx context.Context, sheet string, row, col int, value string) error
	// UpdateRange writes a rectangular block addressed in A1 notation,
	// e.g. "G5:K5".
	UpdateRange(ctx context.Context, sheet, a1Range string, values [][]string) error
	// DeleteRow removes a physical row (1-based) and shifts the rows
	// below it up.
	DeleteRow(ctx context.Context, sheet string, row int) error
}

// RecordRow maps a logical record position (0-based index into the
// header-stripped record list) to its physical sheet row. The header
// row makes the first record live at row 2.
func RecordRow(pos int) int {
	return pos + 2
}

// Records strips the header row from a ReadAll result.
func Records(rows [][]string) [][]string {
	if len(rows) <= 1 {
		return nil
	}
	return rows[1:]
}

// StoreError wraps any failure from the underlying spreadsheet call so
// handlers can distinguish store trouble from bad input.
type StoreError struct {
	Op    string
	Sheet string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("rowstore: %s %q: %v", e.Op, e.Sheet, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// ColumnLetter converts a 1-based column number to its A1 letter(s).
func ColumnLetter(col int) string {
	var b []byte
	for col > 0 {
		col--
		b = append([]byte{byte('A' + col%26)}, b...)
		col /= 26
	}
	return string(b)
}

// CellRef builds an A1 reference for a single cell, 1-based.
func CellRef(row, col int) string {
	return ColumnLetter(col) + strconv.Itoa(row)
}

// RowRange builds an A1 reference spanning columns startCol..endCol of
// one physical row, e.g. RowRange(5, 7, 11) == "G5:K5".
func RowRange(row, startCol, endCol int) string {
	return CellRef(row, startCol) + ":" + CellRef(row, endCol)
}

// parseCellRef splits an A1 cell reference into 1-based row and column.
func parseCellRef(ref string) (row, col int, err error) {
	i := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		col = col*26 + int(ref[i]-'A'+1)
		i++
	}
	if i == 0 || i == len(ref) {
		return 0, 0, fmt.Errorf("rowstore: bad cell reference %q", ref)
	}
	row, err = strconv.Atoi(ref[i:])
	if err != nil || row < 1 || col < 1 {
		return 0, 0, fmt.Errorf("rowstore: bad cell reference %q", ref)
	}
	return row, col, nil
}

// parseRange splits an A1 range such as "G5:K6" into its corners. A
// bare cell reference is treated as a 1x1 range.
func parseRange(a1 string) (r1, c1, r2, c2 int, err error) {
	first, second, found := strings.Cut(a1, ":")
	r1, c1, err = parseCellRef(first)
	if err != nil {
		return
	}
	if !found {
		return r1, c1, r1, c1, nil
	}
	r2, c2, err = parseCellRef(second)
	return
}
