package sheetmirror

import (
	"fmt"
	"strconv"
	"strings"
)

// CellRef is a single cell position in A1 terms: both Col and Row are
// 1-indexed, matching what the remote service shows its users. The grid
// converts to 0-indexed storage at its own boundary.
type CellRef struct {
	Col int
	Row int
}

// ColToName converts a 1-indexed column number to its letter name.
// 1→"A", 26→"Z", 27→"AA", 52→"AZ", 53→"BA".
func ColToName(col int) (string, error) {
	if col < 1 {
		return "", fmt.Errorf("%w: %d, must be at least 1", ErrInvalidColumn, col)
	}
	name := ""
	for col > 0 {
		rem := col % 26
		if rem == 0 {
			// There is no digit for zero in this alphabet; 26 is written
			// "Z" with a borrow from the next position.
			rem = 26
		}
		name = string(rune('A'+rem-1)) + name
		col = (col - rem) / 26
	}
	return name, nil
}

// NameToCol converts column letters to a 1-indexed column number.
// "A"→1, "Z"→26, "AA"→27. Lowercase input is accepted.
func NameToCol(name string) (int, error) {
	name = strings.ToUpper(name)
	if name == "" {
		return 0, fmt.Errorf("%w: empty column name", ErrInvalidColumn)
	}
	col := 0
	for _, ch := range name {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidColumn, name)
		}
		col = col*26 + int(ch-'A') + 1
	}
	return col, nil
}

// ParseCellRef parses a cell token like "B7" into its 1-indexed column and
// row. The token must be a leading run of letters followed by a run of
// digits; anything else is malformed.
func ParseCellRef(s string) (CellRef, error) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && isAlpha(s[i]) {
		i++
	}
	if i == 0 || i == len(s) {
		return CellRef{}, fmt.Errorf("%w: %q", ErrMalformedRange, s)
	}
	col, err := NameToCol(s[:i])
	if err != nil {
		return CellRef{}, fmt.Errorf("%w: %q", ErrMalformedRange, s)
	}
	row, err := strconv.Atoi(s[i:])
	if err != nil || row < 1 {
		return CellRef{}, fmt.Errorf("%w: %q", ErrMalformedRange, s)
	}
	return CellRef{Col: col, Row: row}, nil
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// String formats the reference in canonical A1 notation.
func (c CellRef) String() string {
	name, err := ColToName(c.Col)
	if err != nil {
		return fmt.Sprintf("!invalid(%d,%d)", c.Col, c.Row)
	}
	return name + strconv.Itoa(c.Row)
}

// Range is a rectangular block of cells, inclusive on both ends. A single
// cell is the degenerate range with Start == End.
type Range struct {
	Start CellRef
	End   CellRef
}

// ParseRange parses "B2:D5" into a Range. A bare cell token parses into the
// degenerate single-cell range.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	start, end, found := strings.Cut(s, ":")
	first, err := ParseCellRef(start)
	if err != nil {
		return Range{}, err
	}
	if !found {
		return Range{Start: first, End: first}, nil
	}
	last, err := ParseCellRef(end)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: first, End: last}, nil
}

// RangeFrom builds the range covering rows x cols cells with its top-left
// corner at start.
func RangeFrom(start CellRef, rows, cols int) Range {
	return Range{
		Start: start,
		End:   CellRef{Col: start.Col + cols - 1, Row: start.Row + rows - 1},
	}
}

// String formats the range in A1 notation; degenerate ranges format as the
// bare cell.
func (r Range) String() string {
	if r.Start == r.End {
		return r.Start.String()
	}
	return r.Start.String() + ":" + r.End.String()
}

// Rows returns the number of rows the range spans.
func (r Range) Rows() int {
	return r.End.Row - r.Start.Row + 1
}

// Cols returns the number of columns the range spans.
func (r Range) Cols() int {
	return r.End.Col - r.Start.Col + 1
}

// Contains reports whether the cell lies inside the range.
func (r Range) Contains(c CellRef) bool {
	return c.Row >= r.Start.Row && c.Row <= r.End.Row &&
		c.Col >= r.Start.Col && c.Col <= r.End.Col
}
