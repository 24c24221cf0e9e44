package sheetmirror

import (
	"sort"

	log "github.com/sirupsen/logrus"
)

// Orientation selects which dimension is the grid's outer (major) one.
type Orientation int

const (
	// RowMajor stores the grid as a slice of rows.
	RowMajor Orientation = iota
	// ColumnMajor stores the grid as a slice of columns.
	ColumnMajor
)

// MajorDimension returns the remote service's name for the orientation.
func (o Orientation) MajorDimension() string {
	if o == ColumnMajor {
		return "COLUMNS"
	}
	return "ROWS"
}

func (o Orientation) String() string { return o.MajorDimension() }

// Grid is an in-memory mirror of a block of cell values. Storage is a slice
// of major-dimension slices; all methods address cells by logical 0-indexed
// (row, col) and transpose at this boundary when the orientation is
// column-major, so callers stay orientation-agnostic.
//
// The orientation is a single flag over the whole storage. Flipping it does
// not transpose the data; it changes how existing storage is interpreted,
// which is exactly how the remote service's major-dimension parameter
// behaves. The mirror sets it from each call's declared orientation before
// touching the grid.
type Grid struct {
	cells  [][]string
	orient Orientation
}

// NewGrid returns an empty grid with the given storage orientation.
func NewGrid(orient Orientation) *Grid {
	return &Grid{orient: orient}
}

// Orientation returns the current storage orientation flag.
func (g *Grid) Orientation() Orientation { return g.orient }

// SetOrientation changes how the storage is interpreted. It does not move
// any data.
func (g *Grid) SetOrientation(o Orientation) { g.orient = o }

// store maps logical (row, col) to (outer, inner) storage indexes.
func (g *Grid) store(row, col int) (int, int) {
	if g.orient == ColumnMajor {
		return col, row
	}
	return row, col
}

// innerLen returns the padded length every inner slice is entitled to.
func (g *Grid) innerLen() int {
	n := 0
	for _, s := range g.cells {
		if len(s) > n {
			n = len(s)
		}
	}
	return n
}

// Rows returns the logical row count.
func (g *Grid) Rows() int {
	if g.orient == ColumnMajor {
		return g.innerLen()
	}
	return len(g.cells)
}

// Cols returns the logical column count.
func (g *Grid) Cols() int {
	if g.orient == ColumnMajor {
		return len(g.cells)
	}
	return g.innerLen()
}

// Rectangularize pads every major slice with empty cells so all share the
// maximum length. Idempotent.
func (g *Grid) Rectangularize() {
	maxLen := g.innerLen()
	for i, s := range g.cells {
		for len(s) < maxLen {
			s = append(s, "")
		}
		g.cells[i] = s
	}
}

// rectangularize pads a free-standing block in place and returns it.
func rectangularize(data [][]string) [][]string {
	maxLen := 0
	for _, row := range data {
		if len(row) > maxLen {
			maxLen = len(row)
		}
	}
	for i, row := range data {
		for len(row) < maxLen {
			row = append(row, "")
		}
		data[i] = row
	}
	return data
}

// ExpandTo grows the grid so the logical 0-indexed (row, col) becomes
// addressable, appending empty major slices and padding existing ones.
// It never shrinks and is a no-op when the cell is already covered.
func (g *Grid) ExpandTo(row, col int) {
	outer, inner := g.store(row, col)
	if outer < len(g.cells) && inner < g.innerLen() {
		g.Rectangularize()
		return
	}
	want := inner + 1
	if n := g.innerLen(); n > want {
		want = n
	}
	for len(g.cells) <= outer {
		g.cells = append(g.cells, make([]string, want))
	}
	for i, s := range g.cells {
		for len(s) < want {
			s = append(s, "")
		}
		g.cells[i] = s
	}
}

// Get returns the value at logical 1-indexed (row, col). Coordinates past
// the current extent read as the empty string; unpopulated trailing cells
// are common and not an error.
func (g *Grid) Get(row, col int) string {
	outer, inner := g.store(row-1, col-1)
	if outer < 0 || inner < 0 || outer >= len(g.cells) || inner >= len(g.cells[outer]) {
		return ""
	}
	return g.cells[outer][inner]
}

// Set writes the value at logical 1-indexed (row, col), growing the grid as
// needed.
func (g *Grid) Set(row, col int, value string) {
	g.ExpandTo(row-1, col-1)
	outer, inner := g.store(row-1, col-1)
	g.cells[outer][inner] = value
}

// MergeRange copies a block of values into the grid. The block's outer
// dimension follows the grid's current orientation and its top-left cell
// lands at rng.Start. The grid is first expanded to cover the range's
// bottom-right corner. A block that does not cover the declared range is an
// internal inconsistency: it is logged with full context and reported as a
// MergeOverflowError, never silently swallowed.
func (g *Grid) MergeRange(rng Range, data [][]string) error {
	if len(data) == 0 {
		data = [][]string{{""}}
	}
	g.ExpandTo(rng.End.Row-1, rng.End.Col-1)

	majorSpan, minorSpan := rng.Rows(), rng.Cols()
	majorStart, minorStart := rng.Start.Row-1, rng.Start.Col-1
	if g.orient == ColumnMajor {
		majorSpan, minorSpan = minorSpan, majorSpan
		majorStart, minorStart = minorStart, majorStart
	}

	for i := 0; i < majorSpan; i++ {
		for j := 0; j < minorSpan; j++ {
			if i >= len(data) || j >= len(data[i]) ||
				majorStart+i >= len(g.cells) || minorStart+j >= len(g.cells[majorStart+i]) {
				err := &MergeOverflowError{
					Range:    rng,
					GridRows: g.Rows(),
					GridCols: g.Cols(),
					DataRows: len(data),
					DataCols: maxRowLen(data),
				}
				log.WithFields(log.Fields{
					"range":    rng.String(),
					"gridRows": g.Rows(),
					"gridCols": g.Cols(),
					"dataRows": len(data),
					"dataCols": maxRowLen(data),
				}).Error("range merge overflow")
				return err
			}
			g.cells[majorStart+i][minorStart+j] = data[i][j]
		}
	}
	return nil
}

func maxRowLen(data [][]string) int {
	n := 0
	for _, row := range data {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

// Row returns a copy of the logical 1-indexed row, padded to the grid's
// column count.
func (g *Grid) Row(row int) []string {
	out := make([]string, g.Cols())
	for c := range out {
		out[c] = g.Get(row, c+1)
	}
	return out
}

// Column returns a copy of the logical 1-indexed column, padded to the
// grid's row count.
func (g *Grid) Column(col int) []string {
	out := make([]string, g.Rows())
	for r := range out {
		out[r] = g.Get(r+1, col)
	}
	return out
}

// Block returns a copy of the cells covered by rng. The returned slice's
// outer dimension follows orient, independent of the grid's storage
// orientation.
func (g *Grid) Block(rng Range, orient Orientation) [][]string {
	majorSpan, minorSpan := rng.Rows(), rng.Cols()
	if orient == ColumnMajor {
		majorSpan, minorSpan = minorSpan, majorSpan
	}
	out := make([][]string, majorSpan)
	for i := range out {
		out[i] = make([]string, minorSpan)
		for j := range out[i] {
			r, c := rng.Start.Row+i, rng.Start.Col+j
			if orient == ColumnMajor {
				r, c = rng.Start.Row+j, rng.Start.Col+i
			}
			out[i][j] = g.Get(r, c)
		}
	}
	return out
}

// AppendRows appends logical rows after the grid's current last row and
// rectangularizes.
func (g *Grid) AppendRows(data [][]string) {
	base := g.Rows()
	for i, row := range data {
		if len(row) == 0 {
			g.ExpandTo(base+i, 0)
			continue
		}
		for j, v := range row {
			g.Set(base+i+1, j+1, v)
		}
	}
	g.Rectangularize()
}

// InsertBlankRows inserts end-at blank, fully padded logical rows before
// the 0-indexed storage row at. Existing rows shift down.
func (g *Grid) InsertBlankRows(at, end int) {
	if end <= at {
		return
	}
	g.Rectangularize()
	count := end - at
	if g.orient == ColumnMajor {
		for i, col := range g.cells {
			padded := make([]string, 0, len(col)+count)
			padded = append(padded, col[:min(at, len(col))]...)
			for n := 0; n < count; n++ {
				padded = append(padded, "")
			}
			padded = append(padded, col[min(at, len(col)):]...)
			g.cells[i] = padded
		}
		return
	}
	width := g.innerLen()
	if at > len(g.cells) {
		at = len(g.cells)
	}
	blanks := make([][]string, count)
	for i := range blanks {
		blanks[i] = make([]string, width)
	}
	g.cells = append(g.cells[:at], append(blanks, g.cells[at:]...)...)
}

// DeleteRows removes the 0-indexed storage row span [start, end) and shifts
// later rows up.
func (g *Grid) DeleteRows(start, end int) {
	if end <= start {
		return
	}
	if g.orient == ColumnMajor {
		for i, col := range g.cells {
			if start >= len(col) {
				continue
			}
			if end > len(col) {
				g.cells[i] = col[:start]
				continue
			}
			g.cells[i] = append(col[:start], col[end:]...)
		}
		return
	}
	if start >= len(g.cells) {
		return
	}
	if end > len(g.cells) {
		end = len(g.cells)
	}
	g.cells = append(g.cells[:start], g.cells[end:]...)
}

// SortRows reorders logical rows ascending by the value in the 1-indexed
// column. With header set, row 1 stays in place and only the remainder is
// sorted. The sort is stable.
func (g *Grid) SortRows(col int, header bool) {
	g.Rectangularize()
	rows := make([][]string, g.Rows())
	for r := range rows {
		rows[r] = g.Row(r + 1)
	}
	body := rows
	if header && len(rows) > 0 {
		body = rows[1:]
	}
	sort.SliceStable(body, func(i, j int) bool {
		return cellIn(body[i], col) < cellIn(body[j], col)
	})
	for r, row := range rows {
		for c, v := range row {
			g.Set(r+1, c+1, v)
		}
	}
}

func cellIn(row []string, col int) string {
	if col-1 < len(row) {
		return row[col-1]
	}
	return ""
}

// Data returns the underlying storage slices in major order. The caller
// must not grow or shrink them; values are shared with the grid.
func (g *Grid) Data() [][]string {
	return g.cells
}

// Reset drops all cached cells, keeping the orientation flag.
func (g *Grid) Reset() {
	g.cells = nil
}

// Empty reports whether the grid holds no cells at all.
func (g *Grid) Empty() bool {
	return len(g.cells) == 0
}

// TrimTrailing returns the list with trailing empty-string cells removed.
func TrimTrailing(list []string) []string {
	for len(list) > 0 && list[len(list)-1] == "" {
		list = list[:len(list)-1]
	}
	return list
}
