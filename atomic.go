package sheetmirror

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// AtomicSheet is the write-through mirror: every mutating call goes to the
// remote document first and is reflected locally only after it succeeds,
// so the remote is always at least as fresh as every completed write.
// Reads serve from the cache when it is clean and fetch otherwise.
type AtomicSheet struct {
	mirror
}

// NewAtomicSheet binds a write-through mirror to an existing document
// handle. The grid starts empty and is populated lazily.
func NewAtomicSheet(remote Remote, docID string, opts ...Option) *AtomicSheet {
	return &AtomicSheet{mirror: newMirror(remote, docID, opts...)}
}

// NewAtomicSheetByName resolves (or creates) the named document through
// the locator and binds a write-through mirror to it.
func NewAtomicSheetByName(ctx context.Context, remote Remote, loc Locator, name string, opts ...Option) (*AtomicSheet, error) {
	id, err := GetOrCreate(ctx, loc, name)
	if err != nil {
		return nil, fmt.Errorf("resolve document %q: %w", name, err)
	}
	if id == "" {
		return nil, fmt.Errorf("%w: %q", ErrNoRemoteDocument, name)
	}
	return NewAtomicSheet(remote, id, opts...), nil
}

// WriteRange writes a block whose top-left corner is the range's start.
// Input is coerced per the documented contract (scalar → 1x1, flat
// sequence → single row). On remote failure the local grid is untouched.
func (s *AtomicSheet) WriteRange(ctx context.Context, rng string, data any, orient Orientation) error {
	block := rectangularize(Coerce2D(data))
	r, err := ParseRange(rng)
	if err != nil {
		return err
	}
	log.Debugf("updating %s with %dx%d block", r, len(block), maxRowLen(block))
	s.dirty = true
	s.grid.SetOrientation(orient)
	s.lim.permit(classWrite)
	if err := s.remote.UpdateValues(ctx, s.docID, r.String(), orient, block); err != nil {
		return err
	}
	if err := s.mergeCache(r, block); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// WriteCell writes a single value at a cell reference like "B7".
func (s *AtomicSheet) WriteCell(ctx context.Context, cell string, value any) error {
	ref, err := ParseCellRef(cell)
	if err != nil {
		return err
	}
	return s.WriteCellAt(ctx, ref.Row, ref.Col, value)
}

// WriteCellAt writes a single value at the 1-indexed (row, col).
func (s *AtomicSheet) WriteCellAt(ctx context.Context, row, col int, value any) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("%w: cell (%d,%d)", ErrMalformedRange, row, col)
	}
	return s.WriteRange(ctx, CellRef{Col: col, Row: row}.String(), [][]string{{cellString(value)}}, s.grid.Orientation())
}

// AppendRow appends rows after the document's last occupied row, as
// determined by the service, then mirrors them locally. Only defined in
// row-major orientation.
func (s *AtomicSheet) AppendRow(ctx context.Context, data any) error {
	if s.grid.Orientation() == ColumnMajor {
		return fmt.Errorf("%w: append rows in column-major mode", ErrUnsupportedOrientation)
	}
	block := rectangularize(Coerce2D(data))
	s.dirty = true
	s.lim.permit(classWrite)
	if err := s.remote.AppendValues(ctx, s.docID, block); err != nil {
		return err
	}
	s.appendRowsCache(block)
	s.dirty = false
	return nil
}

// ReadRange returns the block covered by rng. A clean cache is
// authoritative and served locally; otherwise the range is fetched,
// its effective extent re-derived from the data actually returned, merged
// into the grid, and returned. An empty response normalizes to one empty
// cell.
func (s *AtomicSheet) ReadRange(ctx context.Context, rng string, opts ReadOptions) ([][]string, error) {
	r, err := ParseRange(rng)
	if err != nil {
		return nil, err
	}
	if !s.grid.Empty() && !s.dirty {
		return s.readRangeCache(r, opts.Orientation), nil
	}
	return s.fetchRange(ctx, r, opts)
}

// fetchRange pulls rng from the remote and reconciles the grid.
func (s *AtomicSheet) fetchRange(ctx context.Context, r Range, opts ReadOptions) ([][]string, error) {
	log.Debugf("fetching range %s", r)
	s.lim.permit(classRead)
	s.grid.SetOrientation(opts.Orientation)
	raw, err := s.remote.GetValues(ctx, s.docID, r.String(), opts)
	if err != nil {
		return nil, err
	}
	data := rectangularize(raw)
	if len(data) == 0 {
		// Usually a blank row or column: synthesize the blank cells so
		// merge arithmetic stays regular.
		minor := r.Cols()
		if opts.Orientation == ColumnMajor {
			minor = r.Rows()
		}
		if minor < 1 {
			minor = 1
		}
		blank := make([]string, minor)
		data = [][]string{blank}
	}
	eff := effectiveRange(r, data, opts.Orientation)
	log.Debugf("requested %s, caching effective range %s", r, eff)
	if err := s.mergeCache(eff, data); err != nil {
		return nil, err
	}
	return data, nil
}

// ReadAll fetches the whole document up to the configured maximum extent
// and replaces the grid with it, after which the cache is clean.
func (s *AtomicSheet) ReadAll(ctx context.Context, opts ReadOptions) ([][]string, error) {
	s.lim.permit(classRead)
	s.grid.SetOrientation(opts.Orientation)
	raw, err := s.remote.GetValues(ctx, s.docID, s.maxRange(), opts)
	if err != nil {
		return nil, err
	}
	s.grid.Reset()
	if err := s.mergeCache(Range{Start: CellRef{Col: 1, Row: 1}, End: CellRef{Col: 1, Row: 1}}, rectangularize(raw)); err != nil {
		return nil, err
	}
	s.dirty = false
	return s.grid.Data(), nil
}

// ReadCell returns the value at a cell reference like "B7".
func (s *AtomicSheet) ReadCell(ctx context.Context, cell string, opts ReadOptions) (string, error) {
	ref, err := ParseCellRef(cell)
	if err != nil {
		return "", err
	}
	return s.ReadCellAt(ctx, ref.Row, ref.Col, opts)
}

// ReadCellAt returns the value at the 1-indexed (row, col). Cells beyond
// the sheet's extent read as empty.
func (s *AtomicSheet) ReadCellAt(ctx context.Context, row, col int, opts ReadOptions) (string, error) {
	if row < 1 || col < 1 {
		return "", fmt.Errorf("%w: cell (%d,%d)", ErrMalformedRange, row, col)
	}
	if !s.grid.Empty() && !s.dirty {
		return s.grid.Get(row, col), nil
	}
	ref := CellRef{Col: col, Row: row}
	data, err := s.fetchRange(ctx, Range{Start: ref, End: ref}, opts)
	if err != nil {
		return "", err
	}
	if len(data) == 0 || len(data[0]) == 0 {
		return "", nil
	}
	return data[0][0], nil
}

// ReadRow returns the 1-indexed row, padded to the grid's column count.
func (s *AtomicSheet) ReadRow(ctx context.Context, row int, opts ReadOptions) ([]string, error) {
	if row < 1 {
		return nil, fmt.Errorf("%w: row %d", ErrMalformedRange, row)
	}
	if s.grid.Empty() {
		if _, err := s.ReadAll(ctx, opts); err != nil {
			return nil, err
		}
	}
	if s.dirty {
		log.Debug("cache dirty, re-fetching row")
		name, _ := ColToName(s.maxCols)
		rng := fmt.Sprintf("A%d:%s%d", row, name, row)
		if _, err := s.ReadRange(ctx, rng, opts); err != nil {
			return nil, err
		}
	}
	return s.grid.Row(row), nil
}

// ReadColumn returns the 1-indexed column, padded to the grid's row count.
func (s *AtomicSheet) ReadColumn(ctx context.Context, col int, opts ReadOptions) ([]string, error) {
	name, err := ColToName(col)
	if err != nil {
		return nil, err
	}
	if s.grid.Empty() {
		if _, err := s.ReadAll(ctx, opts); err != nil {
			return nil, err
		}
	}
	if s.dirty {
		log.Debugf("cache dirty, re-fetching column %s", name)
		rng := fmt.Sprintf("%s1:%s%d", name, name, s.maxRows)
		if _, err := s.ReadRange(ctx, rng, opts); err != nil {
			return nil, err
		}
	}
	return s.grid.Column(col), nil
}

// DeleteRow deletes the single 1-indexed row.
func (s *AtomicSheet) DeleteRow(ctx context.Context, row int) error {
	return s.DeleteRows(ctx, row, row+1)
}

// DeleteRows deletes the 1-indexed row span [start, end), shifting later
// rows up remotely and locally.
func (s *AtomicSheet) DeleteRows(ctx context.Context, start, end int) error {
	if start < 1 || end <= start {
		return fmt.Errorf("%w: row span [%d,%d)", ErrMalformedRange, start, end)
	}
	s.lim.permit(classWrite)
	if err := s.remote.DeleteRows(ctx, s.docID, start-1, end-1); err != nil {
		return err
	}
	s.deleteRowsCache(start, end)
	return nil
}

// DeleteAll removes every row, data and formatting, and resets the grid.
func (s *AtomicSheet) DeleteAll(ctx context.Context) error {
	rows := s.grid.Rows()
	if rows == 0 {
		return nil
	}
	s.lim.permit(classWrite)
	if err := s.remote.ClearRows(ctx, s.docID, rows); err != nil {
		return err
	}
	s.grid.Reset()
	return nil
}

// InsertBlankRow inserts one blank row logically after the 1-indexed row.
func (s *AtomicSheet) InsertBlankRow(ctx context.Context, after int) error {
	return s.InsertBlankRows(ctx, after, after+1)
}

// InsertBlankRows inserts end-after blank rows logically after the
// 1-indexed row after. In storage terms the insert happens before index
// after, which is what places the blanks after that row.
func (s *AtomicSheet) InsertBlankRows(ctx context.Context, after, end int) error {
	if after < 0 || end <= after {
		return fmt.Errorf("%w: row span [%d,%d)", ErrMalformedRange, after, end)
	}
	s.lim.permit(classWrite)
	if err := s.remote.InsertRows(ctx, s.docID, after, end); err != nil {
		return err
	}
	s.insertBlankRowsCache(after, end)
	return nil
}

// SortByColumn sorts rows ascending by the 1-indexed column, remotely and
// locally. With hasHeader set, row 1 stays in place.
func (s *AtomicSheet) SortByColumn(ctx context.Context, col int, hasHeader bool) error {
	name, err := ColToName(col)
	if err != nil {
		return err
	}
	log.Debugf("sorting on column %d (%s)", col, name)
	s.lim.permit(classWrite)
	if err := s.remote.SortRows(ctx, s.docID, col-1, hasHeader); err != nil {
		return err
	}
	s.sortCache(col, hasHeader)
	return nil
}

// FormatHeaderRow shades, bolds, and freezes row 1 on the remote document
// and marks the mirror as header-bearing for sorts and filters.
func (s *AtomicSheet) FormatHeaderRow(ctx context.Context) error {
	log.Debug("setting row 1 as header row")
	s.lim.permit(classWrite)
	if err := s.remote.FormatHeaderRow(ctx, s.docID); err != nil {
		return err
	}
	s.headerRow = true
	return nil
}

// FormatBold renders the 1-indexed range bold 12pt, left aligned.
func (s *AtomicSheet) FormatBold(ctx context.Context, rng string) error {
	r, err := ParseRange(rng)
	if err != nil {
		return err
	}
	s.lim.permit(classWrite)
	return s.remote.FormatBold(ctx, s.docID, r)
}
