package sheetmirror

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// CachedSheet is the write-back mirror: it assumes exclusive ownership of
// the remote document for the session, fetches the whole document once at
// construction, and then serves every read and write from the local grid
// with no remote calls and no rate limiting. Push is the only point where
// local and remote state are reconciled; any external edits made in
// between are clobbered. Much faster than the atomic mirror, and riskier.
type CachedSheet struct {
	mirror
}

// NewCachedSheet binds a write-back mirror to an existing document handle
// and eagerly fetches the document up to the configured maximum extent.
func NewCachedSheet(ctx context.Context, remote Remote, docID string, opts ...Option) (*CachedSheet, error) {
	if docID == "" {
		return nil, ErrNoRemoteDocument
	}
	s := &CachedSheet{mirror: newMirror(remote, docID, opts...)}
	if err := s.fetchAll(ctx); err != nil {
		return nil, fmt.Errorf("load document %q: %w", docID, err)
	}
	return s, nil
}

// NewCachedSheetByName resolves (or creates) the named document through
// the locator and binds a write-back mirror to it.
func NewCachedSheetByName(ctx context.Context, remote Remote, loc Locator, name string, opts ...Option) (*CachedSheet, error) {
	id, err := GetOrCreate(ctx, loc, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrNoRemoteDocument, name, err)
	}
	if id == "" {
		return nil, fmt.Errorf("%w: %q", ErrNoRemoteDocument, name)
	}
	return NewCachedSheet(ctx, remote, id, opts...)
}

// fetchAll loads the bounded whole-document range into the grid.
func (s *CachedSheet) fetchAll(ctx context.Context) error {
	s.lim.permit(classRead)
	raw, err := s.remote.GetValues(ctx, s.docID, s.maxRange(), ReadOptions{Orientation: s.grid.Orientation()})
	if err != nil {
		return err
	}
	s.grid.Reset()
	data := rectangularize(raw)
	if len(data) == 0 {
		return nil
	}
	return s.mergeCache(Range{Start: CellRef{Col: 1, Row: 1}, End: CellRef{Col: 1, Row: 1}}, data)
}

// WriteRange writes a block into the local grid only, with the same input
// coercion as the atomic mirror.
func (s *CachedSheet) WriteRange(rng string, data any, orient Orientation) error {
	block := rectangularize(Coerce2D(data))
	r, err := ParseRange(rng)
	if err != nil {
		return err
	}
	s.grid.SetOrientation(orient)
	return s.mergeCache(r, block)
}

// WriteCell writes a single value at a cell reference like "B7".
func (s *CachedSheet) WriteCell(cell string, value any) error {
	ref, err := ParseCellRef(cell)
	if err != nil {
		return err
	}
	return s.WriteCellAt(ref.Row, ref.Col, value)
}

// WriteCellAt writes a single value at the 1-indexed (row, col).
func (s *CachedSheet) WriteCellAt(row, col int, value any) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("%w: cell (%d,%d)", ErrMalformedRange, row, col)
	}
	s.grid.Set(row, col, cellString(value))
	return nil
}

// AppendRow appends rows after the grid's last row. Only defined in
// row-major orientation.
func (s *CachedSheet) AppendRow(data any) error {
	if s.grid.Orientation() == ColumnMajor {
		return fmt.Errorf("%w: append rows in column-major mode", ErrUnsupportedOrientation)
	}
	s.appendRowsCache(rectangularize(Coerce2D(data)))
	return nil
}

// ReadRange returns the block covered by rng from the local grid.
func (s *CachedSheet) ReadRange(rng string, orient Orientation) ([][]string, error) {
	r, err := ParseRange(rng)
	if err != nil {
		return nil, err
	}
	return s.readRangeCache(r, orient), nil
}

// ReadCell returns the value at a cell reference like "B7".
func (s *CachedSheet) ReadCell(cell string) (string, error) {
	ref, err := ParseCellRef(cell)
	if err != nil {
		return "", err
	}
	return s.grid.Get(ref.Row, ref.Col), nil
}

// ReadCellAt returns the value at the 1-indexed (row, col).
func (s *CachedSheet) ReadCellAt(row, col int) string {
	return s.grid.Get(row, col)
}

// ReadRow returns the 1-indexed row from the local grid.
func (s *CachedSheet) ReadRow(row int) []string {
	return s.grid.Row(row)
}

// ReadColumn returns the 1-indexed column from the local grid.
func (s *CachedSheet) ReadColumn(col int) []string {
	return s.grid.Column(col)
}

// DeleteRow deletes the single 1-indexed row locally.
func (s *CachedSheet) DeleteRow(row int) error {
	return s.DeleteRows(row, row+1)
}

// DeleteRows deletes the 1-indexed row span [start, end) locally.
func (s *CachedSheet) DeleteRows(start, end int) error {
	if start < 1 || end <= start {
		return fmt.Errorf("%w: row span [%d,%d)", ErrMalformedRange, start, end)
	}
	s.deleteRowsCache(start, end)
	return nil
}

// DeleteAll drops every locally cached cell.
func (s *CachedSheet) DeleteAll() {
	s.grid.Reset()
}

// InsertBlankRow inserts one blank row logically after the 1-indexed row.
func (s *CachedSheet) InsertBlankRow(after int) error {
	return s.InsertBlankRows(after, after+1)
}

// InsertBlankRows inserts end-after blank rows logically after the
// 1-indexed row after, locally.
func (s *CachedSheet) InsertBlankRows(after, end int) error {
	if after < 0 || end <= after {
		return fmt.Errorf("%w: row span [%d,%d)", ErrMalformedRange, after, end)
	}
	s.insertBlankRowsCache(after, end)
	return nil
}

// SortByColumn sorts local rows ascending by the 1-indexed column. With
// hasHeader set, row 1 stays in place.
func (s *CachedSheet) SortByColumn(col int, hasHeader bool) error {
	if _, err := ColToName(col); err != nil {
		return err
	}
	s.sortCache(col, hasHeader)
	return nil
}

// Push reconciles the remote document with the local grid: it computes the
// grid's bounding rectangle, clears that many remote rows including
// formatting, and rewrites the whole grid in one bulk update. This is the
// only moment the remote document reflects cached-mode writes; call it
// before treating the remote as authoritative.
func (s *CachedSheet) Push(ctx context.Context) error {
	rows, cols := s.grid.Rows(), s.grid.Cols()
	if rows == 0 || cols == 0 {
		log.Debug("push with an empty grid, nothing to reconcile")
		return nil
	}
	name, err := ColToName(cols)
	if err != nil {
		return err
	}
	s.lim.permit(classWrite)
	if err := s.remote.ClearRows(ctx, s.docID, rows); err != nil {
		return err
	}
	rng := fmt.Sprintf("A1:%s%d", name, rows)
	log.Debugf("pushing %dx%d grid to %s", rows, cols, rng)
	s.lim.permit(classWrite)
	return s.remote.UpdateValues(ctx, s.docID, rng, s.grid.Orientation(), s.grid.Data())
}
