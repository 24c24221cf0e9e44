// Package sheetmirror maintains a local mirror of a remote spreadsheet's
// cell grid, addressed in A1 notation, with per-class rate limiting against
// the remote quota. Two mirror policies share one grid/codec core: the
// write-through AtomicSheet sends every mutation to the remote service
// before reflecting it locally, and the write-back CachedSheet works purely
// on the local grid until an explicit Push.
package sheetmirror

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// mirror is the state shared by both policies: the grid, the quota
// limiter, the remote binding, and the dirty flag. A mirror instance has a
// single logical owner; nothing here locks.
type mirror struct {
	remote Remote
	docID  string
	grid   *Grid
	lim    *limiter

	// dirty is set when a write has happened whose cached region has not
	// been shown consistent with an authoritative fetch. It is cleared
	// optimistically after each successful write or append; concurrent
	// external editors can still desync the cache, which is the
	// operator's documented risk, not this engine's.
	dirty     bool
	headerRow bool
	maxRows   int
	maxCols   int
}

func newMirror(remote Remote, docID string, opts ...Option) mirror {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return mirror{
		remote:    remote,
		docID:     docID,
		grid:      NewGrid(o.orientation),
		lim:       newLimiter(o.readQuota, o.writeQuota),
		headerRow: o.headerRow,
		maxRows:   o.maxRows,
		maxCols:   o.maxCols,
	}
}

// Grid exposes the local cache directly. Mutating it bypasses the mirror's
// consistency bookkeeping.
func (m *mirror) Grid() *Grid { return m.grid }

// DocumentID returns the remote document handle the mirror is bound to.
func (m *mirror) DocumentID() string { return m.docID }

// Dirty reports whether the cache may be stale relative to the remote
// document.
func (m *mirror) Dirty() bool { return m.dirty }

// Orientation returns the grid's current storage orientation.
func (m *mirror) Orientation() Orientation { return m.grid.Orientation() }

// HeaderRow reports whether row 1 is treated as a header.
func (m *mirror) HeaderRow() bool { return m.headerRow }

// maxRange is the bounded whole-document range, "A1:ZZ500" by default.
func (m *mirror) maxRange() string {
	name, err := ColToName(m.maxCols)
	if err != nil {
		name = "ZZ"
	}
	return fmt.Sprintf("A1:%s%d", name, m.maxRows)
}

// Coerce2D normalizes arbitrary write input into a rectangular block of
// strings. A bare scalar becomes a 1x1 block, a flat sequence a single row,
// and an empty sequence one empty row; nothing is rejected.
func Coerce2D(v any) [][]string {
	switch d := v.(type) {
	case [][]string:
		if len(d) == 0 {
			log.Debug("empty block passed to write, appending one empty row")
			return [][]string{{}}
		}
		return d
	case []string:
		if len(d) == 0 {
			return [][]string{{}}
		}
		log.Debug("wrapping flat row in a block to satisfy the update API")
		return [][]string{d}
	case string:
		return [][]string{{d}}
	case [][]any:
		out := make([][]string, len(d))
		for i, row := range d {
			out[i] = coerceRow(row)
		}
		if len(out) == 0 {
			return [][]string{{}}
		}
		return out
	case []any:
		if len(d) == 0 {
			return [][]string{{}}
		}
		if _, ok := d[0].([]any); ok {
			out := make([][]string, 0, len(d))
			for _, row := range d {
				inner, _ := row.([]any)
				out = append(out, coerceRow(inner))
			}
			return out
		}
		log.Debug("wrapping flat row in a block to satisfy the update API")
		return [][]string{coerceRow(d)}
	default:
		log.Debug("wrapping scalar in a 1x1 block to satisfy the update API")
		return [][]string{{cellString(v)}}
	}
}

func coerceRow(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = cellString(v)
	}
	return out
}

func cellString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}

// mergeCache merges a block whose top-left corner is rng.Start into the
// grid. The effective extent is re-derived from the data actually present,
// since the remote service truncates trailing empties; the declared end
// still bounds the expansion.
func (m *mirror) mergeCache(rng Range, data [][]string) error {
	if len(data) == 0 {
		data = [][]string{{""}}
	}
	if len(data) == 1 && len(data[0]) == 1 {
		m.grid.Set(rng.Start.Row, rng.Start.Col, data[0][0])
		return nil
	}
	eff := effectiveRange(rng, data, m.grid.Orientation())
	return m.grid.MergeRange(eff, data)
}

// effectiveRange shrinks or grows rng's end to match the block actually in
// hand, interpreted in the given major dimension.
func effectiveRange(rng Range, data [][]string, orient Orientation) Range {
	rows, cols := len(data), maxRowLen(data)
	if orient == ColumnMajor {
		rows, cols = cols, rows
	}
	return RangeFrom(rng.Start, rows, cols)
}

// readRangeCache serves a block from the grid only; used for cache hits
// and for all cached-mode reads.
func (m *mirror) readRangeCache(rng Range, orient Orientation) [][]string {
	return m.grid.Block(rng, orient)
}

// appendRowsCache appends rows locally and rectangularizes.
func (m *mirror) appendRowsCache(data [][]string) {
	m.grid.AppendRows(data)
}

// insertBlankRowsCache inserts blank rows logically after the 1-indexed
// row after; in storage terms they land before index after.
func (m *mirror) insertBlankRowsCache(after, end int) {
	log.Debugf("inserting %d blank row(s) after row %d", end-after, after)
	m.grid.InsertBlankRows(after, end)
}

// deleteRowsCache removes the 1-indexed row span [start, end).
func (m *mirror) deleteRowsCache(start, end int) {
	log.Debugf("deleting rows %d-%d, as storage indexes %d-%d", start, end-1, start-1, end-1)
	m.grid.DeleteRows(start-1, end-1)
}

// sortCache reorders local rows by the 1-indexed column, holding the
// header row in place when configured.
func (m *mirror) sortCache(col int, header bool) {
	m.grid.SortRows(col, header)
}
