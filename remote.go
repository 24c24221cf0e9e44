package sheetmirror

import "context"

// ReadOptions control how the remote service renders fetched values. The
// zero value asks for unformatted values with dates rendered as strings.
type ReadOptions struct {
	// Formatted requests values as the user sees them rather than the
	// underlying typed values.
	Formatted bool
	// DateAsSerial requests date cells as serial numbers instead of
	// formatted strings.
	DateAsSerial bool
	// Orientation declares the major dimension of the returned block.
	Orientation Orientation
}

// Remote is the boundary to the service hosting the document. All
// operations address a document by its opaque handle and values as
// rectangular blocks in the declared major dimension. An empty or
// malformed payload is "no data" (nil, nil), not an error; only transport
// failures surface as errors. Implementations must not retry: the mirror
// leaves its cache untouched when a call fails, and retries are the
// caller's policy.
type Remote interface {
	// GetValues fetches the values covered by rng. The service may
	// truncate trailing empty rows and columns; callers re-derive the
	// effective extent from the data actually returned.
	GetValues(ctx context.Context, docID, rng string, opts ReadOptions) ([][]string, error)

	// UpdateValues writes a block whose top-left corner is rng's start.
	UpdateValues(ctx context.Context, docID, rng string, orient Orientation, values [][]string) error

	// AppendValues appends rows after the document's last occupied row,
	// as determined by the service.
	AppendValues(ctx context.Context, docID string, values [][]string) error

	// DeleteRows removes the 0-indexed row span [start, end) and shifts
	// later rows up.
	DeleteRows(ctx context.Context, docID string, start, end int) error

	// InsertRows inserts end-start blank rows before the 0-indexed row
	// start.
	InsertRows(ctx context.Context, docID string, start, end int) error

	// SortRows sorts the document ascending by the 0-indexed column,
	// leaving the first row in place when skipHeader is set.
	SortRows(ctx context.Context, docID string, col int, skipHeader bool) error

	// ClearRows deletes the first rows rows including their formatting.
	ClearRows(ctx context.Context, docID string, rows int) error

	// FormatHeaderRow shades, bolds, and freezes the first row.
	FormatHeaderRow(ctx context.Context, docID string) error

	// FormatBold renders the range bold 12pt, left aligned.
	FormatBold(ctx context.Context, docID string, rng Range) error
}

// Locator resolves a human-readable document name to a remote handle.
type Locator interface {
	// Find returns the handle of the named document, or "" when no such
	// document exists.
	Find(ctx context.Context, name string) (string, error)

	// Create makes a new document with the given title and returns its
	// handle.
	Create(ctx context.Context, name string) (string, error)
}

// GetOrCreate resolves name through the locator, creating the document
// when absent.
func GetOrCreate(ctx context.Context, loc Locator, name string) (string, error) {
	id, err := loc.Find(ctx, name)
	if err != nil || id != "" {
		return id, err
	}
	return loc.Create(ctx, name)
}
