package sheetmirror

// Default bounded extent for whole-document fetches: "A1:ZZ500".
const (
	DefaultMaxRows = 500
	DefaultMaxCols = 702 // "ZZ"
)

// Options holds configuration for a mirror.
type Options struct {
	readQuota   Quota
	writeQuota  Quota
	maxRows     int
	maxCols     int
	orientation Orientation
	headerRow   bool
}

func defaultOptions() *Options {
	return &Options{
		readQuota:  DefaultQuota(),
		writeQuota: DefaultQuota(),
		maxRows:    DefaultMaxRows,
		maxCols:    DefaultMaxCols,
	}
}

// Option configures a mirror at construction.
type Option func(*Options)

// WithReadQuota sets the read-class rate quota.
func WithReadQuota(q Quota) Option {
	return func(o *Options) { o.readQuota = q }
}

// WithWriteQuota sets the write-class rate quota.
func WithWriteQuota(q Quota) Option {
	return func(o *Options) { o.writeQuota = q }
}

// WithMaxExtent bounds whole-document fetches to rows x cols cells.
func WithMaxExtent(rows, cols int) Option {
	return func(o *Options) {
		o.maxRows = rows
		o.maxCols = cols
	}
}

// WithOrientation sets the initial storage orientation (default row-major).
func WithOrientation(orient Orientation) Option {
	return func(o *Options) { o.orientation = orient }
}

// WithHeaderRow marks row 1 as a header from the start, so sorts and row
// filters skip it without a FormatHeaderRow call.
func WithHeaderRow() Option {
	return func(o *Options) { o.headerRow = true }
}
