package sheetmirror

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the codec and the mirrors. Callers should
// match them with errors.Is.
var (
	// ErrInvalidColumn reports a column number below 1 or column letters
	// outside A-Z.
	ErrInvalidColumn = errors.New("invalid column")

	// ErrMalformedRange reports cell or range notation that cannot be parsed.
	ErrMalformedRange = errors.New("malformed range")

	// ErrUnsupportedOrientation reports an operation that is only defined
	// for one major dimension, such as appending rows to a column-major
	// mirror.
	ErrUnsupportedOrientation = errors.New("unsupported orientation")

	// ErrNoRemoteDocument reports that a mirror could not be bound to a
	// remote document handle.
	ErrNoRemoteDocument = errors.New("no remote document")
)

// MergeOverflowError reports an internal inconsistency between the range a
// block of values was declared to cover and the data actually available
// while merging it into the grid. It always carries the full context.
type MergeOverflowError struct {
	Range    Range
	GridRows int
	GridCols int
	DataRows int
	DataCols int
}

func (e *MergeOverflowError) Error() string {
	return fmt.Sprintf("merge overflow: range %s does not fit grid %dx%d with data %dx%d",
		e.Range, e.GridRows, e.GridCols, e.DataRows, e.DataCols)
}
