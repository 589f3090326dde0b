package luadump

import "errors"

var (
	// ErrNoConverter means a header column had no entry in a successfully
	// resolved converter set. The row and schema disagree; the file cannot
	// be trusted.
	ErrNoConverter = errors.New("no converter for column")

	// ErrNotNumeric means a column declared numeric held a value that does
	// not parse as a number.
	ErrNotNumeric = errors.New("value is not numeric")
)
