package tsv

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyFile = errors.New("no column header found (empty file?)")
	ErrBadMarker = errors.New("missing #table;version; marker (not an RPFM tsv?)")
)

// FormatError reports a structurally unusable file. It aborts conversion of
// that file; batch callers skip and report rather than stopping the run.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid tsv %q: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }
