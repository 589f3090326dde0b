// Package tsv reads the tab-separated table exports produced by the RPFM CLI.
//
// The structural contract is fixed: line 1 holds tab-separated column names,
// line 2 a metadata marker of the form "#<table_name>;<version>;", and every
// following line one data row with the header's arity. An empty line ends the
// data section.
package tsv

import (
	"bufio"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var markerPattern = regexp.MustCompile(`^#(\w+);(\d+);`)

// Table is one parsed export.
type Table struct {
	Name    string // table name from the metadata marker
	Version int    // schema version from the metadata marker
	Columns []string
	Rows    [][]string
}

// Open reads and parses the file at path. Structural problems come back as a
// *FormatError carrying the path.
func Open(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := parse(f)
	if err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}
	return t, nil
}

func parse(f *os.File) (*Table, error) {
	lines := lineReader(f)

	// Header: first non-empty line.
	header, ok := lines()
	for ok && header == "" {
		header, ok = lines()
	}
	if !ok {
		return nil, ErrEmptyFile
	}

	marker, ok := lines()
	if !ok {
		return nil, ErrBadMarker
	}
	m := markerPattern.FindStringSubmatch(marker)
	if m == nil {
		return nil, ErrBadMarker
	}
	version, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, ErrBadMarker
	}

	t := &Table{
		Name:    m[1],
		Version: version,
		Columns: strings.Split(header, "\t"),
	}

	// Data rows run until the first empty line or EOF.
	for {
		line, ok := lines()
		if !ok || line == "" {
			break
		}
		t.Rows = append(t.Rows, strings.Split(line, "\t"))
	}

	return t, nil
}

// lineReader returns a pull function yielding lines with trailing whitespace
// stripped. ok is false at EOF.
func lineReader(f *os.File) func() (string, bool) {
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	return func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return strings.TrimRight(sc.Text(), " \t\r"), true
	}
}
