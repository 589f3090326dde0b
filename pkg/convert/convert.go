// Package convert drives the TSV-to-Lua pipeline for one file or a batch.
package convert

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/twdbtools/pkg/luadump"
	"github.com/twdbtools/pkg/schema"
	"github.com/twdbtools/pkg/tsv"
)

// Options configures a conversion run.
type Options struct {
	Dest          string // output directory; empty means next to each source
	MapColumns    bool   // key records by column name instead of ordinal
	AddReturn     bool   // prefix output with "return " so it can be required
	Digest        bool   // per-record digests plus an aggregate checksum
	ReplaceSource bool   // delete sources that converted successfully
}

// Converter converts RPFM TSV exports into Lua table files.
type Converter struct {
	schema *schema.Schema // nil: heuristic typing for every file
	opts   Options
	log    *slog.Logger
}

// New creates a converter. A nil schema is valid and selects heuristic
// typing; pass a logger so schema degradation stays visible to the operator.
func New(s *schema.Schema, opts Options, log *slog.Logger) *Converter {
	if log == nil {
		log = slog.Default()
	}
	return &Converter{schema: s, opts: opts, log: log}
}

// ConvertFile converts one TSV file and returns the Lua table literal text.
// A file with zero data rows yields "" and must not produce an artifact.
func (c *Converter) ConvertFile(path string) (string, error) {
	table, err := tsv.Open(path)
	if err != nil {
		return "", err
	}

	converters, reason := c.schema.Resolve(table.Name, table.Version)
	if reason != schema.DegradeNone {
		c.log.Warn("schema degraded, falling back to heuristic typing (may be inaccurate)",
			"table", table.Name,
			"version", table.Version,
			"reason", reason.String(),
		)
	}

	keys := luadump.KeyIndexed
	if c.opts.MapColumns {
		keys = luadump.KeyNamed
	}

	enc := &luadump.Encoder{
		Columns:    table.Columns,
		Keys:       keys,
		Converters: converters,
		Digest:     c.opts.Digest,
	}

	records := make([]luadump.EncodedRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		rec, err := enc.Encode(row)
		if err != nil {
			return "", fmt.Errorf("%s: row %d: %w", path, i+1, err)
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return "", nil
	}

	style := luadump.TablePlain
	if c.opts.Digest {
		style = luadump.TableChecksummed
	}
	return luadump.Assemble(records, style), nil
}

// Run converts every file in the batch. A failing file is reported and
// skipped; the rest of the batch still runs, and the per-file errors come
// back aggregated. With ReplaceSource set, sources are deleted only after the
// whole batch finished and only for files whose output was written (deletion
// is best-effort: an already-missing source is not an error).
func (c *Converter) Run(files []string) error {
	var errs error
	converted := make([]string, 0, len(files))

	for _, file := range files {
		out, err := c.convertOne(file)
		if err != nil {
			c.log.Error("conversion failed", "file", file, "error", err)
			errs = multierr.Append(errs, err)
			continue
		}
		if out != "" {
			c.log.Info("converted", "file", file, "output", out)
		}
		converted = append(converted, file)
	}

	if c.opts.ReplaceSource {
		for _, file := range converted {
			if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
				errs = multierr.Append(errs, fmt.Errorf("failed to remove source %q: %w", file, err))
			}
		}
	}

	return errs
}

// convertOne converts a single file and writes the artifact. It returns the
// output path, or "" when the file had no data rows and nothing was written.
func (c *Converter) convertOne(file string) (string, error) {
	text, err := c.ConvertFile(file)
	if err != nil {
		return "", err
	}
	if text == "" {
		c.log.Debug("no data rows, skipping artifact", "file", file)
		return "", nil
	}

	if c.opts.AddReturn {
		text = "return " + text
	}

	out := c.outputPath(file)
	if err := os.WriteFile(out, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("failed to write %q: %w", out, err)
	}
	return out, nil
}

func (c *Converter) outputPath(file string) string {
	dir := c.opts.Dest
	if dir == "" {
		dir = filepath.Dir(file)
	}
	stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	return filepath.Join(dir, stem+".lua")
}

// ListTSV returns the .tsv files directly inside dir, sorted by name.
func ListTSV(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.tsv"))
	if err != nil {
		return nil, err
	}
	return matches, nil
}
