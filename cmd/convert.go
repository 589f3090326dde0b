package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twdbtools/pkg/convert"
	"github.com/twdbtools/pkg/schema"
)

var (
	convertDest      string
	convertSchema    string
	convertReplace   bool
	convertMapCols   bool
	convertAddReturn bool
	convertMD5       bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <file.tsv | directory> [...]",
	Short: "Convert RPFM .tsv exports to Lua table files",
	Long: `Convert RPFM .tsv table exports to .lua table literal files.

Each input is either a single .tsv file or a directory whose .tsv files are
all converted. With a schema configured, column types come from the table's
schema definition; otherwise types are guessed from field contents (the first
column is always kept as a string, since it is usually the key).

A file that fails to convert is reported and skipped; the rest of the batch
still runs.

Examples:
  # Convert one export next to itself
  twdbtools convert land_units.tsv

  # Convert a directory of exports into lua/, keyed by column name
  twdbtools convert exports/ --dest lua/ --map-columns

  # Produce require-able modules with change-detection checksums
  twdbtools convert exports/ --add-return --md5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convertDest, "dest", "d", "",
		"output directory (default: next to each source file)")
	convertCmd.Flags().StringVar(&convertSchema, "schema", "",
		"path to the RPFM .ron schema (overrides config)")
	convertCmd.Flags().BoolVar(&convertReplace, "replace", false,
		"delete source files that converted successfully")
	convertCmd.Flags().BoolVar(&convertMapCols, "map-columns", false,
		"key record fields by column name instead of ordinal")
	convertCmd.Flags().BoolVar(&convertAddReturn, "add-return", false,
		"prefix output with 'return' so the file can be require'd")
	convertCmd.Flags().BoolVar(&convertMD5, "md5", false,
		"add per-record digests and an aggregate checksum (changes the output shape)")

	convertCmd.MarkFlagsMutuallyExclusive("dest", "replace")
}

func runConvert(cmd *cobra.Command, args []string) error {
	files, err := gatherTSV(args)
	if err != nil {
		return err
	}

	dest := convertDest
	if dest == "" {
		dest = cfg.Dest
	}

	conv := convert.New(loadSchema(convertSchema), convert.Options{
		Dest:          dest,
		MapColumns:    convertMapCols,
		AddReturn:     convertAddReturn,
		Digest:        convertMD5,
		ReplaceSource: convertReplace,
	}, logger)

	return conv.Run(files)
}

// gatherTSV expands each argument into .tsv files: files are taken as-is
// (extension checked), directories contribute their direct .tsv children.
func gatherTSV(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("input not found: %s", arg)
		}

		if info.IsDir() {
			found, err := convert.ListTSV(arg)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}

		if !strings.HasSuffix(arg, ".tsv") {
			return nil, fmt.Errorf("not a .tsv file: %s", arg)
		}
		files = append(files, arg)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no .tsv files to convert")
	}
	return files, nil
}

// loadSchema loads the .ron schema at path (a flag value overriding the
// config). Load failure degrades to heuristic typing rather than aborting;
// it is logged so nobody assumes the output was schema-verified.
func loadSchema(path string) *schema.Schema {
	if path == "" {
		path = cfg.SchemaPath
	}
	if path == "" {
		logger.Warn("no schema configured, using heuristic typing")
		return nil
	}

	s, err := schema.Load(path)
	if err != nil {
		logger.Warn("failed to load schema, using heuristic typing", "path", path, "error", err)
		return nil
	}
	return s
}
