package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twdbtools/pkg/convert"
	"github.com/twdbtools/pkg/rpfm"
)

var (
	exportTables    []string
	exportRPFMDir   string
	exportPack      string
	exportSchema    string
	exportDest      string
	exportMapCols   bool
	exportAddReturn bool
	exportMD5       bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Extract tables from data.pack and convert them to Lua",
	Long: `Extract database tables from the game's data.pack with rpfm_cli and
convert the resulting .tsv exports to .lua table files in one step.

Table names are normalized, so "land_units", "land_units_tables" and
"db/land_units_tables/data__" all refer to the same table.

Examples:
  # Export two tables into script/db/
  twdbtools export -t land_units -t main_units -o script/db \
    -r "C:\rpfm" --pack "C:\...\data.pack" --schema "C:\...\schema_wh3.ron"

  # With rpfm/pack/schema paths in twdbtools.yaml
  twdbtools export --config twdbtools.yaml -t land_units -o script/db --md5`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringArrayVarP(&exportTables, "table", "t", nil,
		"table to export (can be repeated)")
	exportCmd.Flags().StringVarP(&exportRPFMDir, "rpfm", "r", "",
		"RPFM installation directory containing rpfm_cli (overrides config)")
	exportCmd.Flags().StringVar(&exportPack, "pack", "",
		"path to the game's data.pack (overrides config)")
	exportCmd.Flags().StringVar(&exportSchema, "schema", "",
		"path to the RPFM .ron schema (overrides config)")
	exportCmd.Flags().StringVarP(&exportDest, "dest", "o", "",
		"destination directory for the converted files")
	exportCmd.Flags().BoolVar(&exportMapCols, "map-columns", false,
		"key record fields by column name instead of ordinal")
	exportCmd.Flags().BoolVar(&exportAddReturn, "add-return", false,
		"prefix output with 'return' so the files can be require'd")
	exportCmd.Flags().BoolVar(&exportMD5, "md5", false,
		"add per-record digests and an aggregate checksum (changes the output shape)")

	exportCmd.MarkFlagRequired("table")
}

func runExport(cmd *cobra.Command, args []string) error {
	tables := make([]string, 0, len(exportTables))
	for _, t := range exportTables {
		normalized, err := rpfm.NormalizeTableName(t)
		if err != nil {
			return err
		}
		tables = append(tables, normalized)
	}

	rpfmDir := override(exportRPFMDir, cfg.RPFMDir)
	pack := override(exportPack, cfg.PackPath)
	schemaPath := override(exportSchema, cfg.SchemaPath)
	dest := override(exportDest, cfg.Dest)

	if rpfmDir == "" || pack == "" || schemaPath == "" {
		return fmt.Errorf("export needs --rpfm, --pack and --schema (flags or config)")
	}
	if dest == "" {
		return fmt.Errorf("export needs a destination directory (--dest or config)")
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	extractor, err := rpfm.NewCLI(rpfmDir, pack, schemaPath, cfg.Game, logger)
	if err != nil {
		return err
	}

	// Extraction lands in a temp dir; conversion consumes it with
	// ReplaceSource so nothing survives but the .lua files in dest.
	staging, err := os.MkdirTemp("", "twdbtools-export-")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	logger.Info("extracting tables", "tables", tables, "pack", pack)
	files, err := extractor.Extract(cmd.Context(), tables, staging)
	if err != nil {
		return err
	}

	conv := convert.New(loadSchema(schemaPath), convert.Options{
		Dest:          dest,
		MapColumns:    exportMapCols,
		AddReturn:     exportAddReturn,
		Digest:        exportMD5,
		ReplaceSource: true,
	}, logger)

	return conv.Run(files)
}

func override(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}
