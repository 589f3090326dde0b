package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/twdbtools/pkg/rpfm"
	"github.com/twdbtools/pkg/schema"
)

var schemaPathFlag string

var schemaCmd = &cobra.Command{
	Use:   "schema <table> <version>",
	Short: "Show the column types a schema resolves for a table version",
	Long: `Show the column-to-type mapping the schema resolves for one table
version, or the reason resolution degrades to heuristic typing.

Examples:
  twdbtools schema land_units 13 --schema schema_wh3.ron`,
	Args: cobra.ExactArgs(2),
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().StringVar(&schemaPathFlag, "schema", "",
		"path to the RPFM .ron schema (overrides config)")
}

func runSchema(cmd *cobra.Command, args []string) error {
	table, err := rpfm.NormalizeTableName(args[0])
	if err != nil {
		return err
	}
	table += "_tables"

	version, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("version must be a number: %q", args[1])
	}

	path := override(schemaPathFlag, cfg.SchemaPath)
	if path == "" {
		return fmt.Errorf("no schema configured (--schema or config)")
	}

	s, err := schema.Load(path)
	if err != nil {
		return err
	}

	converters, reason := s.Resolve(table, version)
	if reason != schema.DegradeNone {
		fmt.Printf("%s v%d: degraded (%s) — conversion would use heuristic typing\n",
			table, version, reason)
		return nil
	}

	fmt.Printf("%s v%d: %d columns\n", table, version, len(converters))
	for _, def := range s.Definitions[table] {
		if def.Version != version {
			continue
		}
		for _, f := range def.Fields {
			fmt.Printf("  %-40s %-18s -> %s\n", f.Name, f.Type, converters[f.Name])
		}
		break
	}
	return nil
}
