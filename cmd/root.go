package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twdbtools/pkg/config"
	"github.com/twdbtools/pkg/logging"
)

var (
	cfgPath  string
	logLevel string

	cfg        config.Config
	logger     *slog.Logger
	logCleanup = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "twdbtools",
	Short: "Tools for Total War: WARHAMMER III database tables",
	Long: `twdbtools exports Total War: WARHAMMER III database tables as Lua
table literals, using the RPFM CLI for extraction.

Supported operations:
  - Convert RPFM .tsv exports to .lua table files
  - Extract tables from data.pack and convert them in one step
  - Inspect the column types a schema resolves for a table version`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logCleanup()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		logCleanup()
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"path to a twdbtools.yaml config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level: debug, info, warn, error (overrides config)")
}

func setup(cmd *cobra.Command, args []string) error {
	cfg = config.Default()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}

	logger, logCleanup = logging.Setup(cfg.SeqURL, parseLevel(level))
	slog.SetDefault(logger)
	return nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
