// Package rpfm shells out to the RPFM CLI to extract database tables from a
// game pack as TSV. It is deliberately thin: the extraction tool is an
// external collaborator, and everything interesting happens after it runs.
package rpfm

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// cliBinary is the rpfm_cli executable name on this platform.
var cliBinary = func() string {
	if runtime.GOOS == "windows" {
		return "rpfm_cli.exe"
	}
	return "rpfm_cli"
}()

// Extractor pulls the named tables out of a game pack into dest, one TSV per
// table, and returns the extracted file paths.
type Extractor interface {
	Extract(ctx context.Context, tables []string, dest string) ([]string, error)
}

// CLI invokes the rpfm_cli executable.
type CLI struct {
	Exe    string // path to rpfm_cli
	Pack   string // path to the game's data.pack
	Schema string // path to the .ron schema handed to --tables-as-tsv
	Game   string // rpfm game id, e.g. warhammer_3
	Log    *slog.Logger
}

// NewCLI locates rpfm_cli under the given RPFM installation directory.
func NewCLI(rpfmDir, pack, schemaPath, game string, log *slog.Logger) (*CLI, error) {
	exe := filepath.Join(rpfmDir, cliBinary)
	if _, err := os.Stat(exe); err != nil {
		return nil, fmt.Errorf("rpfm_cli not found at %q: %w", exe, err)
	}
	if _, err := os.Stat(pack); err != nil {
		return nil, fmt.Errorf("pack file not found at %q: %w", pack, err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &CLI{Exe: exe, Pack: pack, Schema: schemaPath, Game: game, Log: log}, nil
}

// Extract runs one rpfm_cli invocation for all requested tables. Extracted
// files land in nested <table>_tables/ directories; they are moved up to
// dest as <table>.tsv before returning.
func (c *CLI) Extract(ctx context.Context, tables []string, dest string) ([]string, error) {
	tmp, err := os.MkdirTemp("", "twdbtools-extract-")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	args := []string{"--game", c.Game, "pack", "extract",
		"--pack-path", c.Pack,
		"--tables-as-tsv", c.Schema,
	}
	for _, table := range tables {
		args = append(args, "--file-path", fmt.Sprintf("db/%s_tables/data__;%s", table, tmp))
	}

	c.Log.Debug("running rpfm_cli", "exe", c.Exe, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, c.Exe, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("rpfm_cli failed: %w\n%s", err, output)
	}

	return collectTSV(tmp, dest)
}

// collectTSV walks the staging directory and moves every extracted TSV to
// dest, renaming <table>_tables/whatever.tsv to <table>.tsv.
func collectTSV(staging, dest string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(staging, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".tsv") {
			return nil
		}

		table := strings.TrimSuffix(filepath.Base(filepath.Dir(path)), "_tables")
		target := filepath.Join(dest, table+".tsv")

		if err := moveFile(path, target); err != nil {
			return fmt.Errorf("failed to move %q: %w", path, err)
		}
		files = append(files, target)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("rpfm_cli produced no .tsv files under %q", staging)
	}
	return files, nil
}

// moveFile renames, falling back to copy+remove for cross-device targets.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return err
	}
	return os.Remove(src)
}

// NormalizeTableName strips the decorations users paste from pack paths:
// "db/land_units_tables/data__" and "land_units_tables" both become
// "land_units".
func NormalizeTableName(name string) (string, error) {
	n := strings.TrimPrefix(name, "db")
	n = strings.TrimPrefix(n, "/")
	n = strings.TrimSuffix(n, "data__")
	n = strings.TrimSuffix(n, "/")
	n = strings.TrimSuffix(n, "_tables")
	if n == "" {
		return "", fmt.Errorf("cannot normalize table name %q", name)
	}
	return n, nil
}
