package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dstielow/fileshelf/internal/config"
	"github.com/dstielow/fileshelf/internal/mapping"
	"github.com/spf13/cobra"
)

var planDryRun bool

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Derive a mapping set from the files in the working root",
	Long: `Scans the working root (flat, no recursion), applies the derivation rules
to each filename, and writes the resulting mapping set to the configured
CSV file. Files matching no rule are reported and left out of the set.
The mapping file is plain CSV and can be edited by hand before placing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		rules, err := compileRules(cfg)
		if err != nil {
			return err
		}

		files, err := listSourceFiles(cfg)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no files to plan in %s", cfg.Root)
		}

		set, unmatched := mapping.Derive(files, rules)
		for _, name := range unmatched {
			info("  no rule matches %s — skipped", name)
		}

		if planDryRun {
			info("Dry run — mapping not written.")
			for _, e := range set {
				info("  %s", e)
			}
			return nil
		}

		if err := mapping.WriteFile(cfg.MappingPath(), set); err != nil {
			return err
		}
		info("Planned %d entr%s into %s (%d unmatched).",
			len(set), plural(len(set), "y", "ies"), cfg.MappingPath(), len(unmatched))
		return nil
	},
}

// listSourceFiles returns the flat, sorted file listing of the working
// root, excluding the config, the mapping file, the state dir, and
// dotfiles. Subdirectories are never scanned.
func listSourceFiles(cfg *config.Config) ([]string, error) {
	entries, err := os.ReadDir(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", cfg.Root, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if name == cfg.MappingFile || name == filepath.Base(configPath) {
			continue
		}
		files = append(files, name)
	}
	return files, nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func init() {
	planCmd.Flags().BoolVar(&planDryRun, "dry-run", false, "print the derived mapping without writing it")
	rootCmd.AddCommand(planCmd)
}
