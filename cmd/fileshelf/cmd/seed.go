package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	seedPrefixes string
	seedCount    int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create empty demonstration files in the working root",
	Long: `Generates empty files named <prefix><n>.txt (a1.txt, a2.txt, b1.txt, ...)
so the plan/place/clean workflow can be tried without real data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if seedCount < 1 {
			return fmt.Errorf("--count must be at least 1")
		}

		var created int
		for _, prefix := range strings.Split(seedPrefixes, ",") {
			prefix = strings.TrimSpace(prefix)
			if prefix == "" {
				continue
			}
			for i := 1; i <= seedCount; i++ {
				name := fmt.Sprintf("%s%d.txt", prefix, i)
				path := filepath.Join(cfg.Root, name)
				if _, err := os.Stat(path); err == nil {
					detail("skipping existing %s", name)
					continue
				}
				if err := os.WriteFile(path, nil, 0o644); err != nil {
					return fmt.Errorf("creating %s: %w", name, err)
				}
				created++
				detail("created %s", name)
			}
		}

		info("Seeded %d file(s) in %s.", created, cfg.Root)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedPrefixes, "prefixes", "a,b,c", "comma-separated filename prefixes")
	seedCmd.Flags().IntVar(&seedCount, "count", 1, "files per prefix")
	rootCmd.AddCommand(seedCmd)
}
