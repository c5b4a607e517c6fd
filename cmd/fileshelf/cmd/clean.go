package cmd

import (
	"fmt"
	"time"

	"github.com/dstielow/fileshelf/internal/dispatch"
	"github.com/spf13/cobra"
)

var (
	cleanDryRun bool
	cleanForce  bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete source files whose placement has been verified",
	Long: `Removes the original source files of the mapping set. Before deleting
anything, every entry is verified: only files whose placed copy exists and
is byte-identical to the source are removed; the rest are skipped and
reported. --force skips the verification gate and deletes every mapped
source, accepting the risk of losing files that were never copied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		set, err := loadMapping(cfg)
		if err != nil {
			return err
		}

		if !cleanDryRun {
			lock, err := acquireRunLock(cfg)
			if err != nil {
				return err
			}
			defer lock.Release()
		}

		d := newDispatcher(cfg)
		opts := dispatch.CleanupOptions{DryRun: cleanDryRun}

		if cleanForce {
			info("Verification gate skipped (--force).")
		} else {
			verified, err := d.Verify(cmd.Context(), set)
			if err != nil {
				return err
			}
			opts.Confirmed = verified.Confirmed()
			for _, s := range verified.Statuses {
				if s.State != dispatch.StatePlaced {
					info("  not confirmed (%s)  %s", s.State, s.Entry.Filename)
				}
			}
		}

		started := time.Now()
		result, err := d.CleanupSources(cmd.Context(), set.Filenames(), opts)
		if err != nil {
			return err
		}

		if cleanDryRun {
			info("Dry run — no files removed.")
		}
		for _, a := range result.Removed {
			info("  %s  %s", a.Action, a.Path)
		}
		for _, f := range result.Failures {
			errorf("%s", f)
		}

		if !cleanDryRun {
			recordRun(cmd.Context(), cfg, cleanRunRecord(cfg, result, started))
		}

		info("")
		info("Clean complete: %d removed, %d skipped, %d failed.",
			len(result.Removed), len(result.Skipped), len(result.Failures))
		if len(result.Failures) > 0 {
			return fmt.Errorf("%d file(s) failed to delete", len(result.Failures))
		}
		return nil
	},
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "show what would be removed without deleting")
	cleanCmd.Flags().BoolVar(&cleanForce, "force", false, "delete without verifying placements first")
	rootCmd.AddCommand(cleanCmd)
}
