package cmd

import (
	"fmt"
	"time"

	"github.com/dstielow/fileshelf/internal/dispatch"
	"github.com/spf13/cobra"
)

var placeDryRun bool

var placeCmd = &cobra.Command{
	Use:   "place",
	Short: "Place each mapped file into its destination directory",
	Long: `Reads the mapping set and processes it in order: each destination
directory is created if absent (reused if present) and a verified copy of
the source file is placed inside it. Originals are never touched — use
'clean' afterwards to remove them. The batch is best-effort: a failing
entry is reported and the rest keep going. Re-running a successful set is
safe; existing copies are overwritten.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		set, err := loadMapping(cfg)
		if err != nil {
			return err
		}

		if !placeDryRun {
			lock, err := acquireRunLock(cfg)
			if err != nil {
				return err
			}
			defer lock.Release()
		}

		started := time.Now()
		result, err := newDispatcher(cfg).Place(cmd.Context(), set, dispatch.PlaceOptions{DryRun: placeDryRun})
		if err != nil {
			return err
		}

		if placeDryRun {
			info("Dry run — no files written.")
		}
		for _, a := range result.Placed {
			info("  %s  %s", a.Action, a.Path)
		}
		for _, f := range result.Failures {
			errorf("%s", f)
		}

		if !placeDryRun {
			recordRun(cmd.Context(), cfg, placeRunRecord(cfg, set, result, started))
		}

		info("")
		info("Place complete: %d placed, %d failed.", len(result.Placed), len(result.Failures))
		if result.Failed() {
			return fmt.Errorf("%d entr%s failed", len(result.Failures), plural(len(result.Failures), "y", "ies"))
		}
		return nil
	},
}

func init() {
	placeCmd.Flags().BoolVar(&placeDryRun, "dry-run", false, "show what would be placed without writing")
	rootCmd.AddCommand(placeCmd)
}
