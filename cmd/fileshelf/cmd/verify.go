package cmd

import (
	"fmt"

	"github.com/dstielow/fileshelf/internal/dispatch"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that every mapped file is placed and byte-identical",
	Long: `Read-only check of the mapping set against the filesystem. An entry is
confirmed when its copy exists at destination/filename and matches the
source byte for byte. Exits non-zero if any entry is unconfirmed, which
makes verify usable as a gate in scripts before cleaning.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		set, err := loadMapping(cfg)
		if err != nil {
			return err
		}

		result, err := newDispatcher(cfg).Verify(cmd.Context(), set)
		if err != nil {
			return err
		}

		for _, s := range result.Statuses {
			if s.State == dispatch.StatePlaced {
				detail("%s  %s", s.State, s.Entry.Filename)
			} else {
				info("  %s  %s", s.State, s.Entry)
			}
		}
		for _, f := range result.Failures {
			errorf("%s", f)
		}

		confirmed := len(result.Confirmed())
		info("Verified: %d of %d entr%s confirmed.", confirmed, len(set), plural(len(set), "y", "ies"))
		if !result.Clean() {
			return fmt.Errorf("verification failed for %d entr%s",
				len(set)-confirmed, plural(len(set)-confirmed, "y", "ies"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
