package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dstielow/fileshelf/internal/journal"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyRunID string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs from the journal",
	Long: `Shows recent place and clean runs recorded in the journal database.
Use --run <id> to list the per-entry outcomes of one run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := journal.Open(cfg.JournalPath())
		if err != nil {
			return err
		}
		defer store.Close()

		if historyRunID != "" {
			return showRun(cmd.Context(), store, historyRunID)
		}

		runs, err := store.ListRuns(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			info("No runs recorded yet.")
			return nil
		}

		rows := make([][]string, 0, len(runs))
		for _, run := range runs {
			rows = append(rows, []string{
				run.ID,
				run.Operation,
				run.StartedAt.Local().Format(time.DateTime),
				fmt.Sprintf("%d", run.Succeeded),
				fmt.Sprintf("%d", run.Failed),
			})
		}
		fmt.Println(renderTable([]string{"RUN", "OP", "STARTED", "OK", "FAILED"}, rows, 4, 5))
		return nil
	},
}

func showRun(ctx context.Context, store *journal.Store, id string) error {
	run, err := store.GetRun(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("no run with id %s", id)
	}
	if err != nil {
		return err
	}

	info("%s run in %s: %d succeeded, %d failed (%s)",
		run.Operation, run.Root, run.Succeeded, run.Failed,
		run.StartedAt.Local().Format(time.DateTime))

	rows := make([][]string, 0, len(run.Entries))
	for _, e := range run.Entries {
		failure := e.FailureKind
		if e.Detail != "" {
			failure = fmt.Sprintf("%s: %s", e.FailureKind, e.Detail)
		}
		rows = append(rows, []string{e.Filename, e.Destination, e.Outcome, failure})
	}
	fmt.Println(renderTable([]string{"FILE", "DESTINATION", "OUTCOME", "FAILURE"}, rows))
	return nil
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum runs to list")
	historyCmd.Flags().StringVar(&historyRunID, "run", "", "show per-entry outcomes of one run")
	rootCmd.AddCommand(historyCmd)
}
