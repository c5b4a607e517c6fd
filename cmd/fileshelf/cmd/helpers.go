package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dstielow/fileshelf/internal/config"
	"github.com/dstielow/fileshelf/internal/dispatch"
	"github.com/dstielow/fileshelf/internal/journal"
	"github.com/dstielow/fileshelf/internal/mapping"
	"github.com/dstielow/fileshelf/internal/runlock"
)

// loadConfig reads and validates the config file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", configPath, err)
	}
	return cfg, nil
}

// newDispatcher builds the dispatcher for the configured root.
func newDispatcher(cfg *config.Config) *dispatch.Dispatcher {
	return &dispatch.Dispatcher{Root: cfg.Root, Logger: newLogger()}
}

// newLogger returns a debug logger to stderr in verbose mode, nil otherwise.
func newLogger() *slog.Logger {
	if !verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// loadMapping reads the configured mapping CSV.
func loadMapping(cfg *config.Config) (mapping.Set, error) {
	set, err := mapping.ReadFile(cfg.MappingPath())
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("mapping file %s is empty — run 'fileshelf plan' first", cfg.MappingPath())
	}
	return set, nil
}

// compileRules builds derivation rules from config, falling back to the
// stock leading-letters rule.
func compileRules(cfg *config.Config) ([]mapping.Rule, error) {
	if len(cfg.Rules) == 0 {
		return mapping.DefaultRules(), nil
	}
	rules := make([]mapping.Rule, 0, len(cfg.Rules))
	for _, r := range cfg.Rules {
		rule, err := mapping.NewRule(r.Pattern, r.Destination)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// acquireRunLock serializes mutating commands per working root.
func acquireRunLock(cfg *config.Config) (*runlock.Lock, error) {
	return runlock.Acquire(cfg.LockPath())
}

// recordRun journals a finished batch; journal trouble is reported as a
// warning, never as a command failure.
func recordRun(ctx context.Context, cfg *config.Config, run journal.Run) {
	store, err := journal.Open(cfg.JournalPath())
	if err != nil {
		errorf("journal unavailable: %v", err)
		return
	}
	defer store.Close()

	id, err := store.RecordRun(ctx, run)
	if err != nil {
		errorf("recording run: %v", err)
		return
	}
	detail("journaled run %s", id)
}

// placeRunRecord converts a placement batch into a journal run.
func placeRunRecord(cfg *config.Config, set mapping.Set, result *dispatch.PlaceResult, started time.Time) journal.Run {
	failedByLine := make(map[int]dispatch.EntryError, len(result.Failures))
	for _, f := range result.Failures {
		failedByLine[f.Entry.Line] = f
	}

	run := journal.Run{
		Operation:  "place",
		Root:       cfg.Root,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Succeeded:  len(result.Placed),
		Failed:     len(result.Failures),
	}
	for _, e := range set {
		record := journal.EntryRecord{
			Filename:    e.Filename,
			Destination: e.Destination,
			Outcome:     "ok",
		}
		if f, ok := failedByLine[e.Line]; ok {
			record.Outcome = "failed"
			record.FailureKind = string(f.Kind)
			record.Detail = f.Err.Error()
		}
		run.Entries = append(run.Entries, record)
	}
	return run
}

// cleanRunRecord converts a cleanup pass into a journal run.
func cleanRunRecord(cfg *config.Config, result *dispatch.CleanupResult, started time.Time) journal.Run {
	run := journal.Run{
		Operation:  "clean",
		Root:       cfg.Root,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Succeeded:  len(result.Removed),
		Failed:     len(result.Failures),
	}
	for _, a := range result.Removed {
		run.Entries = append(run.Entries, journal.EntryRecord{Filename: a.Path, Outcome: "ok"})
	}
	for _, name := range result.Skipped {
		run.Entries = append(run.Entries, journal.EntryRecord{Filename: name, Outcome: "skipped"})
	}
	for _, f := range result.Failures {
		run.Entries = append(run.Entries, journal.EntryRecord{
			Filename:    f.Entry.Filename,
			Outcome:     "failed",
			FailureKind: string(f.Kind),
			Detail:      f.Err.Error(),
		})
	}
	return run
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(format string, args ...any) {
	if verbose {
		fmt.Printf("  "+format+"\n", args...)
	}
}

// errorf prints an error message to stderr.
func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
