package dispatch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dstielow/fileshelf/internal/mapping"
	"github.com/dstielow/fileshelf/internal/sandbox"
)

// PlaceOptions configures a placement batch.
type PlaceOptions struct {
	DryRun bool
}

// Place processes the set in order: per entry, ensure the destination
// directory exists (reusing it if present) and copy the source file into
// it, leaving the original untouched. Failures are collected per entry and
// do not abort the batch. Re-running a successful set is safe: existing
// directories are reused and existing copies overwritten.
func (d *Dispatcher) Place(ctx context.Context, set mapping.Set, opts PlaceOptions) (*PlaceResult, error) {
	logger := d.logger()
	result := &PlaceResult{}

	for _, entry := range set {
		if entry.Malformed() {
			result.Failures = append(result.Failures, EntryError{
				Entry: entry,
				Kind:  FailMalformedEntry,
				Err:   entry.Err,
			})
			continue
		}

		dest := destPath(entry.Destination, entry.Filename)

		if opts.DryRun {
			result.Placed = append(result.Placed, FileAction{Path: dest, Action: "would place"})
			continue
		}

		if err := sandbox.EnsureDir(d.Root, entry.Destination, d.dirPerm()); err != nil {
			result.Failures = append(result.Failures, EntryError{
				Entry: entry,
				Kind:  FailDirectoryCreate,
				Err:   err,
			})
			logger.WarnContext(ctx, "destination directory unavailable",
				slog.String("destination", entry.Destination),
				slog.Any("error", err))
			continue
		}

		// Directory creation is attempted even when the copy below will
		// fail for a missing source; the two steps fail independently.
		existed := fileExists(filepath.Join(d.Root, dest))

		if err := sandbox.CopyFile(d.Root, entry.Filename, dest); err != nil {
			result.Failures = append(result.Failures, EntryError{
				Entry: entry,
				Kind:  FailCopy,
				Err:   err,
			})
			logger.WarnContext(ctx, "copy failed",
				slog.String("source", entry.Filename),
				slog.String("destination", dest),
				slog.Any("error", err))
			continue
		}

		action := "placed"
		if existed {
			action = "replaced"
		}
		result.Placed = append(result.Placed, FileAction{Path: dest, Action: action})
		logger.DebugContext(ctx, "placed file",
			slog.String("source", entry.Filename),
			slog.String("destination", dest))
	}

	logger.InfoContext(ctx, "placement batch finished",
		slog.Int("placed", len(result.Placed)),
		slog.Int("failed", len(result.Failures)))
	return result, nil
}

// CleanupOptions configures a source-cleanup pass.
type CleanupOptions struct {
	DryRun bool

	// Confirmed restricts deletion to the listed filenames. Files outside
	// the list are skipped, not failed: losing a file that was never
	// confirmed copied is the hazard this gate exists for. Nil means no
	// gate (the caller accepts the risk).
	Confirmed []string
}

// CleanupSources deletes the original source files after the caller has
// decided placement succeeded. Never invoked implicitly by Place. Failures
// are collected per file; the pass keeps going.
func (d *Dispatcher) CleanupSources(ctx context.Context, filenames []string, opts CleanupOptions) (*CleanupResult, error) {
	logger := d.logger()
	result := &CleanupResult{}

	var confirmed map[string]bool
	if opts.Confirmed != nil {
		confirmed = make(map[string]bool, len(opts.Confirmed))
		for _, name := range opts.Confirmed {
			confirmed[name] = true
		}
	}

	for _, name := range filenames {
		if confirmed != nil && !confirmed[name] {
			result.Skipped = append(result.Skipped, name)
			logger.DebugContext(ctx, "skipping unconfirmed source", slog.String("file", name))
			continue
		}

		if opts.DryRun {
			result.Removed = append(result.Removed, FileAction{Path: name, Action: "would remove"})
			continue
		}

		if err := sandbox.Remove(d.Root, name); err != nil {
			result.Failures = append(result.Failures, EntryError{
				Entry: mapping.Entry{Filename: name},
				Kind:  FailDelete,
				Err:   err,
			})
			logger.WarnContext(ctx, "delete failed",
				slog.String("file", name),
				slog.Any("error", err))
			continue
		}
		result.Removed = append(result.Removed, FileAction{Path: name, Action: "removed"})
	}

	logger.InfoContext(ctx, "cleanup finished",
		slog.Int("removed", len(result.Removed)),
		slog.Int("skipped", len(result.Skipped)),
		slog.Int("failed", len(result.Failures)))
	return result, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
