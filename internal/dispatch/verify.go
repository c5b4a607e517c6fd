package dispatch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dstielow/fileshelf/internal/mapping"
	"github.com/dstielow/fileshelf/internal/sandbox"
)

// Verify inspects the filesystem for every entry without changing it:
// a copy that exists and is byte-identical to its source is placed, a
// differing copy has drifted, an absent copy is pending. Malformed
// entries are reported as failures, matching how Place would treat them.
func (d *Dispatcher) Verify(ctx context.Context, set mapping.Set) (*VerifyResult, error) {
	result := &VerifyResult{}

	for _, entry := range set {
		if entry.Malformed() {
			result.Failures = append(result.Failures, EntryError{
				Entry: entry,
				Kind:  FailMalformedEntry,
				Err:   entry.Err,
			})
			continue
		}

		state, err := d.entryState(entry)
		if err != nil {
			result.Failures = append(result.Failures, EntryError{
				Entry: entry,
				Kind:  FailCopy,
				Err:   err,
			})
			continue
		}
		result.Statuses = append(result.Statuses, EntryStatus{Entry: entry, State: state})
	}

	d.logger().DebugContext(ctx, "verify finished",
		slog.Int("entries", len(set)),
		slog.Int("confirmed", len(result.Confirmed())),
		slog.Int("failed", len(result.Failures)))
	return result, nil
}

// Status reports the per-entry state for listing. Unlike Verify it folds
// malformed entries into the status list instead of treating them as
// failures, so the caller can render every line of the mapping file.
func (d *Dispatcher) Status(ctx context.Context, set mapping.Set) ([]EntryStatus, error) {
	var statuses []EntryStatus
	for _, entry := range set {
		if entry.Malformed() {
			statuses = append(statuses, EntryStatus{Entry: entry, State: StateMalformed})
			continue
		}
		state, err := d.entryState(entry)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, EntryStatus{Entry: entry, State: state})
	}
	return statuses, nil
}

func (d *Dispatcher) entryState(entry mapping.Entry) (EntryState, error) {
	srcAbs := filepath.Join(d.Root, entry.Filename)
	if _, err := os.Stat(srcAbs); err != nil {
		if os.IsNotExist(err) {
			return StateMissingSource, nil
		}
		return "", err
	}

	dest := destPath(entry.Destination, entry.Filename)
	if !fileExists(filepath.Join(d.Root, dest)) {
		return StatePending, nil
	}

	srcHash, err := sandbox.HashFile(d.Root, entry.Filename)
	if err != nil {
		return "", err
	}
	dstHash, err := sandbox.HashFile(d.Root, dest)
	if err != nil {
		return "", err
	}
	if srcHash != dstHash {
		return StateDrifted, nil
	}
	return StatePlaced, nil
}
