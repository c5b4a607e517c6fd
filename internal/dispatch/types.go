package dispatch

import "github.com/dstielow/fileshelf/internal/mapping"

// FailureKind classifies why one entry of a batch failed.
type FailureKind string

const (
	FailMalformedEntry  FailureKind = "malformed_entry"
	FailDirectoryCreate FailureKind = "directory_create"
	FailCopy            FailureKind = "copy"
	FailDelete          FailureKind = "delete"
)

// EntryError records the failure of a single mapping entry. The batch as a
// whole keeps going; callers inspect these afterwards.
type EntryError struct {
	Entry mapping.Entry
	Kind  FailureKind
	Err   error
}

func (e EntryError) Error() string {
	return e.Entry.String() + ": " + string(e.Kind) + ": " + e.Err.Error()
}

func (e EntryError) Unwrap() error {
	return e.Err
}

// FileAction represents an action taken on a single file during a run.
type FileAction struct {
	Path   string
	Action string // "placed", "replaced", "removed", "would place", "would remove"
}

// PlaceResult holds the outcome of one Place batch.
type PlaceResult struct {
	Placed   []FileAction
	Failures []EntryError
}

// Failed reports whether any entry in the batch failed.
func (r *PlaceResult) Failed() bool {
	return len(r.Failures) > 0
}

// CleanupResult holds the outcome of a source-cleanup pass.
type CleanupResult struct {
	Removed  []FileAction
	Skipped  []string
	Failures []EntryError
}

// EntryState describes how one mapping entry relates to the filesystem.
type EntryState string

const (
	StatePending       EntryState = "pending"        // source present, no copy yet
	StatePlaced        EntryState = "placed"         // copy present and byte-identical
	StateDrifted       EntryState = "drifted"        // copy present but differs from source
	StateMissingSource EntryState = "missing source" // source file gone
	StateMalformed     EntryState = "malformed"
)

// EntryStatus pairs an entry with its observed state.
type EntryStatus struct {
	Entry mapping.Entry
	State EntryState
}

// VerifyResult holds the outcome of a verification pass.
type VerifyResult struct {
	Statuses []EntryStatus
	Failures []EntryError
}

// Confirmed returns the filenames whose placement verified byte-identical,
// the only files a gated cleanup may remove. Always non-nil, so passing it
// to CleanupOptions.Confirmed keeps the gate closed even when nothing
// verified.
func (r *VerifyResult) Confirmed() []string {
	names := make([]string, 0, len(r.Statuses))
	for _, s := range r.Statuses {
		if s.State == StatePlaced {
			names = append(names, s.Entry.Filename)
		}
	}
	return names
}

// Clean reports whether every entry verified as placed.
func (r *VerifyResult) Clean() bool {
	if len(r.Failures) > 0 {
		return false
	}
	for _, s := range r.Statuses {
		if s.State != StatePlaced {
			return false
		}
	}
	return true
}
