// Package fileshelf is the public API for mapping-driven file placement:
// build or load a mapping set, place each source file into its destination
// directory under an explicit working root, verify the copies, and clean
// up the originals as a separate, caller-gated step.
package fileshelf

import (
	"context"
	"io"
	"log/slog"

	"github.com/dstielow/fileshelf/internal/dispatch"
	"github.com/dstielow/fileshelf/internal/mapping"
)

// Re-exported mapping types.
type (
	Entry = mapping.Entry
	Set   = mapping.Set
	Rule  = mapping.Rule
)

// Re-exported dispatch types.
type (
	FailureKind    = dispatch.FailureKind
	EntryError     = dispatch.EntryError
	FileAction     = dispatch.FileAction
	PlaceOptions   = dispatch.PlaceOptions
	PlaceResult    = dispatch.PlaceResult
	CleanupOptions = dispatch.CleanupOptions
	CleanupResult  = dispatch.CleanupResult
	EntryState     = dispatch.EntryState
	EntryStatus    = dispatch.EntryStatus
	VerifyResult   = dispatch.VerifyResult
)

// Failure kinds reported per entry.
const (
	FailMalformedEntry  = dispatch.FailMalformedEntry
	FailDirectoryCreate = dispatch.FailDirectoryCreate
	FailCopy            = dispatch.FailCopy
	FailDelete          = dispatch.FailDelete
)

// Entry states reported by Verify and Status.
const (
	StatePending       = dispatch.StatePending
	StatePlaced        = dispatch.StatePlaced
	StateDrifted       = dispatch.StateDrifted
	StateMissingSource = dispatch.StateMissingSource
	StateMalformed     = dispatch.StateMalformed
)

// Shelf dispatches mapping sets under one working root.
type Shelf struct {
	d dispatch.Dispatcher
}

// New returns a Shelf operating under root. Logger may be nil.
func New(root string, logger *slog.Logger) *Shelf {
	return &Shelf{d: dispatch.Dispatcher{Root: root, Logger: logger}}
}

// Place realizes the mapping set: per entry, ensure the destination
// directory and copy the source into it. Best-effort; per-entry failures
// are collected in the result.
func (s *Shelf) Place(ctx context.Context, set Set, opts PlaceOptions) (*PlaceResult, error) {
	return s.d.Place(ctx, set, opts)
}

// Verify reports the placement state of every entry without writing.
func (s *Shelf) Verify(ctx context.Context, set Set) (*VerifyResult, error) {
	return s.d.Verify(ctx, set)
}

// Status reports per-entry states, including malformed lines.
func (s *Shelf) Status(ctx context.Context, set Set) ([]EntryStatus, error) {
	return s.d.Status(ctx, set)
}

// CleanupSources deletes original files once the caller has confirmed
// their placement. Never called implicitly by Place.
func (s *Shelf) CleanupSources(ctx context.Context, filenames []string, opts CleanupOptions) (*CleanupResult, error) {
	return s.d.CleanupSources(ctx, filenames, opts)
}

// ReadSet parses a mapping set from CSV.
func ReadSet(r io.Reader) (Set, error) {
	return mapping.Read(r)
}

// WriteSet serializes a mapping set as CSV.
func WriteSet(w io.Writer, set Set) error {
	return mapping.Write(w, set)
}

// NewRule compiles a derivation rule.
func NewRule(pattern, destination string) (Rule, error) {
	return mapping.NewRule(pattern, destination)
}

// Derive builds a mapping set from filenames with the first matching rule
// per file; unmatched filenames are returned separately.
func Derive(files []string, rules []Rule) (Set, []string) {
	return mapping.Derive(files, rules)
}

// DefaultRules returns the stock leading-letters derivation rule.
func DefaultRules() []Rule {
	return mapping.DefaultRules()
}
