// Package mapping defines the mapping set that drives a dispatch run: an
// ordered sequence of (source filename, destination directory) pairs, its
// on-disk CSV form, and derivation of pairs from filename patterns.
package mapping

import "fmt"

// Entry pairs one source filename with the directory it should be placed in.
// Line is the 1-based position in the mapping file (0 for derived entries).
// A non-nil Err marks a malformed entry: the line could not be parsed into
// exactly two fields. Malformed entries are retained so a run can report
// them positionally instead of silently dropping lines.
type Entry struct {
	Filename    string
	Destination string
	Line        int
	Err         error
}

// Malformed reports whether the entry failed to parse.
func (e Entry) Malformed() bool {
	return e.Err != nil
}

func (e Entry) String() string {
	if e.Malformed() {
		return fmt.Sprintf("line %d (malformed)", e.Line)
	}
	return e.Filename + " -> " + e.Destination
}

// Set is the ordered collection of entries for one run.
type Set []Entry

// Filenames returns the source filenames of all well-formed entries, in order.
func (s Set) Filenames() []string {
	names := make([]string, 0, len(s))
	for _, e := range s {
		if !e.Malformed() {
			names = append(names, e.Filename)
		}
	}
	return names
}

// Destinations returns the distinct destination directories of all
// well-formed entries, in first-seen order.
func (s Set) Destinations() []string {
	seen := make(map[string]bool)
	var dests []string
	for _, e := range s {
		if e.Malformed() || seen[e.Destination] {
			continue
		}
		seen[e.Destination] = true
		dests = append(dests, e.Destination)
	}
	return dests
}
