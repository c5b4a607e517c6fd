package mapping

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Read parses a mapping set from r. The format is header-less CSV, one
// entry per line, exactly two fields (filename, destination). Records with
// any other field count become malformed entries rather than aborting the
// read, so later entries still process.
func Read(r io.Reader) (Set, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	// A stray quote in one line must not block the lines after it;
	// malformedness is defined by field count, not quoting.
	cr.LazyQuotes = true

	var set Set
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return set, nil
		}
		if err != nil {
			return set, fmt.Errorf("reading mapping: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if len(record) != 2 {
			set = append(set, Entry{
				Line: line,
				Err:  fmt.Errorf("expected 2 fields, got %d", len(record)),
			})
			continue
		}
		if record[0] == "" || record[1] == "" {
			set = append(set, Entry{
				Line: line,
				Err:  fmt.Errorf("empty filename or destination"),
			})
			continue
		}
		set = append(set, Entry{Filename: record[0], Destination: record[1], Line: line})
	}
}

// ReadFile reads a mapping set from path.
func ReadFile(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mapping file %s: %w", path, err)
	}
	defer f.Close()

	set, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("parsing mapping file %s: %w", path, err)
	}
	return set, nil
}

// Write serializes well-formed entries to w in the two-field CSV form.
// Malformed entries are skipped; they have no faithful serialization.
func Write(w io.Writer, set Set) error {
	cw := csv.NewWriter(w)
	for _, e := range set {
		if e.Malformed() {
			continue
		}
		if err := cw.Write([]string{e.Filename, e.Destination}); err != nil {
			return fmt.Errorf("writing entry %s: %w", e, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes a mapping set to path, replacing any existing file.
func WriteFile(path string, set Set) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating mapping file %s: %w", path, err)
	}
	if err := Write(f, set); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
