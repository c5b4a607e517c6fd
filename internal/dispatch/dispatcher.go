// Package dispatch realizes a mapping set against the filesystem: it
// ensures destination directories exist, places verified copies of source
// files inside them, and (as a separate, caller-gated step) deletes the
// originals. Batches are best-effort: one entry failing never stops the
// entries after it, and nothing is retried.
package dispatch

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Dispatcher executes mapping sets against a working root. The root is
// explicit configuration, never the ambient process directory, so runs are
// reproducible and testable against a temporary directory.
type Dispatcher struct {
	Root   string
	Logger *slog.Logger

	// DirPerm is the mode for created destination directories.
	// Zero means 0o755.
	DirPerm os.FileMode
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (d *Dispatcher) dirPerm() os.FileMode {
	if d.DirPerm != 0 {
		return d.DirPerm
	}
	return 0o755
}

// destPath returns the root-relative placement path for an entry.
func destPath(destination, filename string) string {
	return filepath.Join(destination, filepath.Base(filename))
}
