// Package runlock serializes mutating runs against one working root. Two
// processes placing or cleaning the same tree at once would race on
// directory creation and deletion; read-only commands never take the lock.
package runlock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrHeld is returned when another process already holds the run lock.
var ErrHeld = fmt.Errorf("another fileshelf run is in progress")

// Lock is a held advisory file lock. Release it when the run finishes.
type Lock struct {
	fl *flock.Flock
}

// Acquire takes the advisory lock at path without blocking, creating the
// parent directory as needed. Returns ErrHeld if another process has it.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring run lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w (lock file: %s)", ErrHeld, path)
	}
	return &Lock{fl: fl}, nil
}

// Release drops the lock. Safe on a nil receiver.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
