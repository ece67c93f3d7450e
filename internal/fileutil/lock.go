package fileutil

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created inside a destination while a run writes to it.
const LockFileName = ".mixdl.lock"

// DirLock is an exclusive advisory lock on a download directory.
type DirLock struct {
	lock *flock.Flock
}

// LockDir takes the lock for dir without blocking. It fails if another
// process already holds it.
func LockDir(dir string) (*DirLock, error) {
	path := filepath.Join(dir, LockFileName)
	lock := flock.New(path)

	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", dir, err)
	}
	if !locked {
		return nil, fmt.Errorf("another mixdl run is writing to %s", dir)
	}

	slog.Debug("Destination locked", "destination", dir)
	return &DirLock{lock: lock}, nil
}

// Unlock releases the lock. It is safe to call more than once.
func (l *DirLock) Unlock() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
