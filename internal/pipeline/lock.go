package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"av3atool/internal/services"
)

// RunLock prevents two pipelines sharing a state directory from running at once.
type RunLock struct {
	path string
	lock *flock.Flock
}

// AcquireLock takes the lock at path without blocking.
func AcquireLock(path string) (*RunLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "lock", "create state dir", path, err)
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrUnhandled, "lock", "acquire lock", path, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrLocked, "lock", "",
			fmt.Sprintf("another av3atool run is in progress (%s)", path), nil)
	}
	return &RunLock{path: path, lock: fl}, nil
}

// Path returns the lock file location.
func (l *RunLock) Path() string { return l.path }

// Release unlocks the file. It is safe to call on a nil lock.
func (l *RunLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
