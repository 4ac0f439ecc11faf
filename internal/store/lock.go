package store

import (
	"fmt"
	"os"
	"time"
)

const (
	defaultLockTimeout = 500 * time.Millisecond
	lockRetryInterval  = 10 * time.Millisecond
)

// writeLocker serializes writes across processes via a lock file that lives
// next to the database.
type writeLocker struct {
	path string
	file *os.File
}

func newWriteLocker(dbPath string) *writeLocker {
	return &writeLocker{path: dbPath + ".lock"}
}

// acquire takes the exclusive lock, polling until timeout.
func (l *writeLocker) acquire(timeout time.Duration) error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return fmt.Errorf("open write lock file: %w", err)
	}
	deadline := time.Now().Add(timeout)
	for {
		if err := tryLockFile(f); err == nil {
			l.file = f
			return nil
		}
		if time.Now().After(deadline) {
			f.Close()
			return fmt.Errorf("acquire write lock: timeout after %v", timeout)
		}
		time.Sleep(lockRetryInterval)
	}
}

// release drops the lock. Safe to call when acquire failed.
func (l *writeLocker) release() {
	if l.file == nil {
		return
	}
	unlockFile(l.file)
	l.file.Close()
	l.file = nil
}
