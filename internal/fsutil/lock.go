package fsutil

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/conn-castle/govm/internal/messages"
)

// Lock is an exclusive advisory lock held on a lock file.
type Lock struct {
	path string
	file *os.File
}

var flockFn = unix.Flock
var lockSleep = time.Sleep

var (
	lockWaitTimeout = 10 * time.Minute
	lockPollEvery   = 100 * time.Millisecond
)

// WithLock acquires the lock at path, runs fn, and releases the lock.
func WithLock(path string, fn func() error) error {
	lock, err := AcquireLock(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.Release()
	}()
	return fn()
}

// AcquireLock opens or creates path and blocks until an exclusive lock is held
// or the wait timeout elapses.
func AcquireLock(path string) (*Lock, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf(messages.FsutilOpenLockFmt, path, err)
	}
	if err := lockFile(path, file); err != nil {
		_ = file.Close()
		return nil, err
	}
	return &Lock{path: path, file: file}, nil
}

// Release unlocks and closes the lock file. The file itself is left in place;
// removing it would let a waiter lock an unlinked inode.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	if err := flockFn(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		_ = l.file.Close()
		return err
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func lockFile(path string, file *os.File) error {
	deadline := time.Now().Add(lockWaitTimeout)
	for {
		err := flockFn(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EAGAIN) {
			return fmt.Errorf(messages.FsutilLockFmt, path, err)
		}
		if time.Now().After(deadline) {
			return fmt.Errorf(messages.FsutilLockTimeoutFmt, path, lockWaitTimeout)
		}
		lockSleep(lockPollEvery)
	}
}
