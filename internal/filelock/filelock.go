/*
NAME
  filelock.go

DESCRIPTION
  filelock.go provides an optional, advisory cross-process file lock for
  CLI callers that need to serialize concurrent edits to the same path.
  The engine itself never takes this lock; cross-process mutual
  exclusion is the caller's responsibility.

AUTHOR
  Mara Quill <mara@outerreef.dev>

LICENSE
  See LICENSE file in the root of this repository.
*/

// Package filelock provides an advisory, cross-process lock keyed by
// filesystem path, built on github.com/juju/fslock.
package filelock

import (
	"fmt"
	"time"

	"github.com/juju/fslock"
)

// Lock is an advisory lock over a single path.
type Lock struct {
	l *fslock.Lock
}

// New returns a Lock for path. The lock is not held until Acquire is
// called.
func New(path string) *Lock {
	return &Lock{l: fslock.New(path)}
}

// Acquire blocks until the lock is held or timeout elapses.
func (l *Lock) Acquire(timeout time.Duration) error {
	if err := l.l.LockWithTimeout(timeout); err != nil {
		return fmt.Errorf("could not acquire lock: %w", err)
	}
	return nil
}

// TryAcquire attempts to take the lock without blocking. ok is false if
// another process currently holds it.
func (l *Lock) TryAcquire() (ok bool, err error) {
	err = l.l.TryLock()
	if err == nil {
		return true, nil
	}
	if err == fslock.ErrLocked {
		return false, nil
	}
	return false, fmt.Errorf("could not try lock: %w", err)
}

// Release gives up the lock.
func (l *Lock) Release() error {
	if err := l.l.Unlock(); err != nil {
		return fmt.Errorf("could not release lock: %w", err)
	}
	return nil
}
