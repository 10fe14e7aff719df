//go:build !windows

package index

import (
	"errors"
	"os"
	"syscall"
)

// tryLockExclusive takes a non-blocking advisory flock on file, so two
// roost processes cannot rebuild the same index at once.
func tryLockExclusive(file *os.File) error {
	return syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
}

func releaseLock(file *os.File) error {
	return syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
}

// lockIsHeld reports whether err means another process holds the lock.
func lockIsHeld(err error) bool {
	return errors.Is(err, syscall.EWOULDBLOCK) || errors.Is(err, syscall.EAGAIN)
}
