//go:build windows

package index

import (
	"errors"
	"os"

	"golang.org/x/sys/windows"
)

// LockFileEx wants a byte range; a single byte is enough for a lock that
// only ever guards the whole index.
const lockRegionBytes uint32 = 1

// tryLockExclusive takes a non-blocking exclusive lock on file, so two
// roost processes cannot rebuild the same index at once.
func tryLockExclusive(file *os.File) error {
	var ov windows.Overlapped
	return windows.LockFileEx(
		windows.Handle(file.Fd()),
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
		0,
		lockRegionBytes,
		0,
		&ov,
	)
}

func releaseLock(file *os.File) error {
	var ov windows.Overlapped
	return windows.UnlockFileEx(
		windows.Handle(file.Fd()),
		0,
		lockRegionBytes,
		0,
		&ov,
	)
}

// lockIsHeld reports whether err means another process holds the lock.
func lockIsHeld(err error) bool {
	return errors.Is(err, windows.ERROR_LOCK_VIOLATION) ||
		errors.Is(err, windows.ERROR_SHARING_VIOLATION)
}
