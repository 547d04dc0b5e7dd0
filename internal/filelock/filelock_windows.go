//go:build windows

package filelock

import (
	"golang.org/x/sys/windows"
)

// Lock the maximum possible range so the whole file is covered
// regardless of its current length.
const allBytes = ^uint32(0)

func lock(fd uintptr) error {
	ol := new(windows.Overlapped)
	return windows.LockFileEx(windows.Handle(fd), windows.LOCKFILE_EXCLUSIVE_LOCK,
		0, allBytes, allBytes, ol)
}

func unlock(fd uintptr) error {
	ol := new(windows.Overlapped)
	return windows.UnlockFileEx(windows.Handle(fd), 0, allBytes, allBytes, ol)
}
