//go:build unix

package filelock

import (
	"golang.org/x/sys/unix"
)

func lock(fd uintptr) error {
	return unix.Flock(int(fd), unix.LOCK_EX)
}

func unlock(fd uintptr) error {
	return unix.Flock(int(fd), unix.LOCK_UN)
}
