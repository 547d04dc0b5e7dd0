//go:build unix

package mmap

import (
	"golang.org/x/sys/unix"
)

func osMap(fd uintptr, offset, length int64) ([]byte, error) {
	prot := unix.PROT_READ | unix.PROT_WRITE
	return unix.Mmap(int(fd), offset, int(length), prot, unix.MAP_SHARED)
}

func osUnmap(data []byte) error {
	return unix.Munmap(data)
}

func osAdvise(data []byte, pattern AccessPattern) error {
	var advice int
	switch pattern {
	case AccessSequential:
		advice = unix.MADV_SEQUENTIAL
	case AccessRandom:
		advice = unix.MADV_RANDOM
	case AccessWillNeed:
		advice = unix.MADV_WILLNEED
	case AccessDontNeed:
		advice = unix.MADV_DONTNEED
	default:
		advice = unix.MADV_NORMAL
	}

	err := unix.Madvise(data, advice)
	if err == unix.EINVAL {
		// Likely a page alignment issue on Linux - the hint is advisory,
		// so ignore it.
		return nil
	}
	return err
}
