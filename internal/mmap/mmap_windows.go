//go:build windows

package mmap

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func osMap(fd uintptr, offset, length int64) ([]byte, error) {
	maxSize := uint64(offset) + uint64(length)

	h, err := windows.CreateFileMapping(windows.Handle(fd), nil, windows.PAGE_READWRITE,
		uint32(maxSize>>32), uint32(maxSize), nil)
	if err != nil {
		return nil, err
	}
	// The view holds a reference, so the mapping handle can be closed
	// immediately.
	defer windows.CloseHandle(h)

	addr, err := windows.MapViewOfFile(h, windows.FILE_MAP_READ|windows.FILE_MAP_WRITE,
		uint32(uint64(offset)>>32), uint32(uint64(offset)), uintptr(length))
	if err != nil {
		return nil, err
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), length), nil
}

func osUnmap(data []byte) error {
	return windows.UnmapViewOfFile(uintptr(unsafe.Pointer(&data[0])))
}

func osAdvise(data []byte, pattern AccessPattern) error {
	// Windows has no madvise equivalent; the OS page cache still
	// handles sequential access well.
	_ = data
	_ = pattern
	return nil
}
