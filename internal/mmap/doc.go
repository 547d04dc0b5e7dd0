// Package mmap provides the platform map primitives for chunked file
// access: page-size queries, page alignment, read-write mappings at a
// file offset, unmapping, and access-pattern hints.
//
// # Usage
//
//	data, err := mmap.Map(f.Fd(), chunkIndex*chunkSize, chunkSize+overlapSize)
//	if err != nil { ... }
//	defer mmap.Unmap(data)
//
//	// Hint that the region will be touched soon.
//	mmap.Advise(data, mmap.AccessWillNeed)
//
// The offset passed to Map must be a multiple of [PageSize]; callers
// keep chunk sizes page-aligned via [Align] so every chunk offset is.
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_SHARED and madvise(2)
//   - Windows: CreateFileMapping/MapViewOfFile (Advise is a no-op)
//
// Mappings are PROT_READ|PROT_WRITE and shared, so writes through the
// returned slice are visible to every process mapping the same pages.
package mmap
