// Package mappedfile presents a sparse file as an on-demand set of
// fixed-size memory-mapped chunks, each extended by a trailing overlap
// window so records straddling a chunk boundary can be read and written
// contiguously without stitching.
//
// # Overview
//
// A [MappedFile] owns the file handle and a cache of [ChunkStore]
// handles, one per materialized chunk. Callers ask for the store
// covering an absolute file position; the manager returns the cached
// store if it is live, otherwise grows the file (coordinated across
// cooperating processes by an advisory whole-file lock), maps a new
// region and publishes it.
//
//	mf, err := mappedfile.OpenWithPageOverlap("queue.dat", 64<<10)
//	if err != nil { ... }
//	defer mf.Close()
//
//	s, err := mf.AcquireByteStore(0)
//	if err != nil { ... }
//	defer s.Release()
//	copy(s.Bytes(), record)
//
// Cursor convenience wrappers bind a store into a positioned view:
//
//	b, err := mf.AcquireBytesForWrite(pos)
//	if err != nil { ... }
//	defer b.Release()
//	b.WriteUint64(seq)
//
// # Lifecycle
//
// Stores and the manager itself are reference counted. Every successful
// acquire hands the caller one reservation, paired with exactly one
// Release. The manager keeps its own reservation on each cached store;
// a mapping is unmapped when the last reservation drops. Close drains
// all cached stores and closes the file.
//
// # Persisted Layout
//
// The file is a plain sparse file; the manager writes no header or
// metadata of its own, so any tool can read the bytes it stores. File
// size is always a whole number of chunks plus the overlap; holes are
// left to the OS.
//
// # Thread Safety
//
// All MappedFile operations are safe for concurrent use. ChunkStore is
// immutable apart from its atomic reference count. A Bytes cursor is a
// single-goroutine view.
package mappedfile
