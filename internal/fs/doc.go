// Package fs provides filesystem abstractions for testability and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: Represents an open file with the operations the chunk
//     manager needs (stat, truncate, sync, raw descriptor access)
//   - [FileSystem]: Abstracts filesystem operations (open, remove, stat)
//
// # Implementations
//
//   - [LocalFS]: Production implementation using standard os package
//   - [FaultyFS]: Test utility for fault injection (simulate I/O errors)
//
// Production code should use fs.Default (which is [LocalFS]):
//
//	file, err := fs.Default.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
//
// Tests can inject [FaultyFS] to simulate failures:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.SetFault(fs.Fault{FailOnTruncate: true, Err: someErr})
//	// inject ffs into component under test
//
// # Design Notes
//
// File exposes Fd() so memory mapping and advisory locking operate on
// the real descriptor even when the File itself is a fault-injecting
// wrapper; faults apply to the wrapped metadata operations (truncate,
// sync, stat, close), which is where the growth protocol is sensitive.
package fs
