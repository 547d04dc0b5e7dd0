// Package refcount implements the reference counter that governs the
// lifetime of memory mappings.
//
// A Counter starts at one (the creator's reservation) and invokes its
// release callback exactly once, when the count reaches zero. Reserving
// a released counter is a caller bug and fails with [ErrReleased];
// releasing below zero fails with [ErrUnderflow].
//
// TryReserve is the non-blocking variant used by the chunk cache: it
// observes a zero count instead of failing, so a cached entry whose
// last holder is concurrently releasing it is simply treated as dead.
//
// # Thread Safety
//
// All methods are safe for concurrent use. The zero transition uses
// compare-and-swap so the callback runs on exactly one goroutine, and
// the atomic operations order the unmap after all prior accesses made
// through the counted resource.
package refcount
