// Package filelock implements the advisory whole-file exclusive lock
// that serializes file growth between cooperating processes.
//
// The lock is scoped: Lock returns a handle whose Unlock is idempotent,
// so it can be deferred on every exit path.
//
//	lk, err := filelock.Lock(f.Fd(), f.Name())
//	if err != nil { ... }
//	defer lk.Unlock()
//
// On Unix the lock is flock(2) LOCK_EX on the open descriptor; on
// Windows it is LockFileEx over the whole file. The lock is advisory:
// it only excludes peers that also take it. A single process must not
// take the lock twice on the same file.
package filelock
