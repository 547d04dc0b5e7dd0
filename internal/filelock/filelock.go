package filelock

import (
	"fmt"
	"sync"
)

// Lock acquires an exclusive advisory lock on the open file fd,
// blocking until peer processes release theirs. name is used in error
// messages only.
func Lock(fd uintptr, name string) (*Handle, error) {
	if err := lock(fd); err != nil {
		return nil, fmt.Errorf("filelock: lock %s: %w", name, err)
	}
	return &Handle{fd: fd, name: name}, nil
}

// Handle is a held exclusive lock. Unlock releases it; calling Unlock
// more than once is a no-op.
type Handle struct {
	fd   uintptr
	name string
	once sync.Once
}

// Unlock releases the lock. Safe to defer alongside an explicit call.
func (h *Handle) Unlock() error {
	var err error
	h.once.Do(func() {
		if e := unlock(h.fd); e != nil {
			err = fmt.Errorf("filelock: unlock %s: %w", h.name, e)
		}
	})
	return err
}
