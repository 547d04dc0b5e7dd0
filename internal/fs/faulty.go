package fs

import (
	"os"
	"sync"
)

// Fault defines specific failure behavior for a FaultyFS file.
type Fault struct {
	FailOnTruncate bool
	FailOnSync     bool
	FailOnClose    bool
	FailOnStat     bool
	Err            error
}

// FaultyFS is a FileSystem wrapper that can inject errors into the
// metadata operations the growth protocol depends on.
type FaultyFS struct {
	FS FileSystem

	mu    sync.Mutex
	fault Fault
}

// NewFaultyFS creates a new FaultyFS wrapping the provided FS (or Default if nil).
func NewFaultyFS(fsys FileSystem) *FaultyFS {
	if fsys == nil {
		fsys = Default
	}
	return &FaultyFS{FS: fsys}
}

// SetFault installs the fault applied to files opened from now on and
// to already-open files on their next faultable operation.
func (f *FaultyFS) SetFault(fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fault = fault
}

// ClearFault removes any installed fault.
func (f *FaultyFS) ClearFault() {
	f.SetFault(Fault{})
}

func (f *FaultyFS) current() Fault {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fault
}

func (f *FaultyFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	file, err := f.FS.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fs: f}, nil
}

func (f *FaultyFS) Remove(name string) error              { return f.FS.Remove(name) }
func (f *FaultyFS) Stat(name string) (os.FileInfo, error) { return f.FS.Stat(name) }

type faultyFile struct {
	File
	fs *FaultyFS
}

func (f *faultyFile) Truncate(size int64) error {
	if fault := f.fs.current(); fault.FailOnTruncate {
		return fault.Err
	}
	return f.File.Truncate(size)
}

func (f *faultyFile) Sync() error {
	if fault := f.fs.current(); fault.FailOnSync {
		return fault.Err
	}
	return f.File.Sync()
}

func (f *faultyFile) Stat() (os.FileInfo, error) {
	if fault := f.fs.current(); fault.FailOnStat {
		return nil, fault.Err
	}
	return f.File.Stat()
}

func (f *faultyFile) Close() error {
	if fault := f.fs.current(); fault.FailOnClose {
		f.File.Close()
		return fault.Err
	}
	return f.File.Close()
}
