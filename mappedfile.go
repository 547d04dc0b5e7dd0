package mappedfile

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/mappedfile/internal/filelock"
	"github.com/hupe1980/mappedfile/internal/fs"
	"github.com/hupe1980/mappedfile/internal/mmap"
	"github.com/hupe1980/mappedfile/internal/refcount"
	"github.com/hupe1980/mappedfile/resource"
)

// MappedFile manages a sparse file as an on-demand set of fixed-size
// mapped chunks with a trailing overlap window per chunk.
//
// The manager is itself reference counted: it is destroyed (cached
// stores drained, file closed) when its count reaches zero. Close
// additionally marks it closed so no new acquisitions are accepted.
type MappedFile struct {
	path string
	file fs.File
	fsys fs.FileSystem

	chunkSize   int64
	overlapSize int64
	capacity    int64

	mu           sync.Mutex
	stores       []*ChunkStore
	materialized *roaring.Bitmap
	listener     NewChunkListener

	refs   *refcount.Counter
	closed atomic.Bool

	logger     *Logger
	metrics    MetricsCollector
	controller *resource.Controller
}

// Open opens (creating if absent) the file at path and returns a
// manager with the given chunk and overlap sizes. Both sizes are
// rounded up to a multiple of the OS page size; chunkSize must be
// positive and overlapSize non-negative.
func Open(path string, chunkSize, overlapSize int64, opts ...Option) (*MappedFile, error) {
	if chunkSize <= 0 || overlapSize < 0 {
		return nil, &ErrInvalidSize{ChunkSize: chunkSize, OverlapSize: overlapSize}
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	f, err := o.fsys.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("mappedfile: open %s: %w", path, err)
	}

	return newMappedFile(path, f, chunkSize, overlapSize, o), nil
}

// OpenWithPageOverlap is Open with the overlap size defaulted to one
// OS page.
func OpenWithPageOverlap(path string, chunkSize int64, opts ...Option) (*MappedFile, error) {
	return Open(path, chunkSize, mmap.PageSize(), opts...)
}

func newMappedFile(path string, f fs.File, chunkSize, overlapSize int64, o options) *MappedFile {
	m := &MappedFile{
		path:         path,
		file:         f,
		fsys:         o.fsys,
		chunkSize:    mmap.Align(chunkSize),
		overlapSize:  mmap.Align(overlapSize),
		capacity:     o.capacity,
		materialized: roaring.New(),
		logger:       o.logger,
		metrics:      o.metrics,
		controller:   o.controller,
	}
	m.listener = o.listener
	if m.listener == nil {
		m.listener = defaultNewChunkListener(m.logger)
	}
	m.refs = refcount.OnReleased(m.performRelease)
	return m
}

// WithSizes returns a manager for the same file with the given sizes.
// If the sizes match the receiver's after page alignment, the receiver
// is returned unchanged. Otherwise a new manager sharing the same file
// handle is returned and the caller's reservation on the receiver is
// released.
//
// Hazard: the two managers keep independent chunk tables backed by the
// same file. Callers must not mix handles acquired from one with the
// other, and the old manager stays alive only while other holders keep
// reservations on it.
func (m *MappedFile) WithSizes(chunkSize, overlapSize int64) (*MappedFile, error) {
	if chunkSize <= 0 || overlapSize < 0 {
		return nil, &ErrInvalidSize{ChunkSize: chunkSize, OverlapSize: overlapSize}
	}
	chunkSize = mmap.Align(chunkSize)
	overlapSize = mmap.Align(overlapSize)
	if chunkSize == m.chunkSize && overlapSize == m.overlapSize {
		return m, nil
	}

	o := options{
		capacity:   m.capacity,
		logger:     m.logger,
		metrics:    m.metrics,
		controller: m.controller,
		fsys:       m.fsys,
	}
	next := newMappedFile(m.path, m.file, chunkSize, overlapSize, o)
	if err := m.Release(); err != nil {
		return nil, err
	}
	return next, nil
}

// AcquireByteStore returns the store covering the absolute file
// position, materializing the chunk if needed. The caller owns one
// reservation on the returned store and must Release it exactly once.
func (m *MappedFile) AcquireByteStore(position int64) (*ChunkStore, error) {
	return m.AcquireByteStoreWith(position, NewChunkStore)
}

// AcquireByteStoreWith is AcquireByteStore with a custom store factory,
// so callers can attach extra per-chunk state.
func (m *MappedFile) AcquireByteStoreWith(position int64, factory ChunkStoreFactory) (*ChunkStore, error) {
	start := time.Now()
	s, err := m.acquireByteStore(position, factory)
	m.metrics.RecordAcquire(time.Since(start), err)
	return s, err
}

func (m *MappedFile) acquireByteStore(position int64, factory ChunkStoreFactory) (*ChunkStore, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	if position < 0 {
		return nil, &ErrInvalidPosition{Position: position}
	}
	// Positions beyond the logical capacity are the caller's contract
	// to enforce; the manager only partitions by chunk.
	chunk := int(position / m.chunkSize)

	m.mu.Lock()
	defer m.mu.Unlock()

	for len(m.stores) <= chunk {
		m.stores = append(m.stores, nil)
	}
	if s := m.stores[chunk]; s != nil && s.TryReserve() {
		return s, nil
	}

	// Cache miss, or the cached store died: materialize the chunk.
	started := time.Now()

	minSize := (int64(chunk)+1)*m.chunkSize + m.overlapSize
	if err := m.growTo(minSize); err != nil {
		return nil, err
	}

	mappedSize := m.chunkSize + m.overlapSize
	grant, err := m.controller.ReserveMapping(mappedSize)
	if err != nil {
		return nil, err
	}
	data, err := mmap.Map(m.file.Fd(), int64(chunk)*m.chunkSize, mappedSize)
	if err != nil {
		grant.Release()
		return nil, err
	}

	safeCapacity := m.chunkSize + m.overlapSize/2
	s := factory(m, int64(chunk)*m.chunkSize, data, safeCapacity)
	s.grant = grant
	m.stores[chunk] = s
	if err := s.Reserve(); err != nil {
		// The factory returned a dead store; unmap and fail rather
		// than publish it.
		m.stores[chunk] = nil
		_ = mmap.Unmap(data)
		grant.Release()
		return nil, err
	}
	m.materialized.Add(uint32(chunk))

	elapsed := time.Since(started)
	m.metrics.RecordChunkAllocation(chunk, elapsed)
	m.fireNewChunkListener(chunk, elapsed)

	return s, nil
}

// growTo extends the file to at least minSize, serializing with peer
// processes through the advisory file lock. The sequence is fixed:
// read size, and only if small lock, re-read, and only if still small
// resize.
func (m *MappedFile) growTo(minSize int64) error {
	size, err := m.fileSize()
	if err != nil {
		return err
	}
	if size >= minSize {
		return nil
	}

	started := time.Now()
	err = func() error {
		lk, err := filelock.Lock(m.file.Fd(), m.path)
		if err != nil {
			return err
		}
		defer lk.Unlock()

		size, err := m.fileSize()
		if err != nil {
			return err
		}
		if size >= minSize {
			// A peer grew the file while we waited for the lock.
			return nil
		}
		return m.file.Truncate(minSize)
	}()
	m.metrics.RecordResize(minSize, time.Since(started), err)
	m.logger.LogResize(m.path, minSize, err)
	if err != nil {
		return &ErrResizeFailed{Target: minSize, cause: err}
	}
	return nil
}

func (m *MappedFile) fileSize() (int64, error) {
	fi, err := m.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("mappedfile: stat %s: %w", m.path, err)
	}
	return fi.Size(), nil
}

func (m *MappedFile) fireNewChunkListener(chunk int, elapsed time.Duration) {
	listener := m.listener
	if listener == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("new chunk listener panicked",
				"path", m.path,
				"chunk", chunk,
				"panic", r,
			)
		}
	}()
	listener(m.path, chunk, elapsed)
}

// Reserve takes an additional reservation on the manager.
func (m *MappedFile) Reserve() error { return m.refs.Reserve() }

// Release drops one reservation on the manager. The reservation that
// takes the count to zero drains the chunk cache and closes the file.
func (m *MappedFile) Release() error {
	err := m.refs.Release()
	m.metrics.RecordRelease(err)
	return err
}

// RefCount returns the manager's current reference count.
func (m *MappedFile) RefCount() int64 { return m.refs.Count() }

// Close marks the manager closed, force-releases every cached store on
// its consumers' behalf and drops the manager's own reservation. It is
// idempotent; consumers still holding stale handles observe ErrReleased
// or ErrRefCountUnderflow on their next operation.
func (m *MappedFile) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}

	m.mu.Lock()
	for i, s := range m.stores {
		if s == nil {
			continue
		}
		for s.RefCount() > 0 {
			if err := s.Release(); err != nil {
				m.logger.LogReleaseError(m.path, err)
				break
			}
		}
		m.stores[i] = nil
	}
	m.mu.Unlock()

	if err := m.Release(); err != nil {
		m.logger.LogReleaseError(m.path, err)
	}
	return nil
}

// performRelease runs when the manager's reference count reaches zero:
// it drops the manager's reservation on every cached store and closes
// the file handle. Errors on this path are logged, not propagated.
func (m *MappedFile) performRelease() {
	m.mu.Lock()
	for i, s := range m.stores {
		if s == nil {
			continue
		}
		count := s.RefCount()
		if count > 0 {
			if err := s.Release(); err != nil {
				m.logger.LogReleaseError(m.path, err)
			}
			if count > 1 {
				// A consumer still holds the store; its last release
				// unmaps.
				continue
			}
		}
		m.stores[i] = nil
	}
	m.mu.Unlock()

	if err := m.file.Close(); err != nil {
		m.logger.LogReleaseError(m.path, err)
	}
}

// ReferenceCounts returns a human-readable snapshot: the manager's
// count followed by the count of each cached store slot (0 for dead or
// empty slots).
func (m *MappedFile) ReferenceCounts() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "refCount: %d", m.RefCount())
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.stores {
		var count int64
		if s != nil {
			count = s.RefCount()
		}
		fmt.Fprintf(&sb, ", %d", count)
	}
	return sb.String()
}

// ActualSize returns the current on-disk size of the file.
func (m *MappedFile) ActualSize() (int64, error) {
	return m.fileSize()
}

// ChunkSize returns the effective (page-aligned) chunk size.
func (m *MappedFile) ChunkSize() int64 { return m.chunkSize }

// OverlapSize returns the effective (page-aligned) overlap size.
func (m *MappedFile) OverlapSize() int64 { return m.overlapSize }

// Capacity returns the logical upper bound of the file.
func (m *MappedFile) Capacity() int64 { return m.capacity }

// Path returns the file path the manager was opened with.
func (m *MappedFile) Path() string { return m.path }

// SetNewChunkListener replaces the chunk materialization callback.
// Pass nil to disable.
func (m *MappedFile) SetNewChunkListener(listener NewChunkListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listener = listener
}

// NewChunkListener returns the current chunk materialization callback.
func (m *MappedFile) NewChunkListener() NewChunkListener {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listener
}

// MaterializedChunks returns the indices of every chunk this manager
// has materialized since it was opened, in ascending order.
func (m *MappedFile) MaterializedChunks() []uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.materialized.ToArray()
}

// ChunkCount returns the number of distinct chunks this manager has
// materialized since it was opened.
func (m *MappedFile) ChunkCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int(m.materialized.GetCardinality())
}
