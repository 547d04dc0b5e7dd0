package mappedfile

import (
	"github.com/hupe1980/mappedfile/internal/mmap"
	"github.com/hupe1980/mappedfile/internal/refcount"
	"github.com/hupe1980/mappedfile/resource"
)

// ChunkStore is a reference-counted handle to one live mapping: the
// manager's cache entry and the consumer's working surface.
//
// A store is immutable apart from its reference count. The mapped
// region covers [Start, Start+MappedSize) of the file, where
// MappedSize = chunkSize + overlapSize; Capacity is the advisory write
// limit (chunkSize + overlapSize/2) past which writers should roll to
// the next chunk.
type ChunkStore struct {
	mf    *MappedFile // non-owning; the manager outlives all stores
	start int64
	data  []byte
	safe  int64
	grant *resource.Grant
	refs  *refcount.Counter
}

// ChunkStoreFactory produces the store published for a new mapping.
// data is the full mapped region including overlap. The returned store
// must be live with a reference count of one (the caller's
// reservation); the manager then adds its own before publishing.
type ChunkStoreFactory func(mf *MappedFile, start int64, data []byte, safeCapacity int64) *ChunkStore

// NewChunkStore is the stock ChunkStoreFactory.
func NewChunkStore(mf *MappedFile, start int64, data []byte, safeCapacity int64) *ChunkStore {
	s := &ChunkStore{
		mf:    mf,
		start: start,
		data:  data,
		safe:  safeCapacity,
	}
	s.refs = refcount.OnReleased(s.performRelease)
	return s
}

// performRelease unmaps the region. Runs exactly once, when the last
// reservation drops. After it returns the manager never hands out this
// instance again; any further access to Bytes is undefined.
func (s *ChunkStore) performRelease() {
	data := s.data
	s.data = nil
	if err := mmap.Unmap(data); err != nil {
		s.mf.logger.LogReleaseError(s.mf.path, err)
	}
	s.grant.Release()
}

// Start returns the absolute file offset of byte 0 of the region. It
// is always a multiple of the manager's chunk size.
func (s *ChunkStore) Start() int64 { return s.start }

// Bytes returns the mapped region including the overlap window. The
// slice is valid while the caller holds a reservation.
func (s *ChunkStore) Bytes() []byte { return s.data }

// MappedSize returns the full mapped length including overlap.
func (s *ChunkStore) MappedSize() int64 { return int64(len(s.data)) }

// Capacity returns the safe capacity: consumers should treat bytes
// past it as overlap into the next chunk and switch stores.
func (s *ChunkStore) Capacity() int64 { return s.safe }

// Reserve takes an additional reservation. Fails with ErrReleased if
// the store has already been unmapped.
func (s *ChunkStore) Reserve() error { return s.refs.Reserve() }

// TryReserve takes a reservation unless the count is already zero.
func (s *ChunkStore) TryReserve() bool { return s.refs.TryReserve() }

// Release drops one reservation. The reservation that takes the count
// to zero unmaps the region before Release returns.
func (s *ChunkStore) Release() error {
	err := s.refs.Release()
	s.mf.metrics.RecordRelease(err)
	return err
}

// RefCount returns the current reference count.
func (s *ChunkStore) RefCount() int64 { return s.refs.Count() }

// AdviseWillNeed hints the kernel that the region will be touched soon.
func (s *ChunkStore) AdviseWillNeed() error {
	return mmap.Advise(s.data, mmap.AccessWillNeed)
}
