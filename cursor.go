package mappedfile

import (
	"encoding/binary"
	"io"
)

// Bytes is a positioned cursor over one reserved [ChunkStore]. It
// addresses the file in absolute positions and keeps independent read
// and write positions with their limits, so a record that starts in
// the chunk can be written and read back contiguously through the
// overlap window.
//
// A Bytes holds exactly one reservation on its store; Release drops
// it. The cursor is not safe for concurrent use.
type Bytes struct {
	store *ChunkStore
	data  []byte
	start int64

	readPos  int64
	readLim  int64
	writePos int64
	writeLim int64
}

// NewBytes returns a cursor over s spanning the full mapped region,
// taking its own reservation on s.
func NewBytes(s *ChunkStore) (*Bytes, error) {
	if err := s.Reserve(); err != nil {
		return nil, err
	}
	b := &Bytes{}
	b.adopt(s, s.Start(), s.MappedSize())
	return b, nil
}

// adopt points the cursor at s without reserving: ownership of one
// existing reservation transfers to the cursor.
func (b *Bytes) adopt(s *ChunkStore, offset, length int64) {
	b.store = s
	b.data = s.Bytes()
	b.start = s.Start()
	b.readPos = offset
	b.readLim = offset + length
	b.writePos = offset
	b.writeLim = offset + length
}

// SetStore rebinds the cursor to s at the given offset and length,
// adopting one reservation on s (the caller's, typically fresh from
// AcquireByteStore) and releasing the previous store if any.
func (b *Bytes) SetStore(s *ChunkStore, offset, length int64) error {
	old := b.store
	b.adopt(s, offset, length)
	if old != nil {
		return old.Release()
	}
	return nil
}

// Store returns the underlying ChunkStore, or nil after Release.
func (b *Bytes) Store() *ChunkStore { return b.store }

// Release drops the cursor's reservation on its store. The cursor is
// dead afterwards; further calls return ErrReleased.
func (b *Bytes) Release() error {
	if b.store == nil {
		return ErrReleased
	}
	s := b.store
	b.store = nil
	b.data = nil
	return s.Release()
}

// ReadPosition returns the cursor's absolute read position.
func (b *Bytes) ReadPosition() int64 { return b.readPos }

// SetReadPosition moves the read position. It fails with
// ErrReadUnderflow if pos is outside [start, readLimit].
func (b *Bytes) SetReadPosition(pos int64) error {
	if pos < b.start || pos > b.readLim {
		return ErrReadUnderflow
	}
	b.readPos = pos
	return nil
}

// ReadLimit returns the absolute position reads must not pass.
func (b *Bytes) ReadLimit() int64 { return b.readLim }

// ReadRemaining returns the bytes available to read.
func (b *Bytes) ReadRemaining() int64 { return b.readLim - b.readPos }

// WritePosition returns the cursor's absolute write position.
func (b *Bytes) WritePosition() int64 { return b.writePos }

// SetWritePosition moves the write position. It fails with
// ErrWriteOverflow if pos is outside [start, writeLimit].
func (b *Bytes) SetWritePosition(pos int64) error {
	if pos < b.start || pos > b.writeLim {
		return ErrWriteOverflow
	}
	b.writePos = pos
	return nil
}

// WriteLimit returns the absolute position writes must not pass.
func (b *Bytes) WriteLimit() int64 { return b.writeLim }

// WriteRemaining returns the bytes available to write.
func (b *Bytes) WriteRemaining() int64 { return b.writeLim - b.writePos }

func (b *Bytes) translate(pos int64) int64 { return pos - b.start }

// Read implements io.Reader over [readPos, readLimit), advancing the
// read position. At the limit it returns io.EOF.
func (b *Bytes) Read(p []byte) (int, error) {
	if b.store == nil {
		return 0, ErrReleased
	}
	remaining := b.ReadRemaining()
	if remaining <= 0 {
		return 0, io.EOF
	}
	n := int64(len(p))
	if n > remaining {
		n = remaining
	}
	copy(p, b.data[b.translate(b.readPos):b.translate(b.readPos+n)])
	b.readPos += n
	return int(n), nil
}

// Write implements io.Writer at the write position, advancing it. A
// write that would pass the write limit fails with ErrWriteOverflow
// and writes nothing.
func (b *Bytes) Write(p []byte) (int, error) {
	if b.store == nil {
		return 0, ErrReleased
	}
	n := int64(len(p))
	if n > b.WriteRemaining() {
		return 0, ErrWriteOverflow
	}
	copy(b.data[b.translate(b.writePos):b.translate(b.writePos+n)], p)
	b.writePos += n
	return int(n), nil
}

// ReadByte reads one byte at the read position.
func (b *Bytes) ReadByte() (byte, error) {
	if b.store == nil {
		return 0, ErrReleased
	}
	if b.ReadRemaining() < 1 {
		return 0, ErrReadUnderflow
	}
	c := b.data[b.translate(b.readPos)]
	b.readPos++
	return c, nil
}

// WriteByte writes one byte at the write position.
func (b *Bytes) WriteByte(c byte) error {
	if b.store == nil {
		return ErrReleased
	}
	if b.WriteRemaining() < 1 {
		return ErrWriteOverflow
	}
	b.data[b.translate(b.writePos)] = c
	b.writePos++
	return nil
}

// ReadUint16 reads a little-endian uint16 at the read position.
func (b *Bytes) ReadUint16() (uint16, error) {
	if b.store == nil {
		return 0, ErrReleased
	}
	if b.ReadRemaining() < 2 {
		return 0, ErrReadUnderflow
	}
	v := binary.LittleEndian.Uint16(b.data[b.translate(b.readPos):])
	b.readPos += 2
	return v, nil
}

// WriteUint16 writes a little-endian uint16 at the write position.
func (b *Bytes) WriteUint16(v uint16) error {
	if b.store == nil {
		return ErrReleased
	}
	if b.WriteRemaining() < 2 {
		return ErrWriteOverflow
	}
	binary.LittleEndian.PutUint16(b.data[b.translate(b.writePos):], v)
	b.writePos += 2
	return nil
}

// ReadUint32 reads a little-endian uint32 at the read position.
func (b *Bytes) ReadUint32() (uint32, error) {
	if b.store == nil {
		return 0, ErrReleased
	}
	if b.ReadRemaining() < 4 {
		return 0, ErrReadUnderflow
	}
	v := binary.LittleEndian.Uint32(b.data[b.translate(b.readPos):])
	b.readPos += 4
	return v, nil
}

// WriteUint32 writes a little-endian uint32 at the write position.
func (b *Bytes) WriteUint32(v uint32) error {
	if b.store == nil {
		return ErrReleased
	}
	if b.WriteRemaining() < 4 {
		return ErrWriteOverflow
	}
	binary.LittleEndian.PutUint32(b.data[b.translate(b.writePos):], v)
	b.writePos += 4
	return nil
}

// ReadUint64 reads a little-endian uint64 at the read position.
func (b *Bytes) ReadUint64() (uint64, error) {
	if b.store == nil {
		return 0, ErrReleased
	}
	if b.ReadRemaining() < 8 {
		return 0, ErrReadUnderflow
	}
	v := binary.LittleEndian.Uint64(b.data[b.translate(b.readPos):])
	b.readPos += 8
	return v, nil
}

// WriteUint64 writes a little-endian uint64 at the write position.
func (b *Bytes) WriteUint64(v uint64) error {
	if b.store == nil {
		return ErrReleased
	}
	if b.WriteRemaining() < 8 {
		return ErrWriteOverflow
	}
	binary.LittleEndian.PutUint64(b.data[b.translate(b.writePos):], v)
	b.writePos += 8
	return nil
}

// AppendUTF8 writes the UTF-8 encoding of s at the write position.
func (b *Bytes) AppendUTF8(s string) error {
	_, err := b.Write([]byte(s))
	return err
}

// ReadUTF8 reads n bytes at the read position and returns them as a
// string.
func (b *Bytes) ReadUTF8(n int64) (string, error) {
	if b.store == nil {
		return "", ErrReleased
	}
	if b.ReadRemaining() < n {
		return "", ErrReadUnderflow
	}
	s := string(b.data[b.translate(b.readPos):b.translate(b.readPos+n)])
	b.readPos += n
	return s, nil
}

// ByteCheckSum sums the bytes in [readPos, readLimit) modulo 256,
// without moving the read position.
func (b *Bytes) ByteCheckSum() (int, error) {
	if b.store == nil {
		return 0, ErrReleased
	}
	var sum byte
	for _, c := range b.data[b.translate(b.readPos):b.translate(b.readLim)] {
		sum += c
	}
	return int(sum), nil
}

// AcquireBytesForRead returns a read cursor positioned at position
// whose read limit is the end of the chunk's mapped region (including
// the overlap window). The cursor holds the only caller-side
// reservation on the store.
func (m *MappedFile) AcquireBytesForRead(position int64) (*Bytes, error) {
	s, err := m.AcquireByteStore(position)
	if err != nil {
		return nil, err
	}
	b := &Bytes{}
	b.adopt(s, s.Start(), s.MappedSize())
	b.readPos = position
	b.writePos = b.writeLim // nothing writable through a read cursor
	return b, nil
}

// AcquireBytesForReadInto rebinds the caller's cursor to the store
// covering position, with offset position and length
// Capacity() - (position - Start()).
func (m *MappedFile) AcquireBytesForReadInto(position int64, b *Bytes) error {
	s, err := m.AcquireByteStore(position)
	if err != nil {
		return err
	}
	if err := b.SetStore(s, position, s.Capacity()-(position-s.Start())); err != nil {
		return err
	}
	b.writePos = b.writeLim
	return nil
}

// AcquireBytesForWrite returns a write cursor positioned at position
// whose write limit is the chunk's safe capacity; reads through the
// same cursor are limited to the written range's chunk as well.
func (m *MappedFile) AcquireBytesForWrite(position int64) (*Bytes, error) {
	s, err := m.AcquireByteStore(position)
	if err != nil {
		return nil, err
	}
	b := &Bytes{}
	b.adopt(s, s.Start(), s.MappedSize())
	b.readPos = position
	b.writePos = position
	b.writeLim = s.Start() + s.Capacity()
	return b, nil
}

// AcquireBytesForWriteInto rebinds the caller's cursor to the store
// covering position for writing, with offset position and length
// Capacity() - (position - Start()).
func (m *MappedFile) AcquireBytesForWriteInto(position int64, b *Bytes) error {
	s, err := m.AcquireByteStore(position)
	if err != nil {
		return err
	}
	return b.SetStore(s, position, s.Capacity()-(position-s.Start()))
}
