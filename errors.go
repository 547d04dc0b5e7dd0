package mappedfile

import (
	"errors"
	"fmt"

	"github.com/hupe1980/mappedfile/internal/refcount"
)

var (
	// ErrClosed is returned for operations attempted after Close.
	ErrClosed = errors.New("mappedfile: closed")

	// ErrReleased is returned when reserving a store whose reference
	// count already reached zero.
	ErrReleased = refcount.ErrReleased

	// ErrRefCountUnderflow is returned when Release is called more
	// often than Reserve.
	ErrRefCountUnderflow = refcount.ErrUnderflow

	// ErrReadUnderflow is returned when a cursor read would pass its
	// read limit.
	ErrReadUnderflow = errors.New("mappedfile: read past limit")

	// ErrWriteOverflow is returned when a cursor write would pass its
	// write limit.
	ErrWriteOverflow = errors.New("mappedfile: write past limit")
)

// ErrInvalidPosition indicates an attempt to access a negative position.
type ErrInvalidPosition struct {
	Position int64
}

func (e *ErrInvalidPosition) Error() string {
	return fmt.Sprintf("mappedfile: attempt to access a negative position: %d", e.Position)
}

// ErrInvalidSize indicates invalid chunk or overlap size parameters.
type ErrInvalidSize struct {
	ChunkSize   int64
	OverlapSize int64
}

func (e *ErrInvalidSize) Error() string {
	return fmt.Sprintf("mappedfile: invalid sizes: chunk %d, overlap %d", e.ChunkSize, e.OverlapSize)
}

// ErrResizeFailed indicates the growth protocol failed to extend the
// file to the target size.
//
// The underlying I/O error can be accessed via errors.Unwrap.
type ErrResizeFailed struct {
	Target int64
	cause  error
}

func (e *ErrResizeFailed) Error() string {
	return fmt.Sprintf("mappedfile: failed to resize to %d: %v", e.Target, e.cause)
}

func (e *ErrResizeFailed) Unwrap() error { return e.cause }
