package mappedfile

import (
	"fmt"
	"sync/atomic"
)

// denseMethodIDs is the bound below which handlers are kept in a dense
// slice instead of a map.
const denseMethodIDs = 1000

// MethodHandler decodes and applies one message body.
type MethodHandler func(b *Bytes) error

// Parselet consumes a message whose id has no registered handler.
type Parselet func(messageID int64, b *Bytes) error

// MethodReader decodes a stream of wire messages from a cursor and
// dispatches each to the handler registered for its message id. A
// message is a stop-bit encoded id followed by a handler-defined body;
// the handler must consume exactly the body.
type MethodReader struct {
	in              *Bytes
	defaultParselet Parselet
	dense           []MethodHandler
	sparse          map[int64]MethodHandler
	closed          atomic.Bool
}

// MethodReaderOption configures a MethodReader.
type MethodReaderOption func(*MethodReader)

// WithDefaultParselet installs the handler for unknown message ids.
// Without it, an unknown id is an error.
func WithDefaultParselet(p Parselet) MethodReaderOption {
	return func(r *MethodReader) {
		if p != nil {
			r.defaultParselet = p
		}
	}
}

// NewMethodReader returns a reader decoding from in. The reader does
// not own the cursor's reservation.
func NewMethodReader(in *Bytes, opts ...MethodReaderOption) *MethodReader {
	r := &MethodReader{
		in:     in,
		sparse: make(map[int64]MethodHandler),
		defaultParselet: func(messageID int64, _ *Bytes) error {
			return fmt.Errorf("mappedfile: unknown message id %d", messageID)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// On registers the handler for a message id, replacing any previous
// registration. Small non-negative ids use a dense table.
func (r *MethodReader) On(messageID int64, h MethodHandler) {
	if messageID >= 0 && messageID < denseMethodIDs {
		for int64(len(r.dense)) <= messageID {
			r.dense = append(r.dense, nil)
		}
		r.dense[messageID] = h
		return
	}
	r.sparse[messageID] = h
}

// ReadOne decodes and dispatches the next message. It reports false
// with a nil error when no bytes remain.
func (r *MethodReader) ReadOne() (bool, error) {
	if r.closed.Load() {
		return false, ErrClosed
	}
	if r.in.ReadRemaining() < 1 {
		return false, nil
	}

	messageID, err := r.in.ReadStopBit()
	if err != nil {
		return false, err
	}

	var h MethodHandler
	if messageID >= 0 && messageID < int64(len(r.dense)) {
		h = r.dense[messageID]
	} else {
		h = r.sparse[messageID]
	}
	if h == nil {
		if err := r.defaultParselet(messageID, r.in); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := h(r.in); err != nil {
		return false, err
	}
	return true, nil
}

// Close marks the reader closed; subsequent ReadOne calls fail with
// ErrClosed. It does not release the cursor.
func (r *MethodReader) Close() error {
	r.closed.Store(true)
	return nil
}
