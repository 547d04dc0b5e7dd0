package resource

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMappedLimitExceeded is returned when reserving a mapping would
// push live mapped memory past the configured limit.
var ErrMappedLimitExceeded = errors.New("mapped memory limit exceeded")

// Config holds resource limits for a chunk manager.
type Config struct {
	// MappedLimitBytes caps the bytes of live mappings across every
	// manager sharing this controller. 0 means track only, no cap.
	MappedLimitBytes int64

	// MaxBackgroundWorkers bounds concurrent warm-up jobs. 0 means one.
	MaxBackgroundWorkers int64

	// IOLimitBytesPerSec throttles background page touching so warm-up
	// does not starve foreground acquires. 0 means unthrottled.
	IOLimitBytesPerSec int64
}

// Controller tracks the mapped-memory budget and governs background
// work for one or more chunk managers.
//
// Mapped-memory reservations are deliberately fail-fast: a reservation
// happens mid-acquire with the chunk table locked, so it must never
// wait for another mapping to be released. Background-worker slots are
// the opposite - warm-up jobs have nothing better to do than queue.
//
// A nil *Controller is valid and disables every limit.
type Controller struct {
	limit int64

	inUse atomic.Int64
	peak  atomic.Int64

	workers *semaphore.Weighted
	touch   *rate.Limiter
}

// NewController returns a controller enforcing cfg.
func NewController(cfg Config) *Controller {
	workers := cfg.MaxBackgroundWorkers
	if workers <= 0 {
		workers = 1
	}
	c := &Controller{
		limit:   cfg.MappedLimitBytes,
		workers: semaphore.NewWeighted(workers),
	}
	if cfg.IOLimitBytesPerSec > 0 {
		c.touch = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}
	return c
}

// Grant is one held mapped-memory reservation, sized for a single
// mapping (chunk plus overlap). Release returns the budget; it is
// idempotent so the unmap path can run it unconditionally.
type Grant struct {
	c     *Controller
	bytes int64
	once  sync.Once
}

// Release returns the granted budget to the controller.
func (g *Grant) Release() {
	if g == nil || g.c == nil {
		return
	}
	g.once.Do(func() {
		g.c.inUse.Add(-g.bytes)
	})
}

// Bytes returns the size of the reservation.
func (g *Grant) Bytes() int64 {
	if g == nil {
		return 0
	}
	return g.bytes
}

// ReserveMapping reserves budget for one mapping of the given size,
// failing with ErrMappedLimitExceeded when the cap would be crossed.
// It never blocks: the caller holds the chunk table lock, and queueing
// there would stall every acquire behind an unmap that may never come.
func (c *Controller) ReserveMapping(bytes int64) (*Grant, error) {
	if c == nil || bytes <= 0 {
		return nil, nil
	}
	for {
		used := c.inUse.Load()
		next := used + bytes
		if c.limit > 0 && next > c.limit {
			return nil, ErrMappedLimitExceeded
		}
		if !c.inUse.CompareAndSwap(used, next) {
			continue
		}
		c.notePeak(next)
		return &Grant{c: c, bytes: bytes}, nil
	}
}

func (c *Controller) notePeak(used int64) {
	for {
		peak := c.peak.Load()
		if used <= peak || c.peak.CompareAndSwap(peak, used) {
			return
		}
	}
}

// MappedUsage returns the bytes of live mappings currently reserved.
func (c *Controller) MappedUsage() int64 {
	if c == nil {
		return 0
	}
	return c.inUse.Load()
}

// MappedPeak returns the highest usage observed since construction.
func (c *Controller) MappedPeak() int64 {
	if c == nil {
		return 0
	}
	return c.peak.Load()
}

// MappedLimit returns the configured cap in bytes, 0 when uncapped.
func (c *Controller) MappedLimit() int64 {
	if c == nil {
		return 0
	}
	return c.limit
}

// BeginBackground claims a background worker slot, waiting until one
// frees or ctx is done. The returned func gives the slot back and must
// be called exactly once; it is safe to defer.
func (c *Controller) BeginBackground(ctx context.Context) (func(), error) {
	if c == nil {
		return func() {}, nil
	}
	if err := c.workers.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { c.workers.Release(1) }, nil
}

// TryBeginBackground claims a worker slot only if one is free right
// now, reporting whether it did.
func (c *Controller) TryBeginBackground() (func(), bool) {
	if c == nil {
		return func() {}, true
	}
	if !c.workers.TryAcquire(1) {
		return nil, false
	}
	return func() { c.workers.Release(1) }, true
}

// ThrottleTouch waits until the IO budget allows touching the given
// number of bytes. Foreground paths never call this; it exists so
// warm-up faults pages in at a bounded rate.
func (c *Controller) ThrottleTouch(ctx context.Context, bytes int) error {
	if c == nil || c.touch == nil {
		return nil
	}
	return c.touch.WaitN(ctx, bytes)
}
