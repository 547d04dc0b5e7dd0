package mappedfile

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// WarmUp materializes every chunk covering [from, to) ahead of use and
// hints the kernel to fault the pages in. Jobs run concurrently,
// bounded by the resource controller's background worker slots and
// rate limited by its IO limiter; without a controller the fan-out is
// unbounded by resources but still one goroutine per chunk.
//
// WarmUp holds no reservations when it returns: each chunk store is
// acquired, advised and released, leaving the manager's own cache
// reservation to keep the mapping live.
func (m *MappedFile) WarmUp(ctx context.Context, from, to int64) error {
	if from < 0 {
		return &ErrInvalidPosition{Position: from}
	}
	if to <= from {
		return nil
	}

	first := from / m.chunkSize
	last := (to - 1) / m.chunkSize

	g, ctx := errgroup.WithContext(ctx)
	for chunk := first; chunk <= last; chunk++ {
		position := chunk * m.chunkSize
		g.Go(func() error {
			done, err := m.controller.BeginBackground(ctx)
			if err != nil {
				return err
			}
			defer done()

			s, err := m.AcquireByteStore(position)
			if err != nil {
				return err
			}
			defer func() {
				if err := s.Release(); err != nil {
					m.logger.LogReleaseError(m.path, err)
				}
			}()

			if err := m.controller.ThrottleTouch(ctx, int(s.MappedSize())); err != nil {
				return err
			}
			return s.AdviseWillNeed()
		})
	}
	return g.Wait()
}
