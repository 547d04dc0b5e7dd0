package refcount

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter_Lifecycle(t *testing.T) {
	released := 0
	c := OnReleased(func() { released++ })

	assert.Equal(t, int64(1), c.Count())

	require.NoError(t, c.Reserve())
	assert.Equal(t, int64(2), c.Count())

	require.NoError(t, c.Release())
	assert.Equal(t, int64(1), c.Count())
	assert.Equal(t, 0, released)

	require.NoError(t, c.Release())
	assert.Equal(t, int64(0), c.Count())
	assert.Equal(t, 1, released)
}

func TestCounter_ReleaseBelowZero(t *testing.T) {
	c := OnReleased(nil)
	require.NoError(t, c.Release())

	err := c.Release()
	assert.ErrorIs(t, err, ErrUnderflow)
	assert.Equal(t, int64(0), c.Count())
}

func TestCounter_ReserveAfterRelease(t *testing.T) {
	c := OnReleased(nil)
	require.NoError(t, c.Release())

	assert.ErrorIs(t, c.Reserve(), ErrReleased)
	assert.False(t, c.TryReserve())
}

func TestCounter_TryReserve(t *testing.T) {
	c := OnReleased(nil)

	assert.True(t, c.TryReserve())
	assert.Equal(t, int64(2), c.Count())

	require.NoError(t, c.Release())
	require.NoError(t, c.Release())
	assert.False(t, c.TryReserve())
}

func TestCounter_CallbackRunsOnce(t *testing.T) {
	released := 0
	c := OnReleased(func() { released++ })

	const n = 32
	for i := 0; i < n; i++ {
		require.NoError(t, c.Reserve())
	}

	var wg sync.WaitGroup
	for i := 0; i < n+1; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.Release())
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(0), c.Count())
	assert.Equal(t, 1, released)
}
