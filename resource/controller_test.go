package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_ReserveMapping(t *testing.T) {
	c := NewController(Config{MappedLimitBytes: 100})

	g1, err := c.ReserveMapping(50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), c.MappedUsage())
	assert.Equal(t, int64(50), g1.Bytes())

	g2, err := c.ReserveMapping(50)
	require.NoError(t, err)
	assert.Equal(t, int64(100), c.MappedUsage())

	_, err = c.ReserveMapping(1)
	assert.ErrorIs(t, err, ErrMappedLimitExceeded)

	g1.Release()
	assert.Equal(t, int64(50), c.MappedUsage())

	g3, err := c.ReserveMapping(25)
	require.NoError(t, err)

	g2.Release()
	g3.Release()
	assert.Equal(t, int64(0), c.MappedUsage())
	assert.Equal(t, int64(100), c.MappedPeak())
}

func TestController_GrantReleaseIdempotent(t *testing.T) {
	c := NewController(Config{MappedLimitBytes: 100})

	g, err := c.ReserveMapping(40)
	require.NoError(t, err)

	g.Release()
	g.Release()
	assert.Equal(t, int64(0), c.MappedUsage())
}

func TestController_TrackOnlyWithoutLimit(t *testing.T) {
	c := NewController(Config{})

	g, err := c.ReserveMapping(1 << 40)
	require.NoError(t, err)
	assert.Equal(t, int64(1<<40), c.MappedUsage())
	assert.Equal(t, int64(0), c.MappedLimit())

	g.Release()
	assert.Equal(t, int64(0), c.MappedUsage())
	assert.Equal(t, int64(1<<40), c.MappedPeak())
}

func TestController_BackgroundSlots(t *testing.T) {
	c := NewController(Config{MaxBackgroundWorkers: 1})

	done, err := c.BeginBackground(context.Background())
	require.NoError(t, err)

	_, ok := c.TryBeginBackground()
	assert.False(t, ok)

	done()
	done2, ok := c.TryBeginBackground()
	require.True(t, ok)
	done2()
}

func TestController_BackgroundCancelled(t *testing.T) {
	c := NewController(Config{MaxBackgroundWorkers: 1})

	done, err := c.BeginBackground(context.Background())
	require.NoError(t, err)
	defer done()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.BeginBackground(ctx)
	assert.Error(t, err)
}

func TestController_NilSafe(t *testing.T) {
	var c *Controller

	g, err := c.ReserveMapping(10)
	require.NoError(t, err)
	g.Release()
	assert.Equal(t, int64(0), g.Bytes())
	assert.Equal(t, int64(0), c.MappedUsage())
	assert.Equal(t, int64(0), c.MappedPeak())
	assert.Equal(t, int64(0), c.MappedLimit())

	done, err := c.BeginBackground(context.Background())
	require.NoError(t, err)
	done()

	done, ok := c.TryBeginBackground()
	require.True(t, ok)
	done()

	require.NoError(t, c.ThrottleTouch(context.Background(), 1024))
}

func TestController_ThrottleTouch(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	// Within the burst, admits immediately.
	require.NoError(t, c.ThrottleTouch(context.Background(), 1024))
}
