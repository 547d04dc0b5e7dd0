package mappedfile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/mappedfile/resource"
)

func TestWarmUp(t *testing.T) {
	rc := resource.NewController(resource.Config{
		MaxBackgroundWorkers: 2,
		IOLimitBytesPerSec:   64 << 20,
	})
	mf := openTestFile(t, WithResourceController(rc))
	defer mf.Close()

	require.NoError(t, mf.WarmUp(context.Background(), 0, 3*mf.ChunkSize()))

	assert.Equal(t, []uint32{0, 1, 2}, mf.MaterializedChunks())

	size, err := mf.ActualSize()
	require.NoError(t, err)
	assert.Equal(t, 3*mf.ChunkSize()+mf.OverlapSize(), size)

	// WarmUp leaves only the manager's cache reservation per store.
	assert.Equal(t, "refCount: 1, 1, 1, 1", mf.ReferenceCounts())
}

func TestWarmUp_NoController(t *testing.T) {
	mf := openTestFile(t)
	defer mf.Close()

	require.NoError(t, mf.WarmUp(context.Background(), 0, mf.ChunkSize()+1))
	assert.Equal(t, 2, mf.ChunkCount())
}

func TestWarmUp_EmptyRange(t *testing.T) {
	mf := openTestFile(t)
	defer mf.Close()

	require.NoError(t, mf.WarmUp(context.Background(), 100, 100))
	assert.Equal(t, 0, mf.ChunkCount())
}

func TestWarmUp_NegativeFrom(t *testing.T) {
	mf := openTestFile(t)
	defer mf.Close()

	var ip *ErrInvalidPosition
	assert.ErrorAs(t, mf.WarmUp(context.Background(), -1, 100), &ip)
}

func TestWarmUp_Cancelled(t *testing.T) {
	rc := resource.NewController(resource.Config{MaxBackgroundWorkers: 1})
	mf := openTestFile(t, WithResourceController(rc))
	defer mf.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, mf.WarmUp(ctx, 0, 8*mf.ChunkSize()))
}
