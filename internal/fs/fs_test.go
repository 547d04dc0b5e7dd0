package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS_OpenTruncateStat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.dat")

	f, err := Default.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, f.Truncate(4096))

	fi, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(4096), fi.Size())
}

func TestFaultyFS_Truncate(t *testing.T) {
	injected := errors.New("boom")
	ffs := NewFaultyFS(nil)

	path := filepath.Join(t.TempDir(), "file.dat")
	f, err := ffs.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	defer f.Close()

	ffs.SetFault(Fault{FailOnTruncate: true, Err: injected})
	assert.ErrorIs(t, f.Truncate(4096), injected)

	ffs.ClearFault()
	require.NoError(t, f.Truncate(4096))

	fi, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(4096), fi.Size())
}

func TestFaultyFS_StatAndSync(t *testing.T) {
	injected := errors.New("io down")
	ffs := NewFaultyFS(nil)

	path := filepath.Join(t.TempDir(), "file.dat")
	f, err := ffs.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	defer f.Close()

	ffs.SetFault(Fault{FailOnStat: true, FailOnSync: true, Err: injected})

	_, err = f.Stat()
	assert.ErrorIs(t, err, injected)
	assert.ErrorIs(t, f.Sync(), injected)
}
