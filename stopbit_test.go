package mappedfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopBit_RoundTrip(t *testing.T) {
	mf := openTestFile(t)
	defer mf.Close()

	values := []int64{0, 1, 127, 128, 300, 16384, 1 << 20, 1 << 40, -1, -128, -500, -(1 << 33)}

	w, err := mf.AcquireBytesForWrite(0)
	require.NoError(t, err)
	for _, v := range values {
		require.NoError(t, w.WriteStopBit(v))
	}
	require.NoError(t, w.Release())

	r, err := mf.AcquireBytesForRead(0)
	require.NoError(t, err)
	defer r.Release()

	for _, want := range values {
		got, err := r.ReadStopBit()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestStopBit_Encoding(t *testing.T) {
	mf := openTestFile(t)
	defer mf.Close()

	tests := []struct {
		value int64
		bytes []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xAC, 0x02}},
		{-1, []byte{0x80, 0x00}},
	}

	for _, tt := range tests {
		w, err := mf.AcquireBytesForWrite(0)
		require.NoError(t, err)
		require.NoError(t, w.WriteStopBit(tt.value))

		end := w.WritePosition()
		got := make([]byte, end)
		copy(got, w.Store().Bytes()[:end])
		assert.Equal(t, tt.bytes, got, "value %d", tt.value)

		require.NoError(t, w.Release())
	}
}
