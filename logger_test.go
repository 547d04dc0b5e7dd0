package mappedfile

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogger_LogNewChunk(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	l.LogNewChunk("t.dat", 3, 100*time.Microsecond)
	assert.Contains(t, buf.String(), "chunk allocated")
	assert.Contains(t, buf.String(), "chunk=3")

	buf.Reset()
	l.LogNewChunk("t.dat", 4, 5*time.Millisecond)
	assert.Contains(t, buf.String(), "slow chunk allocation")
}

func TestLogger_DebugSuppressedByDefault(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewTextHandler(&buf, nil)) // info level

	l.LogNewChunk("t.dat", 0, time.Microsecond)
	assert.Empty(t, buf.String())
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewTextHandler(&buf, nil)).WithPath("t.dat").WithChunk(7)

	l.Info("hello")
	assert.Contains(t, buf.String(), "path=t.dat")
	assert.Contains(t, buf.String(), "chunk=7")
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	l.Error("discarded")
}
