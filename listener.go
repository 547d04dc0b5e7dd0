package mappedfile

import "time"

// NewChunkListener observes chunk materialization. It receives the file
// path, the chunk index, and the elapsed time since the growth step
// began.
//
// Listeners run on the acquiring goroutine while the chunk table lock
// is held; they must be fast and must not panic. A panicking listener
// is a programming error; the manager recovers and logs it so the
// acquire still succeeds.
type NewChunkListener func(path string, chunk int, elapsed time.Duration)

func defaultNewChunkListener(l *Logger) NewChunkListener {
	return func(path string, chunk int, elapsed time.Duration) {
		l.LogNewChunk(path, chunk, elapsed)
	}
}
