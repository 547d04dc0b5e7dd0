package mappedfile

import (
	"github.com/hupe1980/mappedfile/internal/fs"
	"github.com/hupe1980/mappedfile/resource"
)

// DefaultCapacity is the default logical upper bound of a mapped file.
const DefaultCapacity int64 = 1 << 40

type options struct {
	capacity   int64
	logger     *Logger
	listener   NewChunkListener
	metrics    MetricsCollector
	controller *resource.Controller
	fsys       fs.FileSystem
}

// Option configures Open behavior.
//
// Options exist to avoid exploding the constructor surface; the zero
// configuration is a fully working manager.
type Option func(*options)

// WithCapacity overrides the logical capacity of the file. The manager
// does not enforce it on acquire; callers that partition positions
// against Capacity use it as their bound.
func WithCapacity(capacity int64) Option {
	return func(o *options) {
		if capacity > 0 {
			o.capacity = capacity
		}
	}
}

// WithLogger configures the structured logger. Pass nil to keep the
// default (text handler to stderr at info level).
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithNewChunkListener installs the observability callback fired when a
// chunk is materialized. See [MappedFile.SetNewChunkListener].
func WithNewChunkListener(listener NewChunkListener) Option {
	return func(o *options) {
		o.listener = listener
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithResourceController attaches a resource controller that caps the
// total bytes of live mappings and governs background warm-up.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithFileSystem overrides the filesystem used to open and grow the
// file. Intended for tests (fault injection).
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys != nil {
			o.fsys = fsys
		}
	}
}

func defaultOptions() options {
	return options{
		capacity: DefaultCapacity,
		logger:   NewLogger(nil),
		metrics:  NoopMetricsCollector{},
		fsys:     fs.Default,
	}
}
