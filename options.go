package nanocube

import (
	"log/slog"

	"github.com/hupe1980/nanocube/codec"
	"github.com/hupe1980/nanocube/compress"
	"github.com/hupe1980/nanocube/resource"
	"github.com/hupe1980/nanocube/rowset"
)

type options struct {
	backend       rowset.Kind
	dimensions    []string
	measures      []string
	caching       bool
	cacheCapacity int
	codec         codec.Codec
	compressor    compress.Compressor
	rc            *resource.Controller
	buildWorkers  int
	logger        *Logger
	metrics       MetricsCollector
}

// Option configures Build and Load behavior.
type Option func(*options)

// WithBackend selects the row-set backend. The choice is fixed at build
// time and recorded in snapshots; Load ignores this option and uses the
// backend the file was written with.
func WithBackend(kind rowset.Kind) Option {
	return func(o *options) {
		o.backend = kind
	}
}

// WithDimensions names the columns to index as dimensions, overriding the
// type-based default (every non-float, non-measure column).
func WithDimensions(names ...string) Option {
	return func(o *options) {
		o.dimensions = names
	}
}

// WithMeasures names the columns to carry as measures, overriding the
// type-based default (every numeric column).
func WithMeasures(names ...string) Option {
	return func(o *options) {
		o.measures = names
	}
}

// WithCaching enables or disables the result cache. Enabled by default;
// disable for benchmarking or low-memory use. Caching never changes
// query results, only their cost.
func WithCaching(enabled bool) Option {
	return func(o *options) {
		o.caching = enabled
	}
}

// WithCacheCapacity bounds the result cache to the given number of
// entries (LRU eviction). 0 means unbounded, which is only appropriate
// for short-lived or snapshot-style use: a long-lived service facing
// diverse queries should set a bound.
func WithCacheCapacity(entries int) Option {
	return func(o *options) {
		o.cacheCapacity = entries
	}
}

// WithCodec configures the codec used for snapshot metadata.
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures the compressor applied to snapshot blobs.
// If nil is passed, compress.Default is used.
func WithCompression(c compress.Compressor) Option {
	return func(o *options) {
		if c == nil {
			c = compress.Default
		}
		o.compressor = c
	}
}

// WithBuildParallelism sets how many dimensions are indexed concurrently.
// Dimensions share no mutable state during build, so this is safe; the
// default of 1 matches the fully deterministic single-threaded build.
// Ignored when WithResourceController is set.
func WithBuildParallelism(workers int) Option {
	return func(o *options) {
		o.buildWorkers = workers
	}
}

// WithResourceController attaches a shared resource controller bounding
// build workers, cached-result memory, and snapshot IO throughput.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metrics = mc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		backend: rowset.KindBitmap,
		caching: true,
		metrics: NoopMetricsCollector{},
		logger:  NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metrics == nil {
		o.metrics = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.rc == nil && o.buildWorkers > 1 {
		o.rc = resource.NewController(resource.Config{MaxBuildWorkers: int64(o.buildWorkers)})
	}
	return o
}
