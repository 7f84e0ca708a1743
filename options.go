package memzone

import (
	"log/slog"

	"github.com/hupe1980/memzone/codec"
	"github.com/hupe1980/memzone/resource"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	rc               *resource.Controller
	codec            codec.Codec
	compression      string
	builder          Builder
}

// Option configures Store constructor behavior.
type Option func(*options)

// WithLogger configures structured logging for store operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
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
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithResourceController attaches a resource controller. Interned entry
// memory is charged against it entry-by-entry and released in bulk on zone
// close; snapshot IO is throttled by its IO limiter.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithMemoryLimit is a convenience wrapper attaching a controller with a hard
// limit on interned bytes. Intern fails with resource.ErrMemoryLimitExceeded
// once the limit is reached; closing zones frees budget again.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.rc = resource.NewController(resource.Config{MemoryLimitBytes: bytes})
	}
}

// WithCodec configures the codec used for encoding base snapshot payloads.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression selects the base snapshot payload compression by name:
// "none", "zstd" or "lz4". Snapshots are self-describing, so loading ignores
// this setting and follows the file header.
func WithCompression(name string) Option {
	return func(o *options) {
		o.compression = name
	}
}

// WithBuilder sets the default entry builder used by Intern and by InternKey
// calls that pass a nil builder.
func WithBuilder(b Builder) Option {
	return func(o *options) {
		if b == nil {
			b = defaultBuilder
		}
		o.builder = b
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		codec:            codec.Default,
		compression:      "zstd",
		builder:          defaultBuilder,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
