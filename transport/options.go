package transport

import "go.uber.org/zap"

// DefaultMaxFrameLength is the recommended per-frame payload ceiling: 16 MiB,
// enforced against the wire length prefix as soon as it is staged, before any
// further bytes are read from the source.
const DefaultMaxFrameLength = 16 << 20

// DefaultMaxBufferLength bounds how large the staging buffer may grow while
// waiting for a complete frame to arrive.
const DefaultMaxBufferLength = 4 * DefaultMaxFrameLength

// Options configures a FramedReader, FramedWriter, or handshake.
type Options struct {
	maxFrameLength  int
	maxBufferLength int
	logger          *zap.Logger
}

var defaultOptions = Options{
	maxFrameLength:  DefaultMaxFrameLength,
	maxBufferLength: DefaultMaxBufferLength,
	logger:          zap.NewNop(),
}

// Option configures Options.
type Option func(*Options)

// WithMaxFrameLength overrides the per-frame length ceiling (see
// ErrFrameTooLarge). A value <= 0 disables the ceiling.
func WithMaxFrameLength(n int) Option {
	return func(o *Options) { o.maxFrameLength = n }
}

// WithMaxBufferLength overrides the staging-buffer ceiling (see
// ErrBufferOverflow). A value <= 0 disables the ceiling.
func WithMaxBufferLength(n int) Option {
	return func(o *Options) { o.maxBufferLength = n }
}

// WithLogger injects a structured logger for debug-level transport events.
// The default is a no-op logger; process-wide logger construction (encoder,
// level, RUST_LOG-style configuration) is left to the caller.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

func resolveOptions(opts []Option) Options {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
