/*
Package gif2anim converts animated GIFs into the fixed-layout animation
containers shown by small embedded displays.

Every frame is rebuilt at full canvas size, letterboxed to the resolution of
the chosen format, truncated to RGB565 and packed along with its duration.
*/
package gif2anim

import (
	"runtime"

	"github.com/hashicorp/go-hclog"
)

// Converter runs conversions. It holds no per-conversion state so a single
// Converter may be reused.
type Converter struct {
	logger  hclog.Logger
	workers int
	cache   *Cache
}

// Option configures a Converter.
type Option func(*Converter)

// WithWorkers sets how many frames are resized and quantized in parallel.
func WithWorkers(n int) Option {
	return func(c *Converter) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithCache reuses previously converted output for identical sources.
func WithCache(cache *Cache) Option {
	return func(c *Converter) {
		c.cache = cache
	}
}

// New returns a Converter logging to logger.
func New(logger hclog.Logger, options ...Option) *Converter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	c := &Converter{
		logger:  logger,
		workers: runtime.NumCPU(),
	}
	for _, o := range options {
		o(c)
	}
	return c
}

// DecodeError is returned when the source cannot be opened or decoded.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "gif2anim: cannot decode source: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
