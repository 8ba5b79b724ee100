package raycast

import (
	"github.com/ryanlewis/raycast/internal/common"
	"github.com/ryanlewis/raycast/internal/debug"
	"github.com/ryanlewis/raycast/internal/renderer"
	"github.com/ryanlewis/raycast/internal/scene"
)

// Option configures parsing, rendering and writing.
type Option func(*options)

type options struct {
	workers    int
	background scene.Color
	maxObjects int
	debug      *debug.Session
}

func defaultOptions() *options {
	return &options{maxObjects: common.DefaultMaxObjects}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) toInternal() *renderer.Options {
	return &renderer.Options{
		Workers:    o.workers,
		Background: o.background,
		Debug:      o.debug,
	}
}

// WithWorkers sets how many goroutines trace rows in parallel.
//
// Values:
//   - 0: one worker per CPU (the default)
//   - 1: render sequentially on the calling goroutine
//   - n: at most n workers, never more than the image height
//
// The rendered image is identical for every worker count.
func WithWorkers(n int) Option {
	return func(opts *options) {
		if n < 0 {
			n = 0
		}
		opts.workers = n
	}
}

// WithBackground sets the color of pixels whose ray hits nothing.
// Components are in [0,1]; the default is black.
func WithBackground(r, g, b float64) Option {
	return func(opts *options) {
		opts.background = scene.Color{r, g, b}
	}
}

// WithMaxObjects sets the object limit applied while parsing.
// The default is 128; zero or a negative value removes the limit.
func WithMaxObjects(n int) Option {
	return func(opts *options) {
		opts.maxObjects = n
	}
}

// WithDebug attaches a trace session. Parse, render and write events are
// sent to it; a nil session disables tracing.
func WithDebug(session *debug.Session) Option {
	return func(opts *options) {
		opts.debug = session
	}
}
