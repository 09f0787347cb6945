// SPDX-License-Identifier: MIT

package optimizer

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/questopt/logging"
	"github.com/katalvlaran/questopt/shortest"
)

// Sentinel errors for configuration and lifecycle.
var (
	// ErrNilModel indicates New was given a nil model.
	ErrNilModel = errors.New("optimizer: model is nil")

	// ErrBadWorkers indicates a worker count < 1.
	ErrBadWorkers = errors.New("optimizer: workers must be at least 1")

	// ErrBadCapacity indicates a frontier capacity < 1.
	ErrBadCapacity = errors.New("optimizer: capacity must be at least 1")

	// ErrBadErrorAfford indicates an error tolerance < 1 or NaN.
	ErrBadErrorAfford = errors.New("optimizer: error afford must be >= 1")

	// ErrBadDepth indicates a completion budget < 1.
	ErrBadDepth = errors.New("optimizer: depth of search must be at least 1")

	// ErrBadNarrowness indicates a narrowness outside [0, 1].
	ErrBadNarrowness = errors.New("optimizer: narrowness must be within [0, 1]")

	// ErrBadInterval indicates a negative status interval.
	ErrBadInterval = errors.New("optimizer: status interval must be non-negative")

	// ErrAlreadyRun indicates Optimize was called twice; search state is consumed.
	ErrAlreadyRun = errors.New("optimizer: Optimize already called")
)

// Defaults used by DefaultOptions.
const (
	DefaultCapacity    = 100000
	DefaultErrorAfford = 1.05
	DefaultDepth       = 1
)

// Hooks observe the search from inside the workers. They are called
// concurrently from every worker and must be safe for concurrent use.
// A nil hook is skipped.
type Hooks struct {
	// OnExpand fires for every state that passed the admission test.
	OnExpand func(Event)

	// OnRecord fires for every completion while the per-root table is
	// locked, so calls are serialized in update order. It must not call
	// BestPath or BestForRoot.
	OnRecord func(Event)
}

// Event describes one admitted state or completion.
type Event struct {
	Root      int     // first vertex of the walk
	Vertex    int     // current vertex
	Remaining int     // stops left after visiting Vertex
	Watermark int     // watermark used by the admission test
	Length    float64 // walk length so far
	Improved  bool    // OnRecord only: the root's best walk was replaced
}

// Options configures an Optimizer.
//
//	Workers        – size of the worker pool.
//	Capacity       – maximum frontier size; worse states are evicted beyond it.
//	ErrorAfford    – admission tolerance ≥ 1 (1 = tightest cut).
//	Depth          – stop after this many completions.
//	Narrowness     – fraction of the frontier a worker may draw from at random;
//	                 0 always takes the single best state.
//	StatusInterval – period of the status observer; 0 disables it.
//	Seed           – base seed of the per-worker random streams (0 ⇒ fixed default).
//	Stitch         – how start→root paths are computed when a start is mandated.
type Options struct {
	Workers        int
	Capacity       int
	ErrorAfford    float64
	Depth          int
	Narrowness     float64
	StatusInterval time.Duration
	Seed           int64
	Stitch         shortest.Mode
	Logger         *slog.Logger
	Metrics        *Metrics
	Hooks          Hooks
}

// Option is a functional option for New.
type Option func(*Options)

// WithWorkers sets the worker pool size.
func WithWorkers(n int) Option { return func(o *Options) { o.Workers = n } }

// WithCapacity sets the frontier capacity.
func WithCapacity(n int) Option { return func(o *Options) { o.Capacity = n } }

// WithErrorAfford sets the admission tolerance.
func WithErrorAfford(f float64) Option { return func(o *Options) { o.ErrorAfford = f } }

// WithDepth sets the completion budget.
func WithDepth(n int) Option { return func(o *Options) { o.Depth = n } }

// WithNarrowness sets the randomized selection window.
func WithNarrowness(f float64) Option { return func(o *Options) { o.Narrowness = f } }

// WithStatusInterval enables the status observer.
func WithStatusInterval(d time.Duration) Option { return func(o *Options) { o.StatusInterval = d } }

// WithSeed sets the base seed of the worker random streams.
func WithSeed(seed int64) Option { return func(o *Options) { o.Seed = seed } }

// WithStitchMode selects how start→root paths are computed.
func WithStitchMode(m shortest.Mode) Option { return func(o *Options) { o.Stitch = m } }

// WithLogger sets the structured logger. Nil keeps the discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithMetrics attaches Prometheus collectors created by NewMetrics.
func WithMetrics(m *Metrics) Option { return func(o *Options) { o.Metrics = m } }

// WithRegisterer creates the optimizer collectors on reg. Use WithMetrics
// to share one Metrics value between optimizers on the same registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *Options) { o.Metrics = NewMetrics(reg) }
}

// WithHooks installs search hooks.
func WithHooks(h Hooks) Option { return func(o *Options) { o.Hooks = h } }

// DefaultOptions returns the defaults:
//
//   - Workers:     runtime.GOMAXPROCS(0)
//   - Capacity:    DefaultCapacity
//   - ErrorAfford: DefaultErrorAfford
//   - Depth:       DefaultDepth
//   - Narrowness:  0 (best only)
//   - Stitch:      shortest.ModeAuto (edge-respecting single-source)
//   - Logger:      discards everything
func DefaultOptions() Options {
	return Options{
		Workers:     runtime.GOMAXPROCS(0),
		Capacity:    DefaultCapacity,
		ErrorAfford: DefaultErrorAfford,
		Depth:       DefaultDepth,
		Stitch:      shortest.ModeAuto,
		Logger:      logging.Discard(),
	}
}

// Validate checks option ranges; the first violation wins.
func (o Options) Validate() error {
	switch {
	case o.Workers < 1:
		return fmt.Errorf("workers=%d: %w", o.Workers, ErrBadWorkers)
	case o.Capacity < 1:
		return fmt.Errorf("capacity=%d: %w", o.Capacity, ErrBadCapacity)
	case math.IsNaN(o.ErrorAfford) || o.ErrorAfford < 1:
		return fmt.Errorf("error afford=%g: %w", o.ErrorAfford, ErrBadErrorAfford)
	case o.Depth < 1:
		return fmt.Errorf("depth=%d: %w", o.Depth, ErrBadDepth)
	case math.IsNaN(o.Narrowness) || o.Narrowness < 0 || o.Narrowness > 1:
		return fmt.Errorf("narrowness=%g: %w", o.Narrowness, ErrBadNarrowness)
	case o.StatusInterval < 0:
		return fmt.Errorf("status interval=%v: %w", o.StatusInterval, ErrBadInterval)
	}

	return nil
}
