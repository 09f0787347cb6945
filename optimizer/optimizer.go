// SPDX-License-Identifier: MIT

package optimizer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/questopt/frontier"
	"github.com/katalvlaran/questopt/quest"
	"github.com/katalvlaran/questopt/shortest"
)

const tracerName = "github.com/katalvlaran/questopt/optimizer"

// Result summarizes one Optimize call.
type Result struct {
	RunID       string
	Path        quest.Path // quest.NoPath() when nothing was found
	Root        int        // root whose walk produced Path, quest.NoStart if none
	Completions uint64
	Expansions  uint64
	Pruned      uint64
	Frontier    frontier.Stats
	Quiescent   bool // frontier drained before the completion budget was met
	Canceled    bool // the context ended the search
	Duration    time.Duration
	Gaps        []quest.Gap // unreachable waypoint pairs when the model is infeasible
}

// Found reports whether a coverage walk was produced.
func (r Result) Found() bool { return r.Path.Found() }

// Snapshot is a point-in-time view of the search counters.
type Snapshot struct {
	Completions uint64
	Expansions  uint64
	Pruned      uint64
	Watermark   int
	Frontier    int
}

// Optimizer runs one search over a validated model.
// Optimize may be called once; BestPath and BestForRoot are safe afterwards
// and concurrently with it.
type Optimizer struct {
	model  *quest.Model
	opts   Options
	arcs   [][]quest.Arc
	total  int
	diag   quest.Diagnosis
	stitch shortest.Source
	runID  string
	log    *slog.Logger

	front *frontier.Bounded[*pathState]

	// mu guards sleeping, stopped, quiescent and canceled; cond waits on mu.
	mu        sync.Mutex
	cond      *sync.Cond
	sleeping  int
	stopped   bool
	quiescent bool
	canceled  bool

	watermark   atomic.Int64
	completions atomic.Uint64
	expansions  atomic.Uint64
	pruned      atomic.Uint64
	ran         atomic.Bool

	bestMu sync.Mutex
	best   map[int]quest.Path
}

// New validates m and opts and prepares a search.
//
// Steps:
//  1. Apply options over DefaultOptions and validate them.
//  2. Validate the model.
//  3. Diagnose reachability of consecutive waypoints.
//  4. With a mandated start, precompute start→v paths in the stitch mode.
//  5. Allocate the frontier.
func New(m *quest.Model, opts ...Option) (*Optimizer, error) {
	if m == nil {
		return nil, ErrNilModel
	}

	// 1) Options.
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	// 2) Model.
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("optimizer: %w", err)
	}

	// 3) Reachability.
	diag, err := quest.Diagnose(m)
	if err != nil {
		return nil, fmt.Errorf("optimizer: diagnose: %w", err)
	}

	opt := &Optimizer{
		model: m,
		opts:  o,
		arcs:  m.OutArcs(),
		total: quest.Remaining(m.Lines),
		diag:  diag,
		runID: uuid.NewString(),
		best:  make(map[int]quest.Path),
	}
	opt.log = o.Logger.With(slog.String("component", "optimizer"), slog.String("run_id", opt.runID))
	opt.cond = sync.NewCond(&opt.mu)

	// 4) Stitch source.
	if m.HasStart() {
		opt.stitch, err = shortest.Precompute(m, m.Start, o.Stitch)
		if err != nil {
			return nil, fmt.Errorf("optimizer: stitch: %w", err)
		}
	}

	// 5) Frontier.
	opt.front, err = frontier.New(o.Capacity, stateLess)
	if err != nil {
		return nil, fmt.Errorf("optimizer: %w", err)
	}

	return opt, nil
}

// RunID returns the identifier attached to this optimizer's logs and spans.
func (o *Optimizer) RunID() string { return o.runID }

// Diagnosis returns the reachability report computed by New.
func (o *Optimizer) Diagnosis() quest.Diagnosis { return o.diag }

// Optimize runs the search until quiescence, the completion budget, or ctx
// cancellation, then reduces the per-root table into the final answer.
// Cancellation is not an error: the best walk found so far is returned.
func (o *Optimizer) Optimize(ctx context.Context) (Result, error) {
	if !o.ran.CompareAndSwap(false, true) {
		return Result{}, ErrAlreadyRun
	}
	started := time.Now()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "optimizer.Optimize",
		trace.WithAttributes(
			attribute.String("run_id", o.runID),
			attribute.Int("vertices", o.model.VertexCount),
			attribute.Int("lines", len(o.model.Lines)),
			attribute.Int("workers", o.opts.Workers),
		))
	defer span.End()

	res := Result{RunID: o.runID, Path: quest.NoPath(), Root: quest.NoStart}

	// Infeasible models cannot complete; skip the search entirely.
	if !o.diag.Feasible() {
		res.Gaps = o.diag.Gaps
		res.Quiescent = true
		res.Duration = time.Since(started)
		o.log.Warn("model is infeasible", slog.Int("gaps", len(o.diag.Gaps)))
		span.AddEvent("infeasible", trace.WithAttributes(attribute.Int("gaps", len(o.diag.Gaps))))
		o.opts.Metrics.finish(res)

		return res, nil
	}

	seeded := o.seed()
	o.watermark.Store(int64(o.total))
	span.AddEvent("seeded", trace.WithAttributes(attribute.Int("roots", seeded)))
	o.log.Info("search started",
		slog.Int("vertices", o.model.VertexCount),
		slog.Int("lines", len(o.model.Lines)),
		slog.Int("stops", o.total),
		slog.Int("roots", seeded),
		slog.Int("workers", o.opts.Workers))

	stopOnCancel := context.AfterFunc(ctx, o.cancel)
	defer stopOnCancel()

	observerDone := make(chan struct{})
	var observers sync.WaitGroup
	if o.opts.StatusInterval > 0 {
		observers.Add(1)
		go func() {
			defer observers.Done()
			o.observe(observerDone)
		}()
	}

	var g errgroup.Group
	for id := 0; id < o.opts.Workers; id++ {
		w := &worker{id: id, rng: workerRNG(o.opts.Seed, id)}
		g.Go(func() error { return o.work(w) })
	}
	err := g.Wait()
	close(observerDone)
	observers.Wait()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}

	// Reduce.
	res.Path, res.Root = Reduce(o.BestForRoot(), o.stitch)
	span.AddEvent("reduced", trace.WithAttributes(
		attribute.Bool("found", res.Path.Found()),
		attribute.Int("root", res.Root)))

	o.mu.Lock()
	res.Quiescent = o.quiescent
	res.Canceled = o.canceled
	o.mu.Unlock()
	res.Completions = o.completions.Load()
	res.Expansions = o.expansions.Load()
	res.Pruned = o.pruned.Load()
	res.Frontier = o.front.Stats()
	res.Duration = time.Since(started)

	o.opts.Metrics.finish(res)
	span.SetAttributes(
		attribute.Int64("completions", int64(res.Completions)),
		attribute.Int64("expansions", int64(res.Expansions)))
	span.SetStatus(codes.Ok, "")

	o.log.Info("search finished",
		slog.Bool("found", res.Path.Found()),
		slog.Float64("length", res.Path.Length),
		slog.Int("root", res.Root),
		slog.Uint64("completions", res.Completions),
		slog.Uint64("expansions", res.Expansions),
		slog.Uint64("pruned", res.Pruned),
		slog.Bool("quiescent", res.Quiescent),
		slog.Bool("canceled", res.Canceled),
		slog.Duration("duration", res.Duration))

	return res, nil
}

// BestPath reduces the current per-root table. During a search it returns
// the best walk found so far.
func (o *Optimizer) BestPath() quest.Path {
	p, _ := Reduce(o.BestForRoot(), o.stitch)

	return p
}

// BestForRoot returns a copy of the best recorded walk per root.
func (o *Optimizer) BestForRoot() map[int]quest.Path {
	o.bestMu.Lock()
	defer o.bestMu.Unlock()

	out := make(map[int]quest.Path, len(o.best))
	for r, p := range o.best {
		out[r] = p.Clone()
	}

	return out
}

// Snapshot reads the live counters.
func (o *Optimizer) Snapshot() Snapshot {
	return Snapshot{
		Completions: o.completions.Load(),
		Expansions:  o.expansions.Load(),
		Pruned:      o.pruned.Load(),
		Watermark:   int(o.watermark.Load()),
		Frontier:    o.front.Len(),
	}
}

// seed inserts one initial state per usable root and returns how many
// were inserted. With a mandated start only roots reachable from it count.
func (o *Optimizer) seed() int {
	n := 0
	for _, r := range o.diag.Roots {
		if o.stitch != nil {
			if _, ok := o.stitch.PathTo(r); !ok {
				continue
			}
		}
		if o.front.Insert(&pathState{
			vertex:   r,
			root:     r,
			progress: quest.NewProgress(o.model.Lines),
		}) {
			n++
		}
	}

	return n
}

// cancel stops the search on context end. A search that already stopped
// on its own is not marked canceled.
func (o *Optimizer) cancel() {
	o.mu.Lock()
	if !o.stopped {
		o.canceled = true
	}
	o.stopped = true
	o.cond.Broadcast()
	o.mu.Unlock()
}

// stop requests every worker to exit.
func (o *Optimizer) stop() {
	o.mu.Lock()
	o.stopped = true
	o.cond.Broadcast()
	o.mu.Unlock()
}
