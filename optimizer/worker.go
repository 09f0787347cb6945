// SPDX-License-Identifier: MIT

package optimizer

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/katalvlaran/questopt/quest"
)

// worker is the private state of one search goroutine.
type worker struct {
	id       int
	rng      *rand.Rand
	children []*pathState // scratch, reused across expansions
}

// work pops and expands states until the search stops. A panic raised by
// a hook stops the whole search and is returned as an error.
func (o *Optimizer) work(w *worker) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("optimizer: worker %d: %v", w.id, r)
			o.stop()
		}
	}()

	var s *pathState
	for {
		s = o.next(w)
		if s == nil {
			return nil
		}
		o.expand(w, s)
		if o.completions.Load() >= uint64(o.opts.Depth) {
			o.stop()
		}
	}
}

// next blocks until a state is available or the search stops (nil).
//
// The empty check and the sleep happen under mu, and producers signal
// under mu, so a wake-up cannot slip between them. The worker that would
// make every worker sleep declares quiescence instead.
func (o *Optimizer) next(w *worker) *pathState {
	o.mu.Lock()
	defer o.mu.Unlock()

	for {
		if o.stopped {
			return nil
		}
		if s, ok := o.front.TakeNearBest(o.opts.Narrowness, w.rng); ok {
			return s
		}
		if o.sleeping+1 == o.opts.Workers {
			o.stopped = true
			o.quiescent = true
			o.cond.Broadcast()
			return nil
		}
		o.sleeping++
		o.cond.Wait()
		o.sleeping--
	}
}

// expand visits s.vertex, applies the admission test and either records a
// completion or pushes the children of s.
func (o *Optimizer) expand(w *worker, s *pathState) {
	// 1) Visit: s owns its progress.
	s.walked = s.walked.push(s.vertex)
	s.progress.Visit(o.model.Lines, s.vertex)
	remaining := s.progress.Remaining()

	// 2) Admission.
	mark := int(o.watermark.Load())
	if float64(remaining) > float64(max(mark, 1))*o.opts.ErrorAfford {
		o.pruned.Add(1)
		return
	}
	o.expansions.Add(1)
	if h := o.opts.Hooks.OnExpand; h != nil {
		h(Event{Root: s.root, Vertex: s.vertex, Remaining: remaining, Watermark: mark, Length: s.length})
	}

	// 3) Completion.
	if remaining == 0 {
		o.record(s, mark)
		return
	}
	o.lowerWatermark(remaining)

	// 4) Children.
	w.children = w.children[:0]
	if o.model.FastTravel {
		for _, f := range s.progress.Fronts(o.model.Lines) {
			w.children = append(w.children, o.child(s, f, 1))
		}
	} else {
		for _, a := range o.arcs[s.vertex] {
			w.children = append(w.children, o.child(s, a.To, a.Length))
		}
	}

	admitted := 0
	for _, c := range w.children {
		if o.front.Insert(c) {
			admitted++
		}
	}
	clear(w.children)
	o.wake(admitted)
}

// child extends s by one hop to v of the given cost.
func (o *Optimizer) child(s *pathState, v int, cost float64) *pathState {
	return &pathState{
		vertex:   v,
		root:     s.root,
		length:   s.length + cost,
		walked:   s.walked,
		progress: s.progress.Clone(),
	}
}

// wake signals sleepers after n insertions.
func (o *Optimizer) wake(n int) {
	if n == 0 {
		return
	}
	o.mu.Lock()
	if o.sleeping > 0 {
		if n == 1 {
			o.cond.Signal()
		} else {
			o.cond.Broadcast()
		}
	}
	o.mu.Unlock()
}

// lowerWatermark moves the watermark down to r if r is lower.
func (o *Optimizer) lowerWatermark(r int) {
	for {
		cur := o.watermark.Load()
		if int64(r) >= cur || o.watermark.CompareAndSwap(cur, int64(r)) {
			return
		}
	}
}

// record stores a completed walk when it beats its root's best, counts the
// completion and resets the watermark to the initial total.
func (o *Optimizer) record(s *pathState, mark int) {
	p := s.path()
	improved := o.storeBest(s, p, mark)

	o.completions.Add(1)
	o.watermark.Store(int64(o.total))

	if improved {
		o.log.Debug("completion improved",
			slog.Int("root", s.root),
			slog.Float64("length", p.Length),
			slog.Int("vertices", len(p.Vertices)))
	}
}

// storeBest updates the root's entry and runs OnRecord under bestMu.
// The lock is released even when the hook panics.
func (o *Optimizer) storeBest(s *pathState, p quest.Path, mark int) bool {
	o.bestMu.Lock()
	defer o.bestMu.Unlock()

	cur, seen := o.best[s.root]
	improved := !seen || p.Better(cur)
	if improved {
		o.best[s.root] = p
	}
	if h := o.opts.Hooks.OnRecord; h != nil {
		h(Event{Root: s.root, Vertex: s.vertex, Watermark: mark, Length: p.Length, Improved: improved})
	}

	return improved
}

// observe reports the counters every StatusInterval until done closes.
func (o *Optimizer) observe(done <-chan struct{}) {
	t := time.NewTicker(o.opts.StatusInterval)
	defer t.Stop()

	for {
		select {
		case <-done:
			return
		case <-t.C:
			s := o.Snapshot()
			o.opts.Metrics.observe(s)
			o.log.Info("search status",
				slog.Uint64("completions", s.Completions),
				slog.Int("watermark", s.Watermark),
				slog.Int("frontier", s.Frontier),
				slog.Uint64("expansions", s.Expansions),
				slog.Uint64("pruned", s.Pruned))
		}
	}
}
