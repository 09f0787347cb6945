// SPDX-License-Identifier: MIT

package frontier

import (
	"errors"
	"math/rand"
	"sync"

	"github.com/tidwall/btree"
)

// ErrBadCapacity indicates a non-positive frontier capacity.
var ErrBadCapacity = errors.New("frontier: capacity must be at least 1")

// Stats counts frontier traffic since creation.
type Stats struct {
	Inserted uint64 // items admitted
	Rejected uint64 // inserts dropped at capacity
	Evicted  uint64 // worst items pushed out by better ones
	Taken    uint64 // items removed by TakeBest / TakeNearBest
}

// entry pairs an item with its insertion sequence, the final tie-break.
type entry[T any] struct {
	item T
	seq  uint64
}

// Bounded is a ranked multiset holding at most capacity items.
// All methods are safe for concurrent use.
type Bounded[T any] struct {
	mu       sync.Mutex
	tree     *btree.BTreeG[entry[T]]
	less     func(a, b T) bool
	capacity int
	seq      uint64
	stats    Stats
}

// New creates an empty frontier ranking items by less (best first).
//
// less must be a strict weak ordering; items for which neither less(a, b)
// nor less(b, a) holds are treated as equal-ranked and all retained.
func New[T any](capacity int, less func(a, b T) bool) (*Bounded[T], error) {
	if capacity < 1 {
		return nil, ErrBadCapacity
	}
	f := &Bounded[T]{less: less, capacity: capacity}
	f.tree = btree.NewBTreeGOptions(f.entryLess, btree.Options{NoLocks: true})

	return f, nil
}

func (f *Bounded[T]) entryLess(a, b entry[T]) bool {
	if f.less(a.item, b.item) {
		return true
	}
	if f.less(b.item, a.item) {
		return false
	}

	return a.seq < b.seq
}

// Insert adds x. At capacity, x replaces the worst item only if x ranks
// strictly better than it; otherwise the frontier is left unchanged.
// Reports whether x was admitted.
// Complexity: O(log n).
func (f *Bounded[T]) Insert(x T) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.tree.Len() >= f.capacity {
		worst, _ := f.tree.Max()
		if !f.less(x, worst.item) {
			f.stats.Rejected++
			return false
		}
		f.tree.PopMax()
		f.stats.Evicted++
	}
	f.seq++
	f.tree.Set(entry[T]{item: x, seq: f.seq})
	f.stats.Inserted++

	return true
}

// TakeBest removes and returns the best-ranked item.
// The boolean is false when the frontier is empty.
// Complexity: O(log n).
func (f *Bounded[T]) TakeBest() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.tree.PopMin()
	if ok {
		f.stats.Taken++
	}

	return e.item, ok
}

// TakeNearBest removes and returns an item drawn uniformly from the best
// ⌊narrowness·Len⌋ ranks (at least one). narrowness ≤ 0 or a nil rng
// degrade to TakeBest. rng is used under the frontier lock, so one rng may
// be shared by callers of the same frontier.
// Complexity: O(log n).
func (f *Bounded[T]) TakeNearBest(narrowness float64, rng *rand.Rand) (T, bool) {
	if narrowness <= 0 || rng == nil {
		return f.TakeBest()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	n := f.tree.Len()
	if n == 0 {
		var zero T
		return zero, false
	}
	if narrowness > 1 {
		narrowness = 1
	}
	window := int(narrowness * float64(n))
	if window < 1 {
		window = 1
	}
	e, ok := f.tree.DeleteAt(rng.Intn(window))
	if ok {
		f.stats.Taken++
	}

	return e.item, ok
}

// Len returns the current number of items.
func (f *Bounded[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.tree.Len()
}

// Cap returns the configured capacity.
func (f *Bounded[T]) Cap() int { return f.capacity }

// Stats returns a snapshot of the traffic counters.
func (f *Bounded[T]) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.stats
}

// Items returns the current items, best first. Intended for diagnostics
// and tests; O(n).
func (f *Bounded[T]) Items() []T {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]T, 0, f.tree.Len())
	f.tree.Scan(func(e entry[T]) bool {
		out = append(out, e.item)
		return true
	})

	return out
}
