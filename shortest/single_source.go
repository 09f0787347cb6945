// SPDX-License-Identifier: MIT

package shortest

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/katalvlaran/questopt/quest"
)

// Tree is a single-source shortest-path tree.
//
// dist[v] is +Inf for unreachable v; prev[v] is the predecessor of v on
// the chosen shortest path (-1 for the origin and for unreachable v).
type Tree struct {
	origin int
	dist   []float64
	prev   []int
}

// FromSource runs Dijkstra from src over m's effective lengths.
//
// Preconditions (checked in order):
//  1. m is non-nil (ErrNilModel).
//  2. src ∈ [0, V) (ErrSourceOutOfRange).
//  3. No negative length (ErrNegativeLength).
//
// Relaxation is strict (<), so among equally short paths the one whose
// predecessor was settled first wins.
//
// Complexity: O((V + E) log V) time, O(V + E) space (lazy decrease-key).
func FromSource(m *quest.Model, src int) (*Tree, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	if src < 0 || src >= m.VertexCount {
		return nil, fmt.Errorf("source %d: %w", src, ErrSourceOutOfRange)
	}
	if err := checkLengths(m); err != nil {
		return nil, err
	}

	r := &runner{
		arcs:    m.OutArcs(),
		dist:    make([]float64, m.VertexCount),
		prev:    make([]int, m.VertexCount),
		visited: make([]bool, m.VertexCount),
		pq:      make(nodePQ, 0, m.VertexCount),
	}
	r.init(src)
	r.process()

	return &Tree{origin: src, dist: r.dist, prev: r.prev}, nil
}

// Origin returns the source vertex of the tree.
func (t *Tree) Origin() int { return t.origin }

// Dist returns the shortest distance origin→v (+Inf when unreachable).
func (t *Tree) Dist(v int) float64 {
	if v < 0 || v >= len(t.dist) {
		return math.Inf(1)
	}

	return t.dist[v]
}

// PathTo reconstructs the shortest path origin→v.
// Complexity: O(path length).
func (t *Tree) PathTo(v int) (quest.Path, bool) {
	if math.IsInf(t.Dist(v), 1) {
		return quest.NoPath(), false
	}

	var rev []int
	for u := v; u != -1; u = t.prev[u] {
		rev = append(rev, u)
	}
	out := make([]int, len(rev))
	for i := range rev {
		out[i] = rev[len(rev)-1-i]
	}

	return quest.Path{Vertices: out, Length: t.dist[v]}, true
}

// runner holds the mutable state of one Dijkstra execution.
type runner struct {
	arcs    [][]quest.Arc
	dist    []float64
	prev    []int
	visited []bool
	pq      nodePQ
}

// init sets every distance to +Inf, the source to 0, and seeds the heap.
func (r *runner) init(src int) {
	inf := math.Inf(1)
	for v := range r.dist {
		r.dist[v] = inf
		r.prev[v] = -1
	}
	r.dist[src] = 0
	heap.Init(&r.pq)
	heap.Push(&r.pq, &nodeItem{id: src, dist: 0})
}

// process settles vertices in non-decreasing distance order until the heap
// is empty. Stale heap entries (already settled vertices) are skipped.
func (r *runner) process() {
	var (
		item    *nodeItem
		u       int
		a       quest.Arc
		newDist float64
	)
	for r.pq.Len() > 0 {
		item = heap.Pop(&r.pq).(*nodeItem)
		u = item.id
		if r.visited[u] {
			continue
		}
		r.visited[u] = true

		for _, a = range r.arcs[u] {
			newDist = r.dist[u] + a.Length
			if newDist >= r.dist[a.To] {
				continue
			}
			r.dist[a.To] = newDist
			r.prev[a.To] = u
			heap.Push(&r.pq, &nodeItem{id: a.To, dist: newDist})
		}
	}
}

// nodeItem is a (vertex, tentative distance) heap entry.
type nodeItem struct {
	id   int
	dist float64
}

// nodePQ is a min-heap of *nodeItem ordered by dist.
type nodePQ []*nodeItem

func (pq nodePQ) Len() int            { return len(pq) }
func (pq nodePQ) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq nodePQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }
func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
