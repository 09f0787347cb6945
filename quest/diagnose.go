// SPDX-License-Identifier: MIT

package quest

import (
	"errors"
	"fmt"
	"math"

	"github.com/dominikbraun/graph"
)

// Gap is a pair of consecutive waypoints of a line where To cannot be
// reached from From by following edges.
type Gap struct {
	Line int
	From int
	To   int
}

// String renders the gap for diagnostics.
func (g Gap) String() string {
	return fmt.Sprintf("line %d: %d cannot reach %d", g.Line, g.From, g.To)
}

// Diagnosis is the result of a reachability check over a model.
type Diagnosis struct {
	// Gaps lists unreachable consecutive waypoint pairs.
	Gaps []Gap

	// Roots lists, ascending, the vertices that reach the first stop of
	// every line. Only these can root a coverage path.
	Roots []int
}

// Feasible reports whether a coverage path may exist. It is a necessary
// condition only: interleavings on directed graphs can still be infeasible.
func (d Diagnosis) Feasible() bool {
	return len(d.Gaps) == 0 && len(d.Roots) > 0
}

// Diagnose checks reachability between consecutive waypoints and collects
// the candidate roots. Fast-travel models are always feasible with every
// vertex a root, since any waypoint is one teleport away.
//
// Complexity: O(V · (V + E)), one BFS per vertex.
func Diagnose(m *Model) (Diagnosis, error) {
	var d Diagnosis
	if m.FastTravel || len(m.Lines) == 0 {
		d.Roots = make([]int, m.VertexCount)
		for v := range d.Roots {
			d.Roots[v] = v
		}
		return d, nil
	}

	g, err := reachabilityGraph(m)
	if err != nil {
		return Diagnosis{}, err
	}

	// 1) Reachable sets, computed lazily per source.
	reach := make(map[int]map[int]struct{}, m.VertexCount)
	reachable := func(from, to int) (bool, error) {
		seen, ok := reach[from]
		if !ok {
			seen = make(map[int]struct{})
			if err := graph.BFS(g, from, func(v int) bool {
				seen[v] = struct{}{}
				return false
			}); err != nil {
				return false, fmt.Errorf("quest: reachability from %d: %w", from, err)
			}
			reach[from] = seen
		}
		_, ok = seen[to]
		return ok, nil
	}

	// 2) Consecutive waypoint pairs.
	var ok bool
	for _, l := range m.Lines {
		for k := 1; k < len(l.Stops); k++ {
			if ok, err = reachable(l.Stops[k-1], l.Stops[k]); err != nil {
				return Diagnosis{}, err
			}
			if !ok {
				d.Gaps = append(d.Gaps, Gap{Line: l.ID, From: l.Stops[k-1], To: l.Stops[k]})
			}
		}
	}

	// 3) Roots reaching every first stop.
	var r int
roots:
	for r = 0; r < m.VertexCount; r++ {
		for _, l := range m.Lines {
			if ok, err = reachable(r, l.Stops[0]); err != nil {
				return Diagnosis{}, err
			}
			if !ok {
				continue roots
			}
		}
		d.Roots = append(d.Roots, r)
	}

	return d, nil
}

// reachabilityGraph mirrors the finite entries of m.Adj into a directed
// graph.Graph keyed by vertex index.
func reachabilityGraph(m *Model) (graph.Graph[int, int], error) {
	g := graph.New(graph.IntHash, graph.Directed())
	var u, v int
	for u = 0; u < m.VertexCount; u++ {
		if err := g.AddVertex(u); err != nil {
			return nil, fmt.Errorf("quest: add vertex %d: %w", u, err)
		}
	}
	for u = 0; u < m.VertexCount; u++ {
		for v = 0; v < m.VertexCount; v++ {
			if u == v || math.IsInf(m.Adj[u][v], 1) {
				continue
			}
			if err := g.AddEdge(u, v); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, fmt.Errorf("quest: add edge %d→%d: %w", u, v, err)
			}
		}
	}

	return g, nil
}
