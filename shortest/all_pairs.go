// SPDX-License-Identifier: MIT

package shortest

import (
	"fmt"
	"math"

	"github.com/katalvlaran/questopt/quest"
)

// Table is an all-pairs distance table with next-hop reconstruction.
//
// dist and next are flat row-major n×n buffers. next[u*n+v] is the vertex
// following u on the shortest u→v path, or -1 when v is unreachable.
type Table struct {
	n    int
	dist []float64
	next []int
}

// AllPairs runs the Floyd–Warshall closure over m's effective lengths.
//
// Policy:
//   - The diagonal is 0 (a vertex reaches itself by the empty walk).
//   - +Inf denotes "no path".
//   - Loop order is fixed (k → i → j) and only strict improvements relax,
//     so results are deterministic.
//
// Complexity: O(V³) time, O(V²) space.
func AllPairs(m *quest.Model) (*Table, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	if err := checkLengths(m); err != nil {
		return nil, err
	}

	n := m.VertexCount
	t := &Table{n: n, dist: make([]float64, n*n), next: make([]int, n*n)}

	// 1) Seed with direct edges.
	var (
		i, j, k      int
		baseI, baseK int
		w            float64
	)
	for i = 0; i < n; i++ {
		baseI = i * n
		for j = 0; j < n; j++ {
			if i == j {
				t.dist[baseI+j] = 0
				t.next[baseI+j] = j
				continue
			}
			w = m.Length(i, j)
			t.dist[baseI+j] = w
			if math.IsInf(w, 1) {
				t.next[baseI+j] = -1
			} else {
				t.next[baseI+j] = j
			}
		}
	}

	// 2) Closure.
	var ik, kj, cand float64
	data := t.dist
	for k = 0; k < n; k++ {
		baseK = k * n
		for i = 0; i < n; i++ {
			ik = data[i*n+k]
			if math.IsInf(ik, 1) {
				continue
			}
			baseI = i * n
			for j = 0; j < n; j++ {
				kj = data[baseK+j]
				if math.IsInf(kj, 1) {
					continue
				}
				cand = ik + kj
				if cand < data[baseI+j] {
					data[baseI+j] = cand
					t.next[baseI+j] = t.next[baseI+k]
				}
			}
		}
	}

	return t, nil
}

// Teleport returns the fast-travel table over n vertices: 0 on the
// diagonal, exactly 1 between any two distinct vertices.
// Complexity: O(n²).
func Teleport(n int) *Table {
	if n < 0 {
		n = 0
	}
	t := &Table{n: n, dist: make([]float64, n*n), next: make([]int, n*n)}
	var i, j int
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			t.next[i*n+j] = j
			if i != j {
				t.dist[i*n+j] = 1
			}
		}
	}

	return t
}

// Size returns the number of vertices covered by the table.
func (t *Table) Size() int { return t.n }

// Dist returns the shortest distance u→v, +Inf when unreachable or out of range.
func (t *Table) Dist(u, v int) float64 {
	if !t.inRange(u) || !t.inRange(v) {
		return math.Inf(1)
	}

	return t.dist[u*t.n+v]
}

// Path reconstructs the shortest path u→v by following next hops.
// Complexity: O(path length).
func (t *Table) Path(u, v int) (quest.Path, bool) {
	if math.IsInf(t.Dist(u, v), 1) {
		return quest.NoPath(), false
	}

	out := []int{u}
	for cur := u; cur != v; {
		cur = t.next[cur*t.n+v]
		out = append(out, cur)
	}

	return quest.Path{Vertices: out, Length: t.dist[u*t.n+v]}, true
}

// From returns a Source view of the table rooted at origin.
func (t *Table) From(origin int) (Source, error) {
	if !t.inRange(origin) {
		return nil, fmt.Errorf("origin %d: %w", origin, ErrSourceOutOfRange)
	}

	return tableView{t: t, origin: origin}, nil
}

func (t *Table) inRange(v int) bool { return v >= 0 && v < t.n }

// tableView adapts a Table to Source.
type tableView struct {
	t      *Table
	origin int
}

func (s tableView) Origin() int { return s.origin }

func (s tableView) PathTo(v int) (quest.Path, bool) { return s.t.Path(s.origin, v) }
