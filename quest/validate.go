// SPDX-License-Identifier: MIT

package quest

import (
	"fmt"
	"math"
)

// Validate checks the model against the optimizer's preconditions.
//
// Checks, in order (first failure wins):
//  1. VertexCount ≥ 0 (ErrVertexCount).
//  2. Adj is VertexCount×VertexCount (ErrAdjacencyShape).
//  3. Every length is non-NaN and ≥ 0 (ErrNaNLength, ErrNegativeLength).
//  4. Bidirectional models are symmetric (ErrAsymmetric).
//  5. Start is NoStart or in range (ErrStartOutOfRange).
//  6. Every line has stops, all in range (ErrEmptyLine, ErrVertexOutOfRange).
//
// Complexity: O(V² + total stops).
func (m *Model) Validate() error {
	if m.VertexCount < 0 {
		return fmt.Errorf("vertex count %d: %w", m.VertexCount, ErrVertexCount)
	}
	if len(m.Adj) != m.VertexCount {
		return fmt.Errorf("%d rows for %d vertices: %w", len(m.Adj), m.VertexCount, ErrAdjacencyShape)
	}

	var (
		u, v int
		w    float64
	)
	for u = 0; u < m.VertexCount; u++ {
		if len(m.Adj[u]) != m.VertexCount {
			return fmt.Errorf("row %d has %d columns: %w", u, len(m.Adj[u]), ErrAdjacencyShape)
		}
		for v = 0; v < m.VertexCount; v++ {
			w = m.Adj[u][v]
			if math.IsNaN(w) {
				return fmt.Errorf("edge %d→%d: %w", u, v, ErrNaNLength)
			}
			if w < 0 {
				return fmt.Errorf("edge %d→%d length=%g: %w", u, v, w, ErrNegativeLength)
			}
		}
	}

	if m.Bidirectional {
		for u = 0; u < m.VertexCount; u++ {
			for v = u + 1; v < m.VertexCount; v++ {
				if m.Adj[u][v] != m.Adj[v][u] {
					return fmt.Errorf("edge %d↔%d (%g vs %g): %w", u, v, m.Adj[u][v], m.Adj[v][u], ErrAsymmetric)
				}
			}
		}
	}

	if m.Start != NoStart && !m.inRange(m.Start) {
		return fmt.Errorf("start %d: %w", m.Start, ErrStartOutOfRange)
	}

	for i, l := range m.Lines {
		if len(l.Stops) == 0 {
			return fmt.Errorf("line %d (%s): %w", i, l.Label(), ErrEmptyLine)
		}
		for _, s := range l.Stops {
			if !m.inRange(s) {
				return fmt.Errorf("line %d (%s) stop %d: %w", i, l.Label(), s, ErrVertexOutOfRange)
			}
		}
	}

	return nil
}
