// SPDX-License-Identifier: MIT

// Package quest defines the static input of the optimizer: a dense weighted
// graph plus a set of quest lines, and the small value types the search
// manipulates on top of it.
//
// What lives here:
//
//   - Model     - vertex count, adjacency matrix (+Inf = no edge), flags
//     (bidirectional, weighted, fast travel), optional start vertex, vertex
//     names and quest lines. Read-only for the duration of a search.
//   - Line      - an ordered sequence of required vertex visits.
//   - Progress  - a per-branch snapshot of every line's cursor. Cloned on
//     every branch so sibling states consume waypoints independently.
//   - Path      - visited vertices plus accumulated length; concatenable.
//   - Annotate  - presentation helper listing, step by step, which line
//     waypoints a path satisfies.
//   - Diagnose  - reachability check between consecutive waypoints.
//
// Invariants:
//
//   - A cursor never regresses and never exceeds len(Line.Stops).
//   - Only the front unconsumed stop of a line may be consumed, and only when
//     the visited vertex equals it. One visit consumes at most one stop per line.
//   - Path.Length is the literal sum of traversed edge lengths.
//
// Errors (sentinel, match with errors.Is):
//
//	ErrVertexCount       - vertex count is negative.
//	ErrAdjacencyShape    - adjacency is not VertexCount×VertexCount.
//	ErrNegativeLength    - an edge length is negative.
//	ErrNaNLength         - an edge length is NaN.
//	ErrAsymmetric        - bidirectional model with an asymmetric matrix.
//	ErrVertexOutOfRange  - a vertex reference outside [0, VertexCount).
//	ErrStartOutOfRange   - start vertex outside range and not NoStart.
//	ErrEmptyLine         - a quest line without stops.
//
// Quick example:
//
//	m := quest.NewModel(3, quest.WithBidirectional(), quest.WithWeighted())
//	_ = m.AddEdge(0, 1, 2)
//	_ = m.AddEdge(1, 2, 3)
//	_ = m.AddLine("deliver", 2)
//	if err := m.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package quest
