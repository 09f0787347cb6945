// SPDX-License-Identifier: MIT

// Package shortest computes point-to-point distances and reconstructible
// paths over a quest.Model. The optimizer uses it only to connect a mandated
// start vertex to a coverage path; it never runs inside the search loop.
//
// Modes:
//
//   - FromSource - single-source label-correcting search (Dijkstra) over
//     non-negative lengths from a fixed start. O((V + E) log V).
//     Ties keep the first-discovered predecessor; unreachable vertices have no
//     path.
//   - AllPairs   - Floyd–Warshall closure with a next-hop table for path
//     reconstruction. O(V³) time, O(V²) space, deterministic k→i→j order.
//   - Teleport   - fast-travel table: every ordered pair of distinct vertices
//     is exactly one hop of length 1; no closure needed.
//
// Every mode answers through the Source interface (PathTo), so callers treat
// them uniformly. An unreachable target is not an error: PathTo returns
// quest.NoPath() and false, and callers treat that as "no stitching possible".
//
// Errors (sentinel):
//
//	ErrNilModel          - nil model.
//	ErrSourceOutOfRange  - source vertex outside [0, V).
//	ErrNegativeLength    - a negative edge length was found.
//	ErrUnknownMode       - unsupported Mode value.
package shortest
