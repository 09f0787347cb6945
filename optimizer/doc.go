// SPDX-License-Identifier: MIT

// Package optimizer searches for a short walk that satisfies every quest
// line of a quest.Model, using a pool of workers over a shared bounded
// best-first frontier.
//
// Search:
//
//   - The frontier is seeded with one state per candidate root vertex.
//     A state is (current vertex, walk so far, per-line progress).
//   - States are ranked by (remaining stops, walk length, vertex): closer to
//     completion first, then shorter.
//   - A worker pops a state, visits its vertex (advancing every line whose
//     front is that vertex), and applies the admission test
//     remaining ≤ max(watermark, 1) · ErrorAfford, where the watermark is the
//     lowest remaining count seen so far. Failing states are discarded.
//     ErrorAfford = 1 is the tightest cut; larger values trade throughput
//     for breadth. The search is approximate: optimality is not guaranteed.
//   - A state with nothing remaining is a completion: it updates the best
//     walk for its root, bumps the completion count and resets the watermark
//     to the initial total. Otherwise children follow graph edges, or in
//     fast-travel mode teleport at unit cost to each unmet line front.
//
// Termination:
//
//   - Quiescence: a worker about to sleep on an empty frontier while every
//     other worker already sleeps sets the stop flag and wakes everyone.
//   - Budget: the search stops once Depth completions were recorded.
//   - Cancellation of the context passed to Optimize requests the same stop.
//
// Reduction:
//
//   - Without a mandated start the answer is the shortest recorded walk over
//     all roots (fewer vertices, then lower root break ties).
//   - With a start, each root's walk is stitched after the shortest
//     start→root path (see package shortest) and the shortest combination
//     wins. No recorded root, or none reachable, yields quest.NoPath().
//
// Concurrency:
//
//   - The frontier and the per-root best table are the only shared mutable
//     structures; each has its own mutex held for one operation at a time.
//   - The watermark and counters are sync/atomic values. Atomic operations
//     are sequentially consistent, so a completion's watermark reset is
//     visible to every admission test that loads it afterwards.
//   - An optional status observer periodically logs the counters and updates
//     Prometheus gauges. It only reads.
package optimizer
