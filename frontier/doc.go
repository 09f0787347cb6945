// SPDX-License-Identifier: MIT

// Package frontier provides Bounded, a concurrency-safe ranked multiset with
// a fixed capacity, used as the shared open list of a parallel best-first
// search.
//
// Overview:
//
//   - Items are ranked by a caller-supplied strict weak ordering less(a, b).
//     Items that compare equal are all kept: an internal insertion sequence
//     breaks ties, so equal-ranked items are served first-in first-out.
//   - Insert at capacity admits the new item only if it ranks strictly better
//     than the current worst, which is then evicted. Otherwise the insert is a
//     no-op. The frontier therefore always holds the most promising items.
//   - TakeBest removes the best item; TakeNearBest removes an item at a random
//     rank within the best fraction of the frontier, spreading workers over
//     several good candidates instead of all fighting over one.
//
// Implementation:
//
//   - Storage is an order-statistic B-tree (github.com/tidwall/btree), so
//     Insert, TakeBest, TakeNearBest and eviction are all O(log n).
//   - A single sync.Mutex guards the tree; it is held only for the duration of
//     one operation.
//
// Errors:
//
//	ErrBadCapacity - capacity < 1.
package frontier
