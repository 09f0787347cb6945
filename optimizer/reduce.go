// SPDX-License-Identifier: MIT

package optimizer

import (
	"sort"

	"github.com/katalvlaran/questopt/quest"
	"github.com/katalvlaran/questopt/shortest"
)

// Reduce picks the final walk from the per-root table.
//
// With start == nil the best recorded walk wins (shorter, then fewer
// vertices, then lower root). Otherwise each root's walk is joined after
// start→root and the best combination wins; roots start cannot reach are
// skipped.
//
// Reduce is pure: it neither mutates best nor depends on map order.
// Returns (quest.NoPath(), quest.NoStart) when nothing qualifies.
func Reduce(best map[int]quest.Path, start shortest.Source) (quest.Path, int) {
	roots := make([]int, 0, len(best))
	for r := range best {
		roots = append(roots, r)
	}
	sort.Ints(roots)

	var (
		winner = quest.NoPath()
		root   = quest.NoStart
		cand   quest.Path
	)
	for _, r := range roots {
		cand = best[r]
		if !cand.Found() {
			continue
		}
		if start != nil {
			lead, ok := start.PathTo(r)
			if !ok {
				continue
			}
			cand = lead.Join(cand)
		}
		if root == quest.NoStart || cand.Better(winner) {
			winner, root = cand.Clone(), r
		}
	}

	return winner, root
}
