// SPDX-License-Identifier: MIT

package quest

// Progress is one branch's view of how far every quest line has advanced.
//
// cursors[i] is the number of consumed stops of line i; remaining caches
// the total of unconsumed stops so ranking a state costs O(1).
// A Progress is owned by exactly one search state: branch with Clone.
type Progress struct {
	cursors   []int
	remaining int
}

// NewProgress returns the initial, fully unconsumed progress over lines.
func NewProgress(lines []Line) Progress {
	return Progress{
		cursors:   make([]int, len(lines)),
		remaining: Remaining(lines),
	}
}

// Remaining is the number of stops still to visit across all lines.
func (p Progress) Remaining() int { return p.remaining }

// Done reports whether every line is satisfied.
func (p Progress) Done() bool { return p.remaining == 0 }

// Cursor returns how many stops of line i are consumed.
func (p Progress) Cursor(i int) int { return p.cursors[i] }

// Clone returns an independent copy.
func (p Progress) Clone() Progress {
	c := make([]int, len(p.cursors))
	copy(c, p.cursors)

	return Progress{cursors: c, remaining: p.remaining}
}

// Visit consumes the front stop of every line whose front equals v and
// returns how many stops were consumed. Each line advances by at most one
// stop per visit, so a line listing v twice in a row needs two visits.
//
// Visit mutates p in place; Clone first when p is shared.
func (p *Progress) Visit(lines []Line, v int) int {
	consumed := 0
	var i, c int
	for i = range lines {
		c = p.cursors[i]
		if c < len(lines[i].Stops) && lines[i].Stops[c] == v {
			p.cursors[i] = c + 1
			consumed++
		}
	}
	p.remaining -= consumed

	return consumed
}

// Fronts returns the front stop of every unsatisfied line, in line order.
// Duplicate fronts are reported once.
func (p Progress) Fronts(lines []Line) []int {
	fronts := make([]int, 0, len(lines))
	seen := make(map[int]struct{}, len(lines))
	var i, c, f int
	for i = range lines {
		c = p.cursors[i]
		if c >= len(lines[i].Stops) {
			continue
		}
		f = lines[i].Stops[c]
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		fronts = append(fronts, f)
	}

	return fronts
}
