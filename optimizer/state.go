// SPDX-License-Identifier: MIT

package optimizer

import "github.com/katalvlaran/questopt/quest"

// trail is an immutable, shared-prefix list of walked vertices, newest first.
// Children extend their parent's trail without copying it.
type trail struct {
	vertex int
	prev   *trail
	size   int
}

// push returns a trail extended by v; t may be nil.
func (t *trail) push(v int) *trail {
	n := 1
	if t != nil {
		n = t.size + 1
	}

	return &trail{vertex: v, prev: t, size: n}
}

// vertices materializes the trail in walk order.
func (t *trail) vertices() []int {
	if t == nil {
		return nil
	}
	out := make([]int, t.size)
	for cur, i := t, t.size-1; cur != nil; cur, i = cur.prev, i-1 {
		out[i] = cur.vertex
	}

	return out
}

// pathState is one frontier entry: the walk reaching vertex (vertex not yet
// visited), its length, and the line progress before visiting vertex.
// Each state owns its progress; the trail is shared read-only.
type pathState struct {
	vertex   int
	root     int
	length   float64
	walked   *trail
	progress quest.Progress
}

// stateLess ranks states: fewer remaining stops, then shorter walk, then
// lower vertex.
func stateLess(a, b *pathState) bool {
	ra, rb := a.progress.Remaining(), b.progress.Remaining()
	if ra != rb {
		return ra < rb
	}
	if a.length != b.length {
		return a.length < b.length
	}

	return a.vertex < b.vertex
}

// path returns the completed walk of s, vertex included.
func (s *pathState) path() quest.Path {
	return quest.Path{Vertices: s.walked.vertices(), Length: s.length}
}
