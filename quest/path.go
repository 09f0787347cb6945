// SPDX-License-Identifier: MIT

package quest

import "math"

// Path is an ordered walk with its accumulated length.
type Path struct {
	Vertices []int
	Length   float64
}

// NoPath returns the "no solution" sentinel: no vertices, infinite length.
func NoPath() Path {
	return Path{Length: math.Inf(1)}
}

// Found reports whether p is a real path rather than NoPath.
func (p Path) Found() bool {
	return len(p.Vertices) > 0 && !math.IsInf(p.Length, 1)
}

// Clone returns a copy that shares no memory with p.
func (p Path) Clone() Path {
	return Path{Vertices: append([]int(nil), p.Vertices...), Length: p.Length}
}

// Concat returns p followed by q; lengths add.
func (p Path) Concat(q Path) Path {
	out := make([]int, 0, len(p.Vertices)+len(q.Vertices))
	out = append(out, p.Vertices...)
	out = append(out, q.Vertices...)

	return Path{Vertices: out, Length: p.Length + q.Length}
}

// Join is Concat that lists the junction vertex once when q starts where
// p ends. Used to stitch a start→root path onto a coverage path rooted there.
func (p Path) Join(q Path) Path {
	if len(p.Vertices) > 0 && len(q.Vertices) > 0 && p.Vertices[len(p.Vertices)-1] == q.Vertices[0] {
		return p.Concat(Path{Vertices: q.Vertices[1:], Length: q.Length})
	}

	return p.Concat(q)
}

// Root returns the first vertex of p, or NoStart when p is empty.
func (p Path) Root() int {
	if len(p.Vertices) == 0 {
		return NoStart
	}

	return p.Vertices[0]
}

// Better reports whether p should replace q as the best path: strictly
// shorter, or equally long with fewer vertices.
func (p Path) Better(q Path) bool {
	if p.Length != q.Length {
		return p.Length < q.Length
	}

	return len(p.Vertices) < len(q.Vertices)
}
