// SPDX-License-Identifier: MIT

package quest

// Step is one visited vertex of a path together with the quest lines whose
// front waypoint is satisfied there.
type Step struct {
	Vertex int
	Label  string
	Lines  []int
}

// Annotate walks path and reports, per visited vertex, which lines advance
// there. Labels use names[v] when present and non-empty, the index otherwise.
// The boolean result reports whether every line was fully satisfied.
//
// Consumption follows Progress.Visit: at most one stop per line per step.
// Complexity: O(len(path) · len(lines)).
func Annotate(path Path, lines []Line, names []string) ([]Step, bool) {
	var (
		progress = NewProgress(lines)
		steps    = make([]Step, 0, len(path.Vertices))
		before   = make([]int, len(lines))
		i        int
	)
	for _, v := range path.Vertices {
		for i = range lines {
			before[i] = progress.Cursor(i)
		}
		progress.Visit(lines, v)

		step := Step{Vertex: v, Label: label(v, names)}
		for i = range lines {
			if progress.Cursor(i) != before[i] {
				step.Lines = append(step.Lines, lines[i].ID)
			}
		}
		steps = append(steps, step)
	}

	return steps, progress.Done()
}

// Covers reports whether every line's stops appear, in order, as a
// subsequence of path's vertices.
func Covers(path Path, lines []Line) bool {
	for _, l := range lines {
		k := 0
		for _, v := range path.Vertices {
			if k < len(l.Stops) && l.Stops[k] == v {
				k++
			}
		}
		if k < len(l.Stops) {
			return false
		}
	}

	return true
}

func label(v int, names []string) string {
	m := Model{VertexNames: names}

	return m.Name(v)
}
