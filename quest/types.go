// SPDX-License-Identifier: MIT

package quest

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for model construction and validation.
var (
	// ErrVertexCount indicates a negative vertex count.
	ErrVertexCount = errors.New("quest: vertex count must be non-negative")

	// ErrAdjacencyShape indicates the adjacency matrix is not VertexCount×VertexCount.
	ErrAdjacencyShape = errors.New("quest: adjacency matrix shape mismatch")

	// ErrNegativeLength indicates a negative edge length.
	ErrNegativeLength = errors.New("quest: negative edge length")

	// ErrNaNLength indicates a NaN edge length.
	ErrNaNLength = errors.New("quest: NaN edge length")

	// ErrAsymmetric indicates a bidirectional model whose matrix is not symmetric.
	ErrAsymmetric = errors.New("quest: bidirectional adjacency is not symmetric")

	// ErrVertexOutOfRange indicates a vertex reference outside [0, VertexCount).
	ErrVertexOutOfRange = errors.New("quest: vertex index out of range")

	// ErrStartOutOfRange indicates a start vertex that is neither NoStart nor in range.
	ErrStartOutOfRange = errors.New("quest: start vertex out of range")

	// ErrEmptyLine indicates a quest line with no stops.
	ErrEmptyLine = errors.New("quest: quest line has no stops")
)

// NoStart marks a model without a mandated start vertex.
const NoStart = -1

// Line is an ordered sequence of required vertex visits.
// Stops are consumed front to back; see Progress.
type Line struct {
	// ID is the position of the line in Model.Lines.
	ID int

	// Name is a display name; may be empty.
	Name string

	// Stops is the ordered list of vertices to visit.
	Stops []int
}

// Label returns Name, or the decimal ID when the line is unnamed.
func (l Line) Label() string {
	if l.Name != "" {
		return l.Name
	}

	return fmt.Sprintf("%d", l.ID)
}

// Arc is an outgoing edge of a vertex with its effective length.
type Arc struct {
	To     int
	Length float64
}

// Model is the graph and waypoint input consumed by the optimizer.
//
// Adj[u][v] is the length of the edge u→v, or +Inf when absent. When
// Weighted is false every finite edge counts as length 1 (see Length).
// A Model must not be mutated while a search reads it.
type Model struct {
	VertexCount   int
	Adj           [][]float64
	Bidirectional bool
	Weighted      bool
	FastTravel    bool
	Start         int
	VertexNames   []string
	Lines         []Line
}

// ModelOption configures a Model created by NewModel.
type ModelOption func(m *Model)

// WithBidirectional mirrors every edge added with AddEdge.
func WithBidirectional() ModelOption {
	return func(m *Model) { m.Bidirectional = true }
}

// WithWeighted keeps edge lengths as given; otherwise finite edges count as 1.
func WithWeighted() ModelOption {
	return func(m *Model) { m.Weighted = true }
}

// WithFastTravel enables unit-cost teleportation to any unmet waypoint.
func WithFastTravel() ModelOption {
	return func(m *Model) { m.FastTravel = true }
}

// WithStart mandates the start vertex of the walk.
func WithStart(v int) ModelOption {
	return func(m *Model) { m.Start = v }
}

// WithVertexNames sets display names; names[i] labels vertex i.
func WithVertexNames(names ...string) ModelOption {
	return func(m *Model) { m.VertexNames = append([]string(nil), names...) }
}

// NewModel creates an n-vertex model with no edges and no quest lines.
// By default the model is directed, unweighted, without fast travel and
// without a mandated start.
// Complexity: O(n²).
func NewModel(n int, opts ...ModelOption) *Model {
	if n < 0 {
		n = 0
	}
	m := &Model{
		VertexCount: n,
		Adj:         make([][]float64, n),
		Start:       NoStart,
	}
	inf := math.Inf(1)
	for i := 0; i < n; i++ {
		m.Adj[i] = make([]float64, n)
		for j := range m.Adj[i] {
			m.Adj[i][j] = inf
		}
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// AddEdge sets the length of u→v (and v→u when bidirectional).
// Parallel edges collapse to the shorter length.
func (m *Model) AddEdge(u, v int, length float64) error {
	if !m.inRange(u) || !m.inRange(v) {
		return fmt.Errorf("edge %d→%d: %w", u, v, ErrVertexOutOfRange)
	}
	if math.IsNaN(length) {
		return fmt.Errorf("edge %d→%d: %w", u, v, ErrNaNLength)
	}
	if length < 0 {
		return fmt.Errorf("edge %d→%d length=%g: %w", u, v, length, ErrNegativeLength)
	}
	if length < m.Adj[u][v] {
		m.Adj[u][v] = length
	}
	if m.Bidirectional && length < m.Adj[v][u] {
		m.Adj[v][u] = length
	}

	return nil
}

// AddLine appends a quest line and returns its ID.
func (m *Model) AddLine(name string, stops ...int) (int, error) {
	if len(stops) == 0 {
		return 0, fmt.Errorf("line %q: %w", name, ErrEmptyLine)
	}
	for _, s := range stops {
		if !m.inRange(s) {
			return 0, fmt.Errorf("line %q stop %d: %w", name, s, ErrVertexOutOfRange)
		}
	}
	id := len(m.Lines)
	m.Lines = append(m.Lines, Line{ID: id, Name: name, Stops: append([]int(nil), stops...)})

	return id, nil
}

// Length returns the effective length of u→v: +Inf without an edge,
// 1 for any finite edge of an unweighted model, the stored length otherwise.
func (m *Model) Length(u, v int) float64 {
	w := m.Adj[u][v]
	if math.IsInf(w, 1) {
		return w
	}
	if !m.Weighted {
		return 1
	}

	return w
}

// HasStart reports whether the model mandates a start vertex.
func (m *Model) HasStart() bool { return m.Start != NoStart }

// Name returns the display name of v, or its decimal index when unnamed.
func (m *Model) Name(v int) string {
	if v >= 0 && v < len(m.VertexNames) && m.VertexNames[v] != "" {
		return m.VertexNames[v]
	}

	return fmt.Sprintf("%d", v)
}

// OutArcs builds per-vertex outgoing arc lists with effective lengths,
// in ascending target order.
// Complexity: O(V²).
func (m *Model) OutArcs() [][]Arc {
	out := make([][]Arc, m.VertexCount)
	var u, v int
	var w float64
	for u = 0; u < m.VertexCount; u++ {
		for v = 0; v < m.VertexCount; v++ {
			w = m.Length(u, v)
			if math.IsInf(w, 1) {
				continue
			}
			out[u] = append(out[u], Arc{To: v, Length: w})
		}
	}

	return out
}

// Remaining returns the total number of stops across lines.
func Remaining(lines []Line) int {
	total := 0
	for _, l := range lines {
		total += len(l.Stops)
	}

	return total
}

func (m *Model) inRange(v int) bool { return v >= 0 && v < m.VertexCount }
