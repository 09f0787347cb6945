// SPDX-License-Identifier: MIT

package shortest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/questopt/quest"
)

// Sentinel errors returned by the precomputer.
var (
	// ErrNilModel indicates a nil *quest.Model.
	ErrNilModel = errors.New("shortest: model is nil")

	// ErrSourceOutOfRange indicates a source vertex outside [0, V).
	ErrSourceOutOfRange = errors.New("shortest: source vertex out of range")

	// ErrNegativeLength indicates a negative edge length.
	ErrNegativeLength = errors.New("shortest: negative edge length")

	// ErrUnknownMode indicates an unsupported Mode.
	ErrUnknownMode = errors.New("shortest: unknown mode")
)

// Source answers shortest-path queries from one fixed origin.
type Source interface {
	// Origin is the vertex every path starts at.
	Origin() int

	// PathTo returns the shortest path Origin→v and true, or quest.NoPath()
	// and false when v is unreachable or out of range.
	PathTo(v int) (quest.Path, bool)
}

// Mode selects how Precompute builds its Source.
type Mode int

const (
	// ModeAuto uses single-source search; it is the cheapest mode that
	// answers queries from one fixed origin.
	ModeAuto Mode = iota

	// ModeSingleSource forces FromSource.
	ModeSingleSource

	// ModeAllPairs forces the AllPairs closure and views it from the origin.
	ModeAllPairs

	// ModeTeleport uses unit-cost teleports between any two vertices.
	ModeTeleport
)

var modeNames = map[Mode]string{
	ModeAuto:         "auto",
	ModeSingleSource: "single-source",
	ModeAllPairs:     "all-pairs",
	ModeTeleport:     "teleport",
}

// String returns the canonical mode name.
func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}

	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps a canonical name (case-insensitive) back to a Mode.
// The empty string is ModeAuto.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ModeAuto, nil
	}
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}

	return ModeAuto, fmt.Errorf("%q: %w", s, ErrUnknownMode)
}

// Precompute builds a Source rooted at origin according to mode.
func Precompute(m *quest.Model, origin int, mode Mode) (Source, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	if origin < 0 || origin >= m.VertexCount {
		return nil, fmt.Errorf("origin %d: %w", origin, ErrSourceOutOfRange)
	}

	switch mode {
	case ModeAuto, ModeSingleSource:
		return FromSource(m, origin)
	case ModeAllPairs:
		t, err := AllPairs(m)
		if err != nil {
			return nil, err
		}
		return t.From(origin)
	case ModeTeleport:
		return Teleport(m.VertexCount).From(origin)
	default:
		return nil, fmt.Errorf("%v: %w", mode, ErrUnknownMode)
	}
}

// checkLengths rejects negative lengths before any search starts.
func checkLengths(m *quest.Model) error {
	var u, v int
	for u = 0; u < m.VertexCount; u++ {
		for v = 0; v < m.VertexCount; v++ {
			if m.Adj[u][v] < 0 {
				return fmt.Errorf("%w: edge %d→%d length=%g", ErrNegativeLength, u, v, m.Adj[u][v])
			}
		}
	}

	return nil
}
