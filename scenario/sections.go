// SPDX-License-Identifier: MIT

package scenario

import (
	"strconv"
	"strings"

	"github.com/katalvlaran/questopt/quest"
)

// Section names.
const (
	secFastTravel    = "FastTravel"
	secBidirectional = "Bidirectional"
	secWeighted      = "Weighted"
	secVertexCount   = "VertexCount"
	secStart         = "Start"
	secVertexes      = "Vertexes"
	secEdges         = "Edges"
	secQuestLines    = "QuestLines"
)

// settingsOrder sections are applied before the model exists;
// contentOrder sections fill it afterwards, names first.
var (
	settingsOrder = []string{secFastTravel, secBidirectional, secWeighted, secVertexCount}
	contentOrder  = []string{secVertexes, secStart, secEdges, secQuestLines}
)

// handler applies one section to the builder.
type handler func(b *builder, s *section) error

var handlers = map[string]handler{
	secFastTravel:    func(b *builder, s *section) error { return parseFlag(s, &b.fastTravel) },
	secBidirectional: func(b *builder, s *section) error { return parseFlag(s, &b.bidirectional) },
	secWeighted:      func(b *builder, s *section) error { return parseFlag(s, &b.weighted) },
	secVertexCount:   (*builder).vertexCount,
	secStart:         (*builder).startVertex,
	secVertexes:      (*builder).vertexes,
	secEdges:         (*builder).edges,
	secQuestLines:    (*builder).questLines,
}

// builder accumulates settings, then owns the model under construction.
type builder struct {
	fastTravel    bool
	bidirectional bool
	weighted      bool
	count         int

	model  *quest.Model
	byName map[string]int
}

// apply runs the handlers of the present sections in the given order.
func (b *builder) apply(sections map[string]*section, order []string) error {
	for _, name := range order {
		if s, ok := sections[name]; ok {
			if err := handlers[name](b, s); err != nil {
				return err
			}
		}
	}

	return nil
}

// build creates the empty model from the collected settings.
func (b *builder) build() {
	var opts []quest.ModelOption
	if b.fastTravel {
		opts = append(opts, quest.WithFastTravel())
	}
	if b.bidirectional {
		opts = append(opts, quest.WithBidirectional())
	}
	if b.weighted {
		opts = append(opts, quest.WithWeighted())
	}
	b.model = quest.NewModel(b.count, opts...)
	b.byName = make(map[string]int)
}

// single returns the only token of a one-value section.
func single(s *section) (string, int, error) {
	if len(s.body) != 1 || len(s.body[0].fields) != 1 {
		return "", s.num, errAt(s.num, "%s expects exactly one value", s.name)
	}

	return s.body[0].fields[0], s.body[0].num, nil
}

func parseFlag(s *section, dst *bool) error {
	tok, num, err := single(s)
	if err != nil {
		return err
	}
	v, err := strconv.ParseBool(tok)
	if err != nil {
		return errAt(num, "%s: %q is not a boolean", s.name, tok)
	}
	*dst = v

	return nil
}

func (b *builder) vertexCount(s *section) error {
	tok, num, err := single(s)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		return errAt(num, "%s: %q is not a non-negative integer", s.name, tok)
	}
	b.count = n

	return nil
}

func (b *builder) startVertex(s *section) error {
	tok, num, err := single(s)
	if err != nil {
		return err
	}
	v, ok := b.resolve(tok)
	if !ok {
		return errAt(num, "%s: unknown vertex %q", s.name, tok)
	}
	b.model.Start = v

	return nil
}

// vertexes reads "index name..." lines; the name is the rest of the line.
func (b *builder) vertexes(s *section) error {
	names := make([]string, b.count)
	for _, l := range s.body {
		if len(l.fields) < 2 {
			return errAt(l.num, "vertex name line needs an index and a name")
		}
		v, err := strconv.Atoi(l.fields[0])
		if err != nil || v < 0 || v >= b.count {
			return errAt(l.num, "vertex index %q out of range [0,%d)", l.fields[0], b.count)
		}
		name := strings.Join(l.fields[1:], " ")
		if prev, dup := b.byName[name]; dup && prev != v {
			return errAt(l.num, "vertex name %q already names %d", name, prev)
		}
		names[v] = name
		b.byName[name] = v
	}
	b.model.VertexNames = names

	return nil
}

// edges reads "u v [length]" lines.
func (b *builder) edges(s *section) error {
	for _, l := range s.body {
		if len(l.fields) < 2 || len(l.fields) > 3 {
			return errAt(l.num, "edge line needs 2 or 3 fields, got %d", len(l.fields))
		}
		u, ok := b.resolve(l.fields[0])
		if !ok {
			return errAt(l.num, "unknown vertex %q", l.fields[0])
		}
		v, ok := b.resolve(l.fields[1])
		if !ok {
			return errAt(l.num, "unknown vertex %q", l.fields[1])
		}

		length := 1.0
		switch {
		case len(l.fields) == 3:
			w, err := strconv.ParseFloat(l.fields[2], 64)
			if err != nil {
				return errAt(l.num, "edge length %q is not a number", l.fields[2])
			}
			length = w
		case b.weighted:
			return errAt(l.num, "weighted scenario requires an edge length")
		}

		if err := b.model.AddEdge(u, v, length); err != nil {
			return wrapAt(l.num, err)
		}
	}

	return nil
}

// questLines reads "v1 v2 ... [name]" lines.
func (b *builder) questLines(s *section) error {
	for _, l := range s.body {
		var (
			stops = make([]int, 0, len(l.fields))
			name  string
		)
		for i, tok := range l.fields {
			v, ok := b.resolve(tok)
			if ok {
				stops = append(stops, v)
				continue
			}
			if _, err := strconv.Atoi(tok); err == nil || i != len(l.fields)-1 {
				return errAt(l.num, "unknown vertex %q", tok)
			}
			name = tok
		}
		if _, err := b.model.AddLine(name, stops...); err != nil {
			return wrapAt(l.num, err)
		}
	}

	return nil
}

// resolve maps an index or a declared name to a vertex.
func (b *builder) resolve(tok string) (int, bool) {
	if v, err := strconv.Atoi(tok); err == nil {
		return v, v >= 0 && v < b.count
	}
	v, ok := b.byName[tok]

	return v, ok
}
