// SPDX-License-Identifier: MIT

// Package scenario parses the line-oriented text format describing a quest
// model.
//
// A scenario is a sequence of sections. A header is an unindented
// "Name:" line; its body is the indented lines that follow. A value may
// also follow the colon on the header line itself. Blank lines and lines
// starting with '#' are ignored.
//
//	FastTravel:
//		False
//	Bidirectional:
//		True
//	Weighted:
//		True
//	VertexCount:
//		3
//	Start:
//		0
//	Vertexes:
//		0 camp
//		2 tower
//	Edges:
//		0 1 2.5
//		camp tower 7
//	QuestLines:
//		1 tower rescue
//
// Sections may appear in any order; each at most once. Only VertexCount is
// required. Vertex references accept an index or a name declared under
// Vertexes. On a quest line, a trailing token that is not a vertex names
// the line. Edge lengths are required when Weighted is true and default
// to 1 otherwise.
package scenario

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/katalvlaran/questopt/quest"
)

// Sentinel errors; every parse error wraps one of them.
var (
	// ErrInvalidFormat indicates a malformed line or value.
	ErrInvalidFormat = errors.New("scenario: invalid format")

	// ErrMissingSection indicates a required section is absent.
	ErrMissingSection = errors.New("scenario: missing section")

	// ErrUnknownSection indicates a header with an unrecognized name.
	ErrUnknownSection = errors.New("scenario: unknown section")

	// ErrDuplicateSection indicates a section given twice.
	ErrDuplicateSection = errors.New("scenario: duplicate section")
)

// ParseFile opens path and parses it with Parse.
func ParseFile(path string) (*quest.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// Parse reads a scenario and returns the validated model.
//
// Steps:
//  1. Split the input into sections, rejecting unknown and duplicate headers.
//  2. Apply the sections in dependency order: flags and VertexCount build
//     the model, then names, start, edges and quest lines fill it.
//  3. Validate the model.
func Parse(r io.Reader) (*quest.Model, error) {
	sections, err := split(r)
	if err != nil {
		return nil, err
	}

	if _, ok := sections[secVertexCount]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingSection, secVertexCount)
	}

	b := &builder{}
	if err = b.apply(sections, settingsOrder); err != nil {
		return nil, err
	}
	b.build()
	if err = b.apply(sections, contentOrder); err != nil {
		return nil, err
	}

	if err = b.model.Validate(); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}

	return b.model, nil
}

// line is one non-empty body line with its 1-based position.
type line struct {
	num    int
	fields []string
}

// section is a header and its body lines.
type section struct {
	name string
	num  int
	body []line
}

// errAt wraps ErrInvalidFormat with a line number.
func errAt(num int, format string, args ...any) error {
	return fmt.Errorf("line %d: %w: %s", num, ErrInvalidFormat, fmt.Sprintf(format, args...))
}

// wrapAt wraps both ErrInvalidFormat and a model error with a line number.
func wrapAt(num int, err error) error {
	return fmt.Errorf("line %d: %w: %w", num, ErrInvalidFormat, err)
}

// split groups the input into named sections.
func split(r io.Reader) (map[string]*section, error) {
	var (
		sections = make(map[string]*section)
		cur      *section
		num      int
		sc       = bufio.NewScanner(r)
	)
	for sc.Scan() {
		num++
		raw := strings.TrimRight(sc.Text(), " \t\r")
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		// Body line.
		if raw[0] == ' ' || raw[0] == '\t' {
			if cur == nil {
				return nil, errAt(num, "body line before any section header")
			}
			cur.body = append(cur.body, line{num: num, fields: strings.Fields(trimmed)})
			continue
		}

		// Header line.
		name, rest, ok := strings.Cut(trimmed, ":")
		if !ok {
			return nil, errAt(num, "expected a section header, got %q", trimmed)
		}
		name = strings.TrimSpace(name)
		if _, known := handlers[name]; !known {
			return nil, fmt.Errorf("line %d: %w: %q", num, ErrUnknownSection, name)
		}
		if prev, dup := sections[name]; dup {
			return nil, fmt.Errorf("line %d: %w: %s (first at line %d)", num, ErrDuplicateSection, name, prev.num)
		}
		cur = &section{name: name, num: num}
		sections[name] = cur
		if rest = strings.TrimSpace(rest); rest != "" {
			cur.body = append(cur.body, line{num: num, fields: strings.Fields(rest)})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scenario: read: %w", err)
	}

	return sections, nil
}
