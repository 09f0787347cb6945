// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"io"
	"strconv"

	"github.com/katalvlaran/questopt/config"
	"github.com/katalvlaran/questopt/quest"
)

// printPath writes the walk length, then one "label: lines..." row per
// visited vertex listing the quest lines that advance there.
func printPath(w io.Writer, m *quest.Model, p quest.Path, out config.OutputSettings) error {
	var names []string
	if out.VertexNames {
		names = m.VertexNames
	}
	steps, _ := quest.Annotate(p, m.Lines, names)

	bw := bufio.NewWriter(w)
	bw.WriteString(strconv.FormatFloat(p.Length, 'g', -1, 64))
	bw.WriteByte('\n')
	for _, s := range steps {
		bw.WriteString(s.Label)
		bw.WriteByte(':')
		for _, id := range s.Lines {
			bw.WriteByte(' ')
			if out.QuestNames {
				bw.WriteString(m.Lines[id].Label())
			} else {
				bw.WriteString(strconv.Itoa(id))
			}
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}
