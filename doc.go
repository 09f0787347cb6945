// SPDX-License-Identifier: MIT

// Package questopt finds short walks through a graph that complete a set of
// ordered quest lines.
//
// The work is split across small packages:
//
//	quest/     - the scenario model, per-line progress, paths and feasibility diagnosis
//	frontier/  - a bounded, ordered best-first frontier
//	shortest/  - start-stitching paths (Dijkstra, Floyd–Warshall, teleport)
//	optimizer/ - the parallel best-first search and its reduction
//	scenario/  - the sectioned text format for scenarios
//	config/    - YAML/TOML settings with QUESTOPT_* environment overrides
//	logging/   - slog handler construction
//	cmd/questopt - the command-line driver
//
// Quick example:
//
//	m := quest.NewModel(3, quest.WithWeighted(), quest.WithStart(0))
//	_ = m.AddEdge(0, 1, 2)
//	_ = m.AddEdge(1, 2, 3)
//	_, _ = m.AddLine("", 1, 2)
//
//	opt, _ := optimizer.New(m, optimizer.WithWorkers(1))
//	res, _ := opt.Optimize(context.Background())
//	fmt.Println(res.Path.Length, res.Path.Vertices) // 5 [0 1 2]
package questopt
