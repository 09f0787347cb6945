// SPDX-License-Identifier: MIT

// Command questopt reads a scenario file, searches for a short walk that
// completes every quest line, and prints it one vertex per line.
//
// Usage:
//
//	questopt -file scenario.txt [-config questopt.yaml] [-workers N] ...
//
// Settings come from defaults, then the -config file, then QUESTOPT_*
// environment variables, then flags given on the command line.
//
// Exit status: 0 when a walk was found, 2 when no walk exists (or none
// was found before the timeout), 1 on any error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/katalvlaran/questopt/config"
	"github.com/katalvlaran/questopt/logging"
	"github.com/katalvlaran/questopt/optimizer"
	"github.com/katalvlaran/questopt/scenario"
)

const (
	exitOK         = 0
	exitError      = 1
	exitNoSolution = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run is main without process globals.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	settings, file, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "[ERROR] %v\n", err)
		return exitError
	}

	logger := logging.New(settings.Log.Format, settings.Log.Level, stderr)

	model, err := scenario.ParseFile(file)
	if err != nil {
		fmt.Fprintf(stderr, "[ERROR] %v\n", err)
		return exitError
	}

	opts, err := settings.Options()
	if err != nil {
		fmt.Fprintf(stderr, "[ERROR] %v\n", err)
		return exitError
	}
	opts = append(opts, optimizer.WithLogger(logger))

	opt, err := optimizer.New(model, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "[ERROR] %v\n", err)
		return exitError
	}
	for _, gap := range opt.Diagnosis().Gaps {
		logger.Warn("unreachable waypoint", "gap", gap.String())
	}

	if settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, settings.Timeout)
		defer cancel()
	}
	res, err := opt.Optimize(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "[ERROR] %v\n", err)
		return exitError
	}
	if !res.Found() {
		fmt.Fprintln(stdout, "no solution")
		return exitNoSolution
	}

	if err = printPath(stdout, model, res.Path, settings.Output); err != nil {
		fmt.Fprintf(stderr, "[ERROR] %v\n", err)
		return exitError
	}

	return exitOK
}

// parseArgs loads settings and applies the flags that were set explicitly.
func parseArgs(args []string, stderr io.Writer) (config.Settings, string, error) {
	fs := flag.NewFlagSet("questopt", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		file        = fs.String("file", "", "scenario file (required)")
		configPath  = fs.String("config", "", "YAML or TOML settings file")
		workers     = fs.Int("workers", 0, "worker goroutines (0 = GOMAXPROCS)")
		capacity    = fs.Int("capacity", optimizer.DefaultCapacity, "maximum frontier size")
		errorAfford = fs.Float64("error-afford", optimizer.DefaultErrorAfford, "admission tolerance, >= 1")
		depth       = fs.Int("depth", optimizer.DefaultDepth, "stop after this many completed walks")
		narrowness  = fs.Float64("narrowness", 0, "random selection window as a frontier fraction, 0..1")
		status      = fs.Duration("status", 0, "status log interval (0 = off)")
		seed        = fs.Int64("seed", 0, "random seed (0 = fixed default)")
		stitch      = fs.String("stitch", "auto", "start path mode: auto, single-source, all-pairs, teleport")
		timeout     = fs.Duration("timeout", 0, "search time limit (0 = none)")
		logLevel    = fs.String("log-level", "info", "debug, info, warn or error")
		logFormat   = fs.String("log-format", logging.FormatText, "text or json")
		vertexNames = fs.Bool("vertex-names", false, "print vertex names instead of indices")
		questNames  = fs.Bool("quest-names", false, "print quest line names instead of ids")
	)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: questopt -file SCENARIO [flags]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return config.Settings{}, "", err
	}
	if *file == "" {
		fs.Usage()
		return config.Settings{}, "", errors.New("-file is required")
	}

	s, err := config.Load(*configPath)
	if err != nil {
		return config.Settings{}, "", err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "workers":
			s.Workers = *workers
		case "capacity":
			s.Capacity = *capacity
		case "error-afford":
			s.ErrorAfford = *errorAfford
		case "depth":
			s.Depth = *depth
		case "narrowness":
			s.Narrowness = *narrowness
		case "status":
			s.StatusInterval = *status
		case "seed":
			s.Seed = *seed
		case "stitch":
			s.Stitch = *stitch
		case "timeout":
			s.Timeout = *timeout
		case "log-level":
			s.Log.Level = *logLevel
		case "log-format":
			s.Log.Format = *logFormat
		case "vertex-names":
			s.Output.VertexNames = *vertexNames
		case "quest-names":
			s.Output.QuestNames = *questNames
		}
	})
	if err = s.Validate(); err != nil {
		return config.Settings{}, "", err
	}

	return s, *file, nil
}
