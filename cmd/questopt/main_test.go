package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var chainFile = filepath.Join("..", "..", "scenario", "testdata", "chain.txt")

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func TestRun_Chain(t *testing.T) {
	code, out, _ := runCLI(t, "-file", chainFile, "-workers", "1", "-log-level", "error")
	require.Equal(t, exitOK, code)
	require.Equal(t, "5\n0:\n1:\n2: 0\n", out)
}

func TestRun_Names(t *testing.T) {
	code, out, _ := runCLI(t, "-file", chainFile, "-vertex-names", "-quest-names", "-log-level", "error")
	require.Equal(t, exitOK, code)
	require.Equal(t, "5\ncamp:\n1:\ntower: rescue\n", out)
}

func TestRun_ConfigFileAndFlagPrecedence(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "questopt.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("workers: 1\noutput:\n  vertex_names: true\nlog:\n  level: error\n"), 0o644))

	code, out, _ := runCLI(t, "-file", chainFile, "-config", cfg)
	require.Equal(t, exitOK, code)
	require.Equal(t, "5\ncamp:\n1:\ntower: 0\n", out)

	code, out, _ = runCLI(t, "-file", chainFile, "-config", cfg, "-vertex-names=false")
	require.Equal(t, exitOK, code)
	require.Equal(t, "5\n0:\n1:\n2: 0\n", out)
}

func TestRun_NoSolution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gap.txt")
	src := "VertexCount:\n\t2\nEdges:\n\t0 1\nQuestLines:\n\t1 0\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	code, out, errOut := runCLI(t, "-file", path, "-log-level", "warn")
	require.Equal(t, exitNoSolution, code)
	require.Equal(t, "no solution\n", out)
	require.Contains(t, errOut, "1 cannot reach 0")
}

func TestRun_Errors(t *testing.T) {
	code, _, errOut := runCLI(t)
	require.Equal(t, exitError, code)
	require.Contains(t, errOut, "[ERROR] -file is required")

	code, _, errOut = runCLI(t, "-file", filepath.Join(t.TempDir(), "missing.txt"))
	require.Equal(t, exitError, code)
	require.Contains(t, errOut, "[ERROR]")

	bad := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("VertexCount:\n\tmany\n"), 0o644))
	code, _, errOut = runCLI(t, "-file", bad)
	require.Equal(t, exitError, code)
	require.Contains(t, errOut, "invalid format")

	code, _, errOut = runCLI(t, "-file", chainFile, "-error-afford", "0.5")
	require.Equal(t, exitError, code)
	require.Contains(t, errOut, "error afford")

	code, _, _ = runCLI(t, "-no-such-flag")
	require.Equal(t, exitError, code)

	code, _, _ = runCLI(t, "-h")
	require.Equal(t, exitOK, code)
}
