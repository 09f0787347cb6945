package optimizer_test

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/questopt/optimizer"
	"github.com/katalvlaran/questopt/quest"
	"github.com/katalvlaran/questopt/shortest"
)

// complete4 is the complete unit-length graph on 4 vertices with line [1 3].
func complete4(t *testing.T) *quest.Model {
	t.Helper()
	m := quest.NewModel(4, quest.WithBidirectional())
	for u := 0; u < 4; u++ {
		for v := u + 1; v < 4; v++ {
			require.NoError(t, m.AddEdge(u, v, 1))
		}
	}
	_, err := m.AddLine("", 1, 3)
	require.NoError(t, err)

	return m
}

// grid builds a bidirectional unit w×h grid; vertex = y*w + x.
func grid(t *testing.T, w, h int) *quest.Model {
	t.Helper()
	m := quest.NewModel(w*h, quest.WithBidirectional())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := y*w + x
			if x+1 < w {
				require.NoError(t, m.AddEdge(v, v+1, 1))
			}
			if y+1 < h {
				require.NoError(t, m.AddEdge(v, v+w, 1))
			}
		}
	}

	return m
}

func run(t *testing.T, m *quest.Model, opts ...optimizer.Option) optimizer.Result {
	t.Helper()
	opt, err := optimizer.New(m, opts...)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	res, err := opt.Optimize(ctx)
	require.NoError(t, err)
	require.False(t, res.Canceled, "search must finish before the safety timeout")

	return res
}

// walkLength sums effective lengths and fails on a missing edge.
func walkLength(t *testing.T, m *quest.Model, walk []int) float64 {
	t.Helper()
	total := 0.0
	for i := 1; i < len(walk); i++ {
		l := m.Length(walk[i-1], walk[i])
		require.False(t, math.IsInf(l, 1), "no edge %d→%d", walk[i-1], walk[i])
		total += l
	}

	return total
}

func TestOptimize_CompleteGraph(t *testing.T) {
	m := complete4(t)
	res := run(t, m, optimizer.WithWorkers(1), optimizer.WithErrorAfford(1))
	require.True(t, res.Found())
	require.Equal(t, []int{1, 3}, res.Path.Vertices)
	require.Equal(t, 1.0, res.Path.Length)
	require.Equal(t, 1, res.Root)
	require.NotEmpty(t, res.RunID)

	for _, workers := range []int{2, 4} {
		res = run(t, complete4(t), optimizer.WithWorkers(workers))
		require.True(t, res.Found())
		require.LessOrEqual(t, res.Path.Length, 2.0)
		require.True(t, quest.Covers(res.Path, m.Lines))
	}
}

func TestOptimize_FixedStartStitches(t *testing.T) {
	build := func() *quest.Model {
		m := quest.NewModel(3, quest.WithBidirectional(), quest.WithWeighted(), quest.WithStart(0))
		require.NoError(t, m.AddEdge(0, 1, 2))
		require.NoError(t, m.AddEdge(1, 2, 3))
		_, err := m.AddLine("", 2)
		require.NoError(t, err)
		return m
	}

	for _, workers := range []int{1, 3} {
		res := run(t, build(), optimizer.WithWorkers(workers))
		require.True(t, res.Found())
		require.Equal(t, []int{0, 1, 2}, res.Path.Vertices)
		require.Equal(t, 5.0, res.Path.Length)
	}

	res := run(t, build(), optimizer.WithWorkers(1), optimizer.WithStitchMode(shortest.ModeAllPairs))
	require.Equal(t, []int{0, 1, 2}, res.Path.Vertices)
}

func TestOptimize_FastTravel(t *testing.T) {
	m := quest.NewModel(5, quest.WithFastTravel())
	_, err := m.AddLine("", 2, 4)
	require.NoError(t, err)

	res := run(t, m, optimizer.WithWorkers(1))
	require.Equal(t, []int{2, 4}, res.Path.Vertices)
	require.Equal(t, 1.0, res.Path.Length)

	res = run(t, m, optimizer.WithWorkers(4), optimizer.WithDepth(5))
	require.True(t, res.Found())
	require.LessOrEqual(t, res.Path.Length, 2.0)
	require.True(t, quest.Covers(res.Path, m.Lines))
}

func TestOptimize_FastTravelWithStart(t *testing.T) {
	m := quest.NewModel(5, quest.WithFastTravel(), quest.WithStart(0))
	_, err := m.AddLine("", 2, 4)
	require.NoError(t, err)

	// Edge-respecting stitching: only the start itself is reachable.
	res := run(t, m, optimizer.WithWorkers(1))
	require.Equal(t, 0, res.Root)
	require.Equal(t, []int{0, 2, 4}, res.Path.Vertices)
	require.Equal(t, 2.0, res.Path.Length)

	// Teleport stitching reaches every root.
	res = run(t, m, optimizer.WithWorkers(1), optimizer.WithStitchMode(shortest.ModeTeleport))
	require.Equal(t, 0, res.Path.Root())
	require.Equal(t, 2.0, res.Path.Length)
}

func TestOptimize_AdmissionBound(t *testing.T) {
	m := grid(t, 4, 4)
	_, err := m.AddLine("a", 0, 15, 3)
	require.NoError(t, err)
	_, err = m.AddLine("b", 12, 5)
	require.NoError(t, err)

	for _, workers := range []int{1, 4} {
		var (
			mu         sync.Mutex
			violations []optimizer.Event
			expanded   int
		)
		hooks := optimizer.Hooks{OnExpand: func(ev optimizer.Event) {
			mu.Lock()
			defer mu.Unlock()
			expanded++
			if ev.Remaining > max(ev.Watermark, 1) {
				violations = append(violations, ev)
			}
		}}
		res := run(t, m,
			optimizer.WithWorkers(workers),
			optimizer.WithErrorAfford(1),
			optimizer.WithDepth(3),
			optimizer.WithHooks(hooks))
		require.True(t, res.Found())
		require.Empty(t, violations)
		require.Equal(t, uint64(expanded), res.Expansions)
	}
}

func TestOptimize_BestPerRootMonotone(t *testing.T) {
	m := grid(t, 3, 3)
	_, err := m.AddLine("", 0, 8)
	require.NoError(t, err)
	_, err = m.AddLine("", 2, 6)
	require.NoError(t, err)

	var (
		mu   sync.Mutex
		last = map[int]float64{}
	)
	hooks := optimizer.Hooks{OnRecord: func(ev optimizer.Event) {
		mu.Lock()
		defer mu.Unlock()
		if !ev.Improved {
			return
		}
		if prev, ok := last[ev.Root]; ok {
			assert.LessOrEqual(t, ev.Length, prev, "root %d got worse", ev.Root)
		}
		last[ev.Root] = ev.Length
	}}

	opt, err := optimizer.New(m, optimizer.WithWorkers(3), optimizer.WithDepth(25), optimizer.WithHooks(hooks))
	require.NoError(t, err)
	res, err := opt.Optimize(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, res.Completions, uint64(25))

	best := opt.BestForRoot()
	require.NotEmpty(t, best)
	for root, p := range best {
		require.Equal(t, root, p.Root())
		require.True(t, quest.Covers(p, m.Lines), "root %d", root)
		require.Equal(t, walkLength(t, m, p.Vertices), p.Length)
		require.Equal(t, last[root], p.Length)
	}
	require.Equal(t, res.Path, opt.BestPath())
}

func TestOptimize_QuiescentWithoutSolution(t *testing.T) {
	// Both lines are reachable from 0, but 1 and 2 are dead ends.
	m := quest.NewModel(3)
	require.NoError(t, m.AddEdge(0, 1, 1))
	require.NoError(t, m.AddEdge(0, 2, 1))
	_, err := m.AddLine("", 1)
	require.NoError(t, err)
	_, err = m.AddLine("", 2)
	require.NoError(t, err)

	for _, workers := range []int{1, 4} {
		res := run(t, m, optimizer.WithWorkers(workers))
		require.False(t, res.Found())
		require.True(t, res.Quiescent)
		require.Equal(t, quest.NoStart, res.Root)
		require.True(t, math.IsInf(res.Path.Length, 1))
	}
}

func TestOptimize_Infeasible(t *testing.T) {
	m := quest.NewModel(2)
	require.NoError(t, m.AddEdge(0, 1, 1))
	_, err := m.AddLine("", 1, 0)
	require.NoError(t, err)

	opt, err := optimizer.New(m)
	require.NoError(t, err)
	require.False(t, opt.Diagnosis().Feasible())

	res, err := opt.Optimize(context.Background())
	require.NoError(t, err)
	require.False(t, res.Found())
	require.Equal(t, []quest.Gap{{Line: 0, From: 1, To: 0}}, res.Gaps)
	require.Zero(t, res.Expansions)
}

func TestOptimize_NoLines(t *testing.T) {
	res := run(t, grid(t, 2, 2), optimizer.WithWorkers(1))
	require.Equal(t, []int{0}, res.Path.Vertices)
	require.Equal(t, 0.0, res.Path.Length)
}

func TestOptimize_Cancel(t *testing.T) {
	m := grid(t, 5, 5)
	_, err := m.AddLine("", 0, 24, 4, 20)
	require.NoError(t, err)

	opt, err := optimizer.New(m, optimizer.WithWorkers(2), optimizer.WithDepth(math.MaxInt32))
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan optimizer.Result)
	go func() {
		res, err := opt.Optimize(ctx)
		assert.NoError(t, err)
		done <- res
	}()

	select {
	case res := <-done:
		require.True(t, res.Canceled)
		require.False(t, res.Quiescent)
	case <-time.After(5 * time.Second):
		t.Fatal("Optimize ignored cancellation")
	}
}

func TestOptimize_Narrowness(t *testing.T) {
	m := grid(t, 4, 4)
	_, err := m.AddLine("", 3, 12)
	require.NoError(t, err)

	res := run(t, m,
		optimizer.WithWorkers(2),
		optimizer.WithNarrowness(0.5),
		optimizer.WithSeed(7),
		optimizer.WithDepth(4))
	require.True(t, res.Found())
	require.True(t, quest.Covers(res.Path, m.Lines))
	require.Equal(t, walkLength(t, m, res.Path.Vertices), res.Path.Length)
}

func TestOptimize_OnlyOnce(t *testing.T) {
	opt, err := optimizer.New(complete4(t), optimizer.WithWorkers(1))
	require.NoError(t, err)
	_, err = opt.Optimize(context.Background())
	require.NoError(t, err)
	_, err = opt.Optimize(context.Background())
	require.ErrorIs(t, err, optimizer.ErrAlreadyRun)
}

func TestOptimize_HookPanicIsError(t *testing.T) {
	hooks := optimizer.Hooks{OnExpand: func(optimizer.Event) { panic("boom") }}
	opt, err := optimizer.New(complete4(t), optimizer.WithWorkers(2), optimizer.WithHooks(hooks))
	require.NoError(t, err)
	_, err = opt.Optimize(context.Background())
	require.ErrorContains(t, err, "boom")
}

// within fails the test when fn does not return in time.
func within(t *testing.T, d time.Duration, what string, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("%s did not return within %v", what, d)
	}
}

func TestOptimize_RecordHookPanicReleasesTable(t *testing.T) {
	hooks := optimizer.Hooks{OnRecord: func(optimizer.Event) { panic("boom") }}
	opt, err := optimizer.New(complete4(t), optimizer.WithWorkers(1), optimizer.WithHooks(hooks))
	require.NoError(t, err)

	within(t, 2*time.Second, "Optimize", func() {
		_, err = opt.Optimize(context.Background())
	})
	require.ErrorContains(t, err, "boom")

	within(t, 2*time.Second, "BestPath", func() { opt.BestPath() })
	within(t, 2*time.Second, "BestForRoot", func() { opt.BestForRoot() })
}

func TestOptimize_RecordHookPanicStopsAllWorkers(t *testing.T) {
	m := grid(t, 4, 4)
	_, err := m.AddLine("", 3, 12)
	require.NoError(t, err)

	var once sync.Once
	hooks := optimizer.Hooks{OnRecord: func(optimizer.Event) {
		once.Do(func() {
			time.Sleep(100 * time.Millisecond)
			panic("boom")
		})
	}}
	opt, err := optimizer.New(m,
		optimizer.WithWorkers(4),
		optimizer.WithDepth(math.MaxInt32),
		optimizer.WithHooks(hooks))
	require.NoError(t, err)

	within(t, 3*time.Second, "Optimize", func() {
		_, err = opt.Optimize(context.Background())
	})
	require.ErrorContains(t, err, "boom")
	within(t, 2*time.Second, "BestPath", func() { opt.BestPath() })
}

// staleCtx reports an error without ever closing Done.
type staleCtx struct{ context.Context }

func (staleCtx) Err() error { return context.DeadlineExceeded }

func TestOptimize_QuiescentIsNotCanceled(t *testing.T) {
	m := quest.NewModel(3)
	require.NoError(t, m.AddEdge(0, 1, 1))
	require.NoError(t, m.AddEdge(0, 2, 1))
	_, err := m.AddLine("", 1)
	require.NoError(t, err)
	_, err = m.AddLine("", 2)
	require.NoError(t, err)

	opt, err := optimizer.New(m, optimizer.WithWorkers(2))
	require.NoError(t, err)
	res, err := opt.Optimize(staleCtx{context.Background()})
	require.NoError(t, err)
	require.True(t, res.Quiescent)
	require.False(t, res.Canceled)
}

func TestOptimize_MetricsAndStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := optimizer.NewMetrics(reg)

	var buf syncBuffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	m := grid(t, 5, 5)
	_, err := m.AddLine("", 0, 24, 4, 20)
	require.NoError(t, err)

	opt, err := optimizer.New(m,
		optimizer.WithWorkers(2),
		optimizer.WithDepth(math.MaxInt32),
		optimizer.WithStatusInterval(time.Millisecond),
		optimizer.WithLogger(logger),
		optimizer.WithMetrics(metrics))
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	res, err := opt.Optimize(ctx)
	require.NoError(t, err)

	require.Equal(t, float64(res.Completions), testutil.ToFloat64(metrics.Completions))
	require.Equal(t, float64(res.Expansions), testutil.ToFloat64(metrics.Expansions))
	require.Equal(t, float64(res.Pruned), testutil.ToFloat64(metrics.Pruned))
	require.Equal(t, 1, testutil.CollectAndCount(metrics.Duration))

	out := buf.String()
	require.Contains(t, out, `"msg":"search status"`)
	require.Contains(t, out, `"msg":"search finished"`)
	require.Contains(t, out, opt.RunID())
}

func TestNew_Validation(t *testing.T) {
	cases := []struct {
		name string
		opt  optimizer.Option
		want error
	}{
		{"workers", optimizer.WithWorkers(0), optimizer.ErrBadWorkers},
		{"capacity", optimizer.WithCapacity(0), optimizer.ErrBadCapacity},
		{"afford", optimizer.WithErrorAfford(0.99), optimizer.ErrBadErrorAfford},
		{"afford NaN", optimizer.WithErrorAfford(math.NaN()), optimizer.ErrBadErrorAfford},
		{"depth", optimizer.WithDepth(0), optimizer.ErrBadDepth},
		{"narrow low", optimizer.WithNarrowness(-0.1), optimizer.ErrBadNarrowness},
		{"narrow high", optimizer.WithNarrowness(1.5), optimizer.ErrBadNarrowness},
		{"interval", optimizer.WithStatusInterval(-time.Second), optimizer.ErrBadInterval},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := optimizer.New(complete4(t), tc.opt)
			require.ErrorIs(t, err, tc.want)
		})
	}

	_, err := optimizer.New(nil)
	require.ErrorIs(t, err, optimizer.ErrNilModel)

	bad := quest.NewModel(2)
	bad.Adj[0][1] = math.NaN()
	_, err = optimizer.New(bad)
	require.ErrorIs(t, err, quest.ErrNaNLength)
}

// syncBuffer is a bytes.Buffer safe for the concurrent writes of the
// observer and the workers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
