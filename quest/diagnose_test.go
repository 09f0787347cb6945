package quest_test

import (
	"testing"

	"github.com/katalvlaran/questopt/quest"
	"github.com/stretchr/testify/require"
)

func TestDiagnose_Feasible(t *testing.T) {
	m := pathGraph(t)
	_, err := m.AddLine("", 0, 2)
	require.NoError(t, err)

	d, err := quest.Diagnose(m)
	require.NoError(t, err)
	require.True(t, d.Feasible())
	require.Empty(t, d.Gaps)
	require.Equal(t, []int{0, 1, 2}, d.Roots)
}

func TestDiagnose_DirectedGap(t *testing.T) {
	// 0 → 1 → 2, directed: line [2, 0] can never be satisfied.
	m := quest.NewModel(3)
	require.NoError(t, m.AddEdge(0, 1, 1))
	require.NoError(t, m.AddEdge(1, 2, 1))
	_, err := m.AddLine("", 2, 0)
	require.NoError(t, err)
	_, err = m.AddLine("", 1)
	require.NoError(t, err)

	d, err := quest.Diagnose(m)
	require.NoError(t, err)
	require.False(t, d.Feasible())
	require.Equal(t, []quest.Gap{{Line: 0, From: 2, To: 0}}, d.Gaps)
	require.Equal(t, "line 0: 2 cannot reach 0", d.Gaps[0].String())
	// Only 0 and 1 reach both 2 and 1.
	require.Equal(t, []int{0, 1}, d.Roots)
}

func TestDiagnose_DisconnectedLines(t *testing.T) {
	// Two components; each line lives in its own one.
	m := quest.NewModel(4, quest.WithBidirectional())
	require.NoError(t, m.AddEdge(0, 1, 1))
	require.NoError(t, m.AddEdge(2, 3, 1))
	_, err := m.AddLine("", 0, 1)
	require.NoError(t, err)
	_, err = m.AddLine("", 2, 3)
	require.NoError(t, err)

	d, err := quest.Diagnose(m)
	require.NoError(t, err)
	require.Empty(t, d.Gaps)
	require.Empty(t, d.Roots)
	require.False(t, d.Feasible())
}

func TestDiagnose_FastTravel(t *testing.T) {
	m := quest.NewModel(5, quest.WithFastTravel())
	_, err := m.AddLine("", 2, 4)
	require.NoError(t, err)

	d, err := quest.Diagnose(m)
	require.NoError(t, err)
	require.True(t, d.Feasible())
	require.Equal(t, []int{0, 1, 2, 3, 4}, d.Roots)
}
