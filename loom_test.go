package loom_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorekeep/loom"
	"github.com/lorekeep/loom/pkg/adapters/memory"
	"github.com/lorekeep/loom/pkg/analyze"
	"github.com/lorekeep/loom/pkg/story"
)

// storyGraph is a small but complete story: a gated middle scene, a branch
// with two endings, and one scene nothing links to.
func storyGraph() *story.Graph {
	return &story.Graph{
		Nodes: []story.Node{
			{ID: "intro", Label: "Intro", Effects: []story.Effect{
				{VariableID: "trust", Operation: story.EffectSet, Value: story.Number(0)},
			}},
			{ID: "gate", Label: "Gate", Preconditions: []story.Condition{
				{VariableID: "trust", Operator: story.OpGreaterEqual, Value: story.Number(5)},
			}},
			{ID: "bribe", Label: "Bribe", Effects: []story.Effect{
				{VariableID: "trust", Operation: story.EffectAdd, Value: story.Number(5)},
			}},
			{ID: "finale", Label: "Finale"},
			{ID: "cut-scene", Label: "Cut"},
		},
		Edges: []story.Edge{
			{ID: "intro-gate", Source: "intro", Target: "gate", Kind: story.EdgeFlow},
			{ID: "intro-bribe", Source: "intro", Target: "bribe", Kind: story.EdgeFlow},
			{ID: "bribe-gate", Source: "bribe", Target: "gate", Kind: story.EdgeFlow},
			{ID: "gate-finale", Source: "gate", Target: "finale", Kind: story.EdgeFlow},
		},
		Variables: []story.Variable{
			{ID: "trust", Name: "Trust", Kind: story.KindNumber, Default: story.Number(0), Current: story.Number(99)},
		},
	}
}

func newEngine(t *testing.T) *loom.Engine {
	t.Helper()
	eng, err := loom.New("", loom.WithLoader(memory.NewLoader(storyGraph())))
	require.NoError(t, err)
	return eng
}

func TestEngine_Classify(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	cases := map[string]story.Category{
		"intro":     story.CategoryStart,
		"gate":      story.CategoryStandard,
		"finale":    story.CategoryEnd,
		"cut-scene": story.CategoryFree,
		"missing":   story.CategoryFree,
	}
	for nodeID, want := range cases {
		got, err := eng.Classify(ctx, nodeID)
		require.NoError(t, err)
		assert.Equal(t, want, got, "node %s", nodeID)
	}
}

func TestEngine_Conflicts(t *testing.T) {
	eng := newEngine(t)

	conflicts, err := eng.Conflicts(context.Background())
	require.NoError(t, err)

	kinds := make(map[analyze.ConflictKind][][]string)
	for _, c := range conflicts {
		kinds[c.Kind] = append(kinds[c.Kind], c.NodeIDs)
	}

	// The orphan scene is unreachable; it is NOT a dead end because nothing
	// leads into it. The finale is a dead end by the literal rule.
	require.Len(t, kinds[analyze.KindUnreachable], 1)
	assert.Equal(t, []string{"cut-scene"}, kinds[analyze.KindUnreachable][0])
	require.Len(t, kinds[analyze.KindDeadEnd], 1)
	assert.Equal(t, []string{"finale"}, kinds[analyze.KindDeadEnd][0])
}

func TestEngine_Reachable(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	ok, err := eng.Reachable(ctx, "finale")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = eng.Reachable(ctx, "cut-scene")
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestEngine_SimulationWalk drives a full run: the gate is closed until the
// bribe scene raises trust, then the finale opens up.
func TestEngine_SimulationWalk(t *testing.T) {
	eng := newEngine(t)

	run, err := eng.NewSimulation(context.Background())
	require.NoError(t, err)

	snap := run.Snapshot()
	assert.Equal(t, "intro", snap.CurrentNodeID)

	// Simulation starts from defaults, not design-time current values.
	require.Len(t, snap.Variables, 1)
	assert.True(t, snap.Variables[0].Current.Equal(story.Number(0)))

	// Gate preconditions fail, so only the bribe path is open.
	available := run.Available()
	require.Len(t, available, 1)
	assert.Equal(t, "intro-bribe", available[0].ID)

	// Stepping through the closed gate is refused without advancing.
	assert.False(t, run.Step("intro-gate"))
	assert.Equal(t, "intro", run.Snapshot().CurrentNodeID)

	require.True(t, run.Step("intro-bribe"))
	require.True(t, run.Step("bribe-gate"))
	require.True(t, run.Step("gate-finale"))
	assert.True(t, run.Terminal())

	snap = run.Snapshot()
	assert.Equal(t, "finale", snap.CurrentNodeID)
	assert.True(t, snap.Variables[0].Current.Equal(story.Number(5)))
}

func TestEngine_FileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "story.yaml")
	doc := `
nodes:
  - id: intro
  - id: finale
edges:
  - id: e1
    source: intro
    target: finale
variables:
  - id: trust
    kind: number
    defaultValue: 0
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	eng, err := loom.New(path)
	require.NoError(t, err)
	assert.Equal(t, "story.yaml", eng.Name)

	g, err := eng.Graph(context.Background())
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 2)

	cat, err := eng.Classify(context.Background(), "intro")
	require.NoError(t, err)
	assert.Equal(t, story.CategoryStart, cat)
}

func TestEngine_RequiresPathOrLoader(t *testing.T) {
	_, err := loom.New("")
	assert.Error(t, err)
}
