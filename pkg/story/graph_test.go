package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_Lookups(t *testing.T) {
	g := &Graph{
		Nodes:     []Node{{ID: "a"}, {ID: "b"}},
		Edges:     []Edge{{ID: "e1", Source: "a", Target: "b"}},
		Variables: []Variable{{ID: "v", Kind: KindNumber}},
	}

	n, ok := g.NodeByID("b")
	require.True(t, ok)
	assert.Equal(t, "b", n.ID)

	_, ok = g.NodeByID("ghost")
	assert.False(t, ok)

	e, ok := g.EdgeByID("e1")
	require.True(t, ok)
	assert.Equal(t, "a", e.Source)

	_, ok = g.VariableByID("v")
	assert.True(t, ok)
}

func TestGraph_Roots(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []Edge{{ID: "e1", Source: "a", Target: "b"}},
	}
	assert.Equal(t, []string{"a", "c"}, g.Roots())
}

func TestGraph_DefaultVariables(t *testing.T) {
	g := &Graph{
		Variables: []Variable{
			{ID: "trust", Kind: KindNumber, Default: Number(3), Current: Number(99)},
		},
	}
	vars := g.DefaultVariables()
	require.Len(t, vars, 1)
	assert.True(t, vars[0].Current.Equal(Number(3)), "runtime snapshot starts from defaults")

	// The graph itself is untouched.
	assert.True(t, g.Variables[0].Current.Equal(Number(99)))
}

func TestGraph_CloneIsDeep(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{ID: "a", Preconditions: []Condition{
			{VariableID: "v", Operator: OpEqual, Value: Number(1)},
		}}},
		Edges:     []Edge{{ID: "e", Source: "a", Target: "a"}},
		Variables: []Variable{{ID: "v", Kind: KindNumber, Default: Number(1)}},
	}

	c := g.Clone()
	c.Nodes[0].Preconditions[0].VariableID = "w"
	c.Variables[0].Current = Number(42)

	assert.Equal(t, "v", g.Nodes[0].Preconditions[0].VariableID)
	assert.False(t, g.Variables[0].Current.Equal(Number(42)))
}

func TestGraph_Validate(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{ID: "a"}, {ID: "a"}},
		Edges: []Edge{{ID: "e", Source: "a", Target: "ghost"}},
	}
	err := g.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate node id "a"`)
	assert.Contains(t, err.Error(), `target "ghost" does not exist`)
}

func TestGraph_ValidateCleanGraph(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{ID: "a"}, {ID: "b"}},
		Edges: []Edge{{ID: "e", Source: "a", Target: "b"}},
	}
	assert.NoError(t, g.Validate())
}
