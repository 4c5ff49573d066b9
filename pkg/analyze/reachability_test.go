package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lorekeep/loom/pkg/story"
)

func TestReachable(t *testing.T) {
	g := &story.Graph{
		Nodes: []story.Node{
			{ID: "start"},
			{ID: "mid"},
			{ID: "end"},
			{ID: "island"},
		},
		Edges: []story.Edge{
			{ID: "e1", Source: "start", Target: "mid"},
			{ID: "e2", Source: "mid", Target: "end"},
		},
	}

	assert.True(t, Reachable("start", g), "a root reaches itself")
	assert.True(t, Reachable("mid", g))
	assert.True(t, Reachable("end", g))
	assert.False(t, Reachable("island", g))
	assert.False(t, Reachable("ghost", g), "unknown scenes are unreachable")
}

func TestReachable_MultipleRoots(t *testing.T) {
	g := &story.Graph{
		Nodes: []story.Node{{ID: "a"}, {ID: "b"}, {ID: "shared"}},
		Edges: []story.Edge{
			{ID: "e1", Source: "a", Target: "shared"},
			{ID: "e2", Source: "b", Target: "shared"},
		},
	}

	// Both roots and everything below them count as reachable.
	assert.True(t, Reachable("a", g))
	assert.True(t, Reachable("b", g))
	assert.True(t, Reachable("shared", g))
}

func TestReachable_NoRootsFallsBackToFirstNode(t *testing.T) {
	// Every scene sits on the cycle, so there is no root; the walk starts
	// from the first scene instead.
	g := &story.Graph{
		Nodes: []story.Node{{ID: "a"}, {ID: "b"}},
		Edges: []story.Edge{
			{ID: "e1", Source: "a", Target: "b"},
			{ID: "e2", Source: "b", Target: "a"},
		},
	}
	assert.True(t, Reachable("a", g))
	assert.True(t, Reachable("b", g))
}

func TestReachable_DanglingEdgeIgnored(t *testing.T) {
	g := &story.Graph{
		Nodes: []story.Node{{ID: "a"}},
		Edges: []story.Edge{{ID: "e1", Source: "a", Target: "ghost"}},
	}
	assert.True(t, Reachable("a", g))
	assert.False(t, Reachable("ghost", g))
}
