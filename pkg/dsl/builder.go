package dsl

import (
	"fmt"

	"github.com/lorekeep/loom/pkg/adapters/memory"
	"github.com/lorekeep/loom/pkg/story"
)

// Builder manages the graph construction. Scenes and variables keep their
// declaration order, so topology-derived behavior (entry scene, root
// detection) is deterministic.
type Builder struct {
	order     []string
	scenes    map[string]*SceneBuilder
	edges     []story.Edge
	variables []story.Variable
	pools     []story.Pool
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		scenes: make(map[string]*SceneBuilder),
	}
}

// Scene creates a new scene in the graph. If the scene already exists, it
// returns the existing builder.
func (b *Builder) Scene(id string) *SceneBuilder {
	if sb, ok := b.scenes[id]; ok {
		return sb
	}
	sb := &SceneBuilder{
		node:    story.Node{ID: id},
		builder: b,
	}
	b.order = append(b.order, id)
	b.scenes[id] = sb
	return sb
}

// Number declares a numeric variable with its default value.
func (b *Builder) Number(id string, def float64) *Builder {
	return b.variable(id, story.KindNumber, story.Number(def))
}

// Flag declares a boolean variable with its default value.
func (b *Builder) Flag(id string, def bool) *Builder {
	return b.variable(id, story.KindBool, story.Bool(def))
}

// Text declares a string variable with its default value.
func (b *Builder) Text(id string, def string) *Builder {
	return b.variable(id, story.KindString, story.String(def))
}

func (b *Builder) variable(id string, kind story.Kind, def story.Value) *Builder {
	b.variables = append(b.variables, story.Variable{
		ID:      id,
		Name:    id,
		Kind:    kind,
		Default: def,
		Current: def,
	})
	return b
}

// Pool declares a content pool over the given member scenes.
func (b *Builder) Pool(id string, memberIDs ...string) *Builder {
	b.pools = append(b.pools, story.Pool{
		ID:           id,
		Name:         id,
		MemberIDs:    memberIDs,
		WeightPolicy: story.WeightWeighted,
	})
	for _, m := range memberIDs {
		b.Scene(m).node.IsPoolMember = true
	}
	return b
}

// Graph compiles the builder into a story graph.
func (b *Builder) Graph() *story.Graph {
	g := &story.Graph{
		Nodes:     make([]story.Node, 0, len(b.order)),
		Edges:     append([]story.Edge(nil), b.edges...),
		Variables: story.CloneVariables(b.variables),
		Pools:     append([]story.Pool(nil), b.pools...),
	}
	for _, id := range b.order {
		g.Nodes = append(g.Nodes, b.scenes[id].node)
	}
	return g
}

// Loader compiles the graph into a memory loader, ready to back an engine.
func (b *Builder) Loader() *memory.Loader {
	return memory.NewLoader(b.Graph())
}

func (b *Builder) addEdge(e story.Edge) {
	if e.ID == "" {
		e.ID = fmt.Sprintf("%s-%s-%d", e.Source, e.Target, len(b.edges))
	}
	b.edges = append(b.edges, e)
}
