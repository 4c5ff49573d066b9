package story

import (
	"errors"
	"fmt"
)

// Graph is the whole authored story: scenes, links, world state, and pools.
//
// The engine treats a Graph as an immutable snapshot. Lookups tolerate
// dangling references (an edge whose endpoint no longer exists behaves as if
// the edge were absent) because graphs arrive mid-edit from an authoring
// frontend and must remain analyzable while incomplete.
type Graph struct {
	Nodes     []Node     `json:"nodes" yaml:"nodes"`
	Edges     []Edge     `json:"edges" yaml:"edges"`
	Variables []Variable `json:"variables" yaml:"variables"`
	Pools     []Pool     `json:"pools" yaml:"pools"`
}

// NodeByID looks up a scene.
func (g *Graph) NodeByID(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// EdgeByID looks up a link.
func (g *Graph) EdgeByID(id string) (Edge, bool) {
	for _, e := range g.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return Edge{}, false
}

// VariableByID looks up a variable.
func (g *Graph) VariableByID(id string) (Variable, bool) {
	for _, v := range g.Variables {
		if v.ID == id {
			return v, true
		}
	}
	return Variable{}, false
}

// Outgoing returns every edge whose source is the given scene, in authored
// order. Edges with dangling targets are included; callers that follow them
// must tolerate the missing node.
func (g *Graph) Outgoing(nodeID string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Source == nodeID {
			out = append(out, e)
		}
	}
	return out
}

// HasIncoming reports whether any edge targets the given scene.
func (g *Graph) HasIncoming(nodeID string) bool {
	for _, e := range g.Edges {
		if e.Target == nodeID {
			return true
		}
	}
	return false
}

// HasOutgoing reports whether any edge leaves the given scene.
func (g *Graph) HasOutgoing(nodeID string) bool {
	for _, e := range g.Edges {
		if e.Source == nodeID {
			return true
		}
	}
	return false
}

// Roots returns the ids of scenes with no incoming edge, in authored order.
func (g *Graph) Roots() []string {
	var roots []string
	for _, n := range g.Nodes {
		if !g.HasIncoming(n.ID) {
			roots = append(roots, n.ID)
		}
	}
	return roots
}

// DefaultVariables returns a fresh runtime snapshot with every variable set
// to its default value. Used when a simulation starts or resets.
func (g *Graph) DefaultVariables() []Variable {
	out := make([]Variable, len(g.Variables))
	for i, v := range g.Variables {
		c := v.Clone()
		c.Current = c.Default
		out[i] = c
	}
	return out
}

// Clone deep-copies the graph so callers can hold a snapshot across edits.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		Nodes:     make([]Node, len(g.Nodes)),
		Edges:     make([]Edge, len(g.Edges)),
		Variables: CloneVariables(g.Variables),
		Pools:     make([]Pool, len(g.Pools)),
	}
	for i, n := range g.Nodes {
		c := n
		c.Preconditions = append([]Condition(nil), n.Preconditions...)
		c.Effects = append([]Effect(nil), n.Effects...)
		c.Tags = append([]string(nil), n.Tags...)
		if n.BranchChoiceIndex != nil {
			idx := *n.BranchChoiceIndex
			c.BranchChoiceIndex = &idx
		}
		c.Options = make([]ChoiceOption, len(n.Options))
		for j, o := range n.Options {
			oc := o
			oc.Conditions = append([]Condition(nil), o.Conditions...)
			oc.Effects = append([]Effect(nil), o.Effects...)
			c.Options[j] = oc
		}
		out.Nodes[i] = c
	}
	for i, e := range g.Edges {
		c := e
		if e.Weight != nil {
			w := *e.Weight
			c.Weight = &w
		}
		c.Conditions = append([]Condition(nil), e.Conditions...)
		c.Effects = append([]Effect(nil), e.Effects...)
		out.Edges[i] = c
	}
	copy(out.Pools, g.Pools)
	for i, p := range g.Pools {
		out.Pools[i].MemberIDs = append([]string(nil), p.MemberIDs...)
	}
	return out
}

// Validate checks the structural invariants the schema asks authors to hold:
// unique node/edge ids, edge endpoints referencing existing scenes, and rule
// references pointing at declared variables.
//
// Violations are reported, never fatal. The runtime tolerates all of them
// with documented fallbacks, so a non-nil result is advisory.
func (g *Graph) Validate() error {
	var errs []error

	nodeIDs := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if nodeIDs[n.ID] {
			errs = append(errs, fmt.Errorf("duplicate node id %q", n.ID))
		}
		nodeIDs[n.ID] = true
	}

	edgeIDs := make(map[string]bool, len(g.Edges))
	for _, e := range g.Edges {
		if edgeIDs[e.ID] {
			errs = append(errs, fmt.Errorf("duplicate edge id %q", e.ID))
		}
		edgeIDs[e.ID] = true
		if !nodeIDs[e.Source] {
			errs = append(errs, fmt.Errorf("edge %q: source %q does not exist", e.ID, e.Source))
		}
		if !nodeIDs[e.Target] {
			errs = append(errs, fmt.Errorf("edge %q: target %q does not exist", e.ID, e.Target))
		}
	}

	varIDs := make(map[string]bool, len(g.Variables))
	for _, v := range g.Variables {
		varIDs[v.ID] = true
	}
	checkRules := func(owner string, conds []Condition, effs []Effect) {
		for _, c := range conds {
			if !varIDs[c.VariableID] {
				errs = append(errs, fmt.Errorf("%s: condition references unknown variable %q", owner, c.VariableID))
			}
		}
		for _, e := range effs {
			if !varIDs[e.VariableID] {
				errs = append(errs, fmt.Errorf("%s: effect references unknown variable %q", owner, e.VariableID))
			}
		}
	}
	for _, n := range g.Nodes {
		checkRules(fmt.Sprintf("node %q", n.ID), n.Preconditions, n.Effects)
		for _, o := range n.Options {
			checkRules(fmt.Sprintf("node %q option %q", n.ID, o.ID), o.Conditions, o.Effects)
		}
	}
	for _, e := range g.Edges {
		checkRules(fmt.Sprintf("edge %q", e.ID), e.Conditions, e.Effects)
	}

	return errors.Join(errs...)
}
