package analyze

import "github.com/lorekeep/loom/pkg/story"

// ExtractDependencies computes, for every scene, the variables it depends on
// (its preconditions plus all of its options' conditions) and the variables
// it modifies (its effects plus all options' effects). Ids are de-duplicated
// preserving first-seen order.
func ExtractDependencies(g *story.Graph) []StateDependency {
	out := make([]StateDependency, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		dep := StateDependency{NodeID: n.ID}

		seen := make(map[string]bool)
		addDep := func(id string) {
			if !seen[id] {
				seen[id] = true
				dep.DependsOn = append(dep.DependsOn, id)
			}
		}
		for _, c := range n.Preconditions {
			addDep(c.VariableID)
		}
		for _, o := range n.Options {
			for _, c := range o.Conditions {
				addDep(c.VariableID)
			}
		}

		seenMod := make(map[string]bool)
		addMod := func(id string) {
			if !seenMod[id] {
				seenMod[id] = true
				dep.Modifies = append(dep.Modifies, id)
			}
		}
		for _, e := range n.Effects {
			addMod(e.VariableID)
		}
		for _, o := range n.Options {
			for _, e := range o.Effects {
				addMod(e.VariableID)
			}
		}

		out = append(out, dep)
	}
	return out
}
