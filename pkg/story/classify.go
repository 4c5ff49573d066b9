package story

// Category is a topology-derived classification of a scene. Categories are
// never stored on the node; they are recomputed from the current graph so
// there is no cached field to invalidate as edges change.
type Category string

const (
	CategoryStandard Category = "standard"
	CategoryFree     Category = "free"
	CategoryStart    Category = "start"
	CategoryEnd      Category = "end"
	CategoryBranch   Category = "branch"
)

// Classify maps a scene to its category.
//
// An explicit IsBranch marker wins unconditionally, before any topology is
// consulted. Otherwise the category follows edge degrees: both directions is
// standard, neither is free, only outgoing is a start, only incoming is an
// end. A scene id not present in the graph classifies as free, the same as a
// node with zero degree.
func Classify(nodeID string, g *Graph) Category {
	node, ok := g.NodeByID(nodeID)
	if !ok {
		return CategoryFree
	}
	if node.IsBranch {
		return CategoryBranch
	}

	hasIncoming := g.HasIncoming(nodeID)
	hasOutgoing := g.HasOutgoing(nodeID)
	switch {
	case hasIncoming && hasOutgoing:
		return CategoryStandard
	case !hasIncoming && !hasOutgoing:
		return CategoryFree
	case hasOutgoing:
		return CategoryStart
	default:
		return CategoryEnd
	}
}
