package analyze

// Severity is advisory metadata: the caller decides whether a conflict blocks
// further action or is merely informational.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ConflictKind identifies which check produced a conflict.
type ConflictKind string

const (
	KindUnreachable       ConflictKind = "unreachable"
	KindDeadEnd           ConflictKind = "dead_end"
	KindNodeContradiction ConflictKind = "contradictory_preconditions"
	KindEdgeContradiction ConflictKind = "contradictory_edge_conditions"
)

// Conflict is a structural or logical issue found by static analysis.
// Conflicts are data, not errors: analysis never fails, it reports.
type Conflict struct {
	ID         string       `json:"id"`
	Kind       ConflictKind `json:"kind"`
	Severity   Severity     `json:"severity"`
	NodeIDs    []string     `json:"nodeIds"`
	EdgeIDs    []string     `json:"edgeIds,omitempty"`
	Message    string       `json:"message"`
	Suggestion string       `json:"suggestion,omitempty"`
}

// StateDependency describes which variables a scene reads and writes,
// aggregated over its own rules and its options' rules. Used purely for
// introspection and visualization.
type StateDependency struct {
	NodeID    string   `json:"nodeId"`
	DependsOn []string `json:"dependsOn"`
	Modifies  []string `json:"modifies"`
}
