package story

// EdgeKind distinguishes how a link is meant to be traversed or displayed.
type EdgeKind string

const (
	EdgeFlow       EdgeKind = "flow"
	EdgeOption     EdgeKind = "option"
	EdgeTrigger    EdgeKind = "trigger"
	EdgeConstraint EdgeKind = "constraint"
)

// Edge is a directed link between two scenes.
//
// Weight is consumed only by pool-style weighted selection. Edge-level
// conditions and effects exist in the schema and are inspected by the static
// analyzer, but the simulator gates on the target node's own rules; see the
// analyzer and simulator packages for the exact contract.
type Edge struct {
	ID         string      `json:"id" yaml:"id"`
	Source     string      `json:"source" yaml:"source"`
	Target     string      `json:"target" yaml:"target"`
	Kind       EdgeKind    `json:"kind" yaml:"kind"`
	Label      string      `json:"label,omitempty" yaml:"label,omitempty"`
	Weight     *float64    `json:"weight,omitempty" yaml:"weight,omitempty"`
	Conditions []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Effects    []Effect    `json:"effects,omitempty" yaml:"effects,omitempty"`
}
