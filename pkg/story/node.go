package story

// ChoiceOption is a player-facing branch declared on a choice scene. Its
// conditions and effects are distinct from the node's own; the simulator
// drives flow from edges and the target node's rules, so option-level rules
// are authoring metadata surfaced to frontends.
type ChoiceOption struct {
	ID         string      `json:"id" yaml:"id"`
	Text       string      `json:"text" yaml:"text"`
	TargetID   string      `json:"targetId,omitempty" yaml:"targetId,omitempty"`
	Conditions []Condition `json:"conditions" yaml:"conditions"`
	Effects    []Effect    `json:"effects" yaml:"effects"`
}

// Node is a unit of narrative content: a scene with optional gating
// preconditions and state-mutating effects.
//
// Preconditions gate entry when the scene is reached via simulation; effects
// fire on entry. Options are present only when HasChoice is set.
type Node struct {
	ID                string         `json:"id" yaml:"id"`
	Label             string         `json:"label" yaml:"label"`
	Content           string         `json:"content,omitempty" yaml:"content,omitempty"`
	Location          string         `json:"location,omitempty" yaml:"location,omitempty"`
	Preconditions     []Condition    `json:"preconditions" yaml:"preconditions"`
	Effects           []Effect       `json:"effects" yaml:"effects"`
	Options           []ChoiceOption `json:"options,omitempty" yaml:"options,omitempty"`
	Tags              []string       `json:"tags" yaml:"tags"`
	IsPoolMember      bool           `json:"isPoolMember,omitempty" yaml:"isPoolMember,omitempty"`
	HasChoice         bool           `json:"hasChoice" yaml:"hasChoice"`
	IsBranch          bool           `json:"isBranch,omitempty" yaml:"isBranch,omitempty"`
	BranchChoiceIndex *int           `json:"branchChoiceIndex,omitempty" yaml:"branchChoiceIndex,omitempty"`
}
