package story

// EffectOp is the mutation a rule applies to a variable.
type EffectOp string

const (
	EffectSet      EffectOp = "set"
	EffectAdd      EffectOp = "add"
	EffectSubtract EffectOp = "subtract"
	EffectToggle   EffectOp = "toggle"
)

// Effect is a mutation applied to one variable when a scene is entered.
// Add and subtract coerce both operands numerically, which can change a
// variable's runtime type; toggle negates the truthiness of any value.
type Effect struct {
	VariableID string   `json:"variableId" yaml:"variableId"`
	Operation  EffectOp `json:"operation" yaml:"operation"`
	Value      Value    `json:"value" yaml:"value"`
}
