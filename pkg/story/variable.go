package story

// Variable is a typed piece of mutable world state. Identity is ID; Name is
// display-only and may collide across variables.
//
// Min and Max apply only to number-kinded variables and are advisory: the
// evaluator never clamps, they exist so authoring frontends can warn.
type Variable struct {
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	Kind    Kind     `json:"kind" yaml:"kind"`
	Default Value    `json:"defaultValue" yaml:"defaultValue"`
	Current Value    `json:"currentValue" yaml:"currentValue"`
	Min     *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max     *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// Clone returns an independent copy, duplicating the advisory bounds so the
// copy shares no pointers with the original.
func (v Variable) Clone() Variable {
	out := v
	if v.Min != nil {
		m := *v.Min
		out.Min = &m
	}
	if v.Max != nil {
		m := *v.Max
		out.Max = &m
	}
	return out
}

// CloneVariables deep-copies a variable snapshot.
func CloneVariables(vars []Variable) []Variable {
	out := make([]Variable, len(vars))
	for i, v := range vars {
		out[i] = v.Clone()
	}
	return out
}
