package story

// Operator is the comparison used by a Condition.
type Operator string

const (
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
)

// Ordering reports whether the operator compares numerically rather than by
// (loose) equality.
func (o Operator) Ordering() bool {
	switch o {
	case OpGreater, OpLess, OpGreaterEqual, OpLessEqual:
		return true
	}
	return false
}

// Condition is a predicate over a single variable. It is not tied to the
// variable's declared kind; operands are coerced at evaluation time.
type Condition struct {
	VariableID string   `json:"variableId" yaml:"variableId"`
	Operator   Operator `json:"operator" yaml:"operator"`
	Value      Value    `json:"value" yaml:"value"`
}
