// Package eval evaluates conditions against a variable snapshot and applies
// effects to produce new snapshots.
//
// Every function here is total: an unknown variable id makes a condition
// false and an effect a no-op, and an unknown operator evaluates permissively
// to true. These are deliberate policies, not omissions: the engine has to
// stay usable against a partially-wired graph that is still being authored.
package eval

import (
	"math"

	"github.com/lorekeep/loom/pkg/story"
)

// Condition evaluates a single predicate against the snapshot.
//
// A condition referencing a variable absent from the snapshot can never be
// satisfied (default deny). Equality operators use loose coercion; ordering
// operators cast both operands numerically, so non-numeric strings compare
// as NaN and fail.
func Condition(c story.Condition, vars []story.Variable) bool {
	v, ok := lookup(c.VariableID, vars)
	if !ok {
		return false
	}

	switch c.Operator {
	case story.OpEqual:
		return v.Current.LooseEqual(c.Value)
	case story.OpNotEqual:
		return !v.Current.LooseEqual(c.Value)
	case story.OpGreater, story.OpLess, story.OpGreaterEqual, story.OpLessEqual:
		a, b := v.Current.AsNumber(), c.Value.AsNumber()
		if math.IsNaN(a) || math.IsNaN(b) {
			return false
		}
		switch c.Operator {
		case story.OpGreater:
			return a > b
		case story.OpLess:
			return a < b
		case story.OpGreaterEqual:
			return a >= b
		default:
			return a <= b
		}
	default:
		// Unknown operators pass, keeping forward compatibility with rule
		// vocabularies the engine does not know yet.
		return true
	}
}

// Conditions is the conjunction over all predicates. An empty list is
// vacuously true.
func Conditions(cs []story.Condition, vars []story.Variable) bool {
	for _, c := range cs {
		if !Condition(c, vars) {
			return false
		}
	}
	return true
}

// ApplyEffect returns a new snapshot with the target variable mutated. The
// input is never touched; when the variable is not found the result is an
// unchanged copy.
func ApplyEffect(e story.Effect, vars []story.Variable) []story.Variable {
	out := story.CloneVariables(vars)
	i, ok := index(e.VariableID, out)
	if !ok {
		return out
	}

	cur := out[i].Current
	switch e.Operation {
	case story.EffectSet:
		out[i].Current = e.Value
	case story.EffectAdd:
		out[i].Current = story.Number(cur.AsNumber() + e.Value.AsNumber())
	case story.EffectSubtract:
		out[i].Current = story.Number(cur.AsNumber() - e.Value.AsNumber())
	case story.EffectToggle:
		out[i].Current = story.Bool(!cur.AsBool())
	}
	return out
}

// ApplyEffects folds ApplyEffect left to right, so each effect sees the
// result of the previous one: add 5 then add 3 nets +8 on the same variable.
func ApplyEffects(es []story.Effect, vars []story.Variable) []story.Variable {
	out := story.CloneVariables(vars)
	for _, e := range es {
		out = ApplyEffect(e, out)
	}
	return out
}

func lookup(id string, vars []story.Variable) (story.Variable, bool) {
	i, ok := index(id, vars)
	if !ok {
		return story.Variable{}, false
	}
	return vars[i], true
}

func index(id string, vars []story.Variable) (int, bool) {
	for i := range vars {
		if vars[i].ID == id {
			return i, true
		}
	}
	return 0, false
}
