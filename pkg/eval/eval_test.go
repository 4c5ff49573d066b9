package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorekeep/loom/pkg/story"
)

func vars() []story.Variable {
	return []story.Variable{
		{ID: "trust", Kind: story.KindNumber, Current: story.Number(5)},
		{ID: "met_guide", Kind: story.KindBool, Current: story.Bool(false)},
		{ID: "mood", Kind: story.KindString, Current: story.String("calm")},
	}
}

func TestCondition_Operators(t *testing.T) {
	cases := []struct {
		name string
		cond story.Condition
		want bool
	}{
		{"equal number", story.Condition{VariableID: "trust", Operator: story.OpEqual, Value: story.Number(5)}, true},
		{"equal coerced string", story.Condition{VariableID: "trust", Operator: story.OpEqual, Value: story.String("5")}, true},
		{"not equal", story.Condition{VariableID: "mood", Operator: story.OpNotEqual, Value: story.String("angry")}, true},
		{"greater", story.Condition{VariableID: "trust", Operator: story.OpGreater, Value: story.Number(4)}, true},
		{"greater fails on equal", story.Condition{VariableID: "trust", Operator: story.OpGreater, Value: story.Number(5)}, false},
		{"greater equal", story.Condition{VariableID: "trust", Operator: story.OpGreaterEqual, Value: story.Number(5)}, true},
		{"less", story.Condition{VariableID: "trust", Operator: story.OpLess, Value: story.Number(6)}, true},
		{"less equal", story.Condition{VariableID: "trust", Operator: story.OpLessEqual, Value: story.Number(4)}, false},
		{"bool loose equal to zero", story.Condition{VariableID: "met_guide", Operator: story.OpEqual, Value: story.Number(0)}, true},
		{"ordering on non-numeric string", story.Condition{VariableID: "mood", Operator: story.OpGreater, Value: story.Number(1)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Condition(tc.cond, vars()))
		})
	}
}

func TestCondition_UnknownVariableIsFalse(t *testing.T) {
	c := story.Condition{VariableID: "ghost", Operator: story.OpEqual, Value: story.Number(0)}
	assert.False(t, Condition(c, vars()))
}

func TestCondition_UnknownOperatorIsTrue(t *testing.T) {
	c := story.Condition{VariableID: "trust", Operator: "~=", Value: story.Number(0)}
	assert.True(t, Condition(c, vars()))
}

func TestConditions_Conjunction(t *testing.T) {
	assert.True(t, Conditions(nil, vars()), "empty condition list is vacuously true")

	cs := []story.Condition{
		{VariableID: "trust", Operator: story.OpGreaterEqual, Value: story.Number(5)},
		{VariableID: "mood", Operator: story.OpEqual, Value: story.String("calm")},
	}
	assert.True(t, Conditions(cs, vars()))

	cs = append(cs, story.Condition{VariableID: "met_guide", Operator: story.OpEqual, Value: story.Bool(true)})
	assert.False(t, Conditions(cs, vars()))
}

func TestApplyEffect(t *testing.T) {
	t.Run("set", func(t *testing.T) {
		out := ApplyEffect(story.Effect{VariableID: "mood", Operation: story.EffectSet, Value: story.String("angry")}, vars())
		v, _ := find(out, "mood")
		assert.True(t, v.Current.Equal(story.String("angry")))

		// Set is idempotent.
		out = ApplyEffect(story.Effect{VariableID: "mood", Operation: story.EffectSet, Value: story.String("angry")}, out)
		v, _ = find(out, "mood")
		assert.True(t, v.Current.Equal(story.String("angry")))
	})

	t.Run("add and subtract", func(t *testing.T) {
		out := ApplyEffect(story.Effect{VariableID: "trust", Operation: story.EffectAdd, Value: story.Number(3)}, vars())
		out = ApplyEffect(story.Effect{VariableID: "trust", Operation: story.EffectSubtract, Value: story.Number(1)}, out)
		v, _ := find(out, "trust")
		assert.True(t, v.Current.Equal(story.Number(7)))
	})

	t.Run("add coerces the current value to a number", func(t *testing.T) {
		// A string variable holding a numeric string still adds arithmetically,
		// and the result becomes a number.
		start := []story.Variable{{ID: "s", Kind: story.KindString, Current: story.String("4")}}
		out := ApplyEffect(story.Effect{VariableID: "s", Operation: story.EffectAdd, Value: story.Number(1)}, start)
		assert.True(t, out[0].Current.Equal(story.Number(5)))
	})

	t.Run("toggle round trip", func(t *testing.T) {
		out := ApplyEffect(story.Effect{VariableID: "met_guide", Operation: story.EffectToggle}, vars())
		v, _ := find(out, "met_guide")
		assert.True(t, v.Current.Equal(story.Bool(true)))

		out = ApplyEffect(story.Effect{VariableID: "met_guide", Operation: story.EffectToggle}, out)
		v, _ = find(out, "met_guide")
		assert.True(t, v.Current.Equal(story.Bool(false)))
	})

	t.Run("unknown variable is a no-op", func(t *testing.T) {
		out := ApplyEffect(story.Effect{VariableID: "ghost", Operation: story.EffectSet, Value: story.Number(1)}, vars())
		assert.Equal(t, len(vars()), len(out))
		v, _ := find(out, "trust")
		assert.True(t, v.Current.Equal(story.Number(5)))
	})
}

func TestApplyEffect_InputUntouched(t *testing.T) {
	in := vars()
	ApplyEffect(story.Effect{VariableID: "trust", Operation: story.EffectAdd, Value: story.Number(10)}, in)
	v, _ := find(in, "trust")
	assert.True(t, v.Current.Equal(story.Number(5)))
}

func TestApplyEffects_FoldsLeftToRight(t *testing.T) {
	es := []story.Effect{
		{VariableID: "trust", Operation: story.EffectSet, Value: story.Number(1)},
		{VariableID: "trust", Operation: story.EffectAdd, Value: story.Number(5)},
		{VariableID: "trust", Operation: story.EffectAdd, Value: story.Number(5)},
	}
	out := ApplyEffects(es, vars())
	v, _ := find(out, "trust")
	assert.True(t, v.Current.Equal(story.Number(11)))
}

func TestApplyEffects_EmptyListCopies(t *testing.T) {
	in := vars()
	out := ApplyEffects(nil, in)

	require.Equal(t, len(in), len(out))
	for i := range in {
		assert.True(t, in[i].Current.Equal(out[i].Current))
	}

	// Fresh backing array: mutating the copy leaves the input alone.
	out[0].Current = story.Number(-1)
	assert.True(t, in[0].Current.Equal(story.Number(5)))
}

func find(vars []story.Variable, id string) (story.Variable, bool) {
	for _, v := range vars {
		if v.ID == id {
			return v, true
		}
	}
	return story.Variable{}, false
}
