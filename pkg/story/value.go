package story

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind identifies the runtime type of a Value or the declared type of a Variable.
type Kind string

const (
	KindBool   Kind = "boolean"
	KindNumber Kind = "number"
	KindString Kind = "string"
)

// Value is the tagged union over the three literal types the rule language
// supports. Conditions and effects carry untyped literals; comparisons coerce
// at evaluation time, so a Value deliberately does not enforce the declared
// kind of the variable it is compared against.
//
// The zero Value is the empty string.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
}

// Bool wraps a boolean literal.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a numeric literal.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String wraps a string literal.
func String(s string) Value { return Value{kind: KindString, s: s} }

// FromAny converts a dynamically-typed scalar (as produced by JSON or YAML
// decoding) into a Value. Unsupported types fall back to their string form.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return String("")
	case bool:
		return Bool(t)
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case string:
		return String(t)
	default:
		return String(fmt.Sprintf("%v", t))
	}
}

// Kind returns the runtime type tag.
func (v Value) Kind() Kind {
	if v.kind == "" {
		return KindString
	}
	return v.kind
}

// AsBool coerces the value to a boolean using truthiness rules: non-zero
// numbers and non-empty strings are true.
func (v Value) AsBool() bool {
	switch v.Kind() {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n != 0 && !math.IsNaN(v.n)
	default:
		return v.s != ""
	}
}

// AsNumber coerces the value to a number. Booleans become 0 or 1; strings are
// parsed, yielding NaN when they do not contain a number and 0 when blank.
func (v Value) AsNumber() float64 {
	switch v.Kind() {
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	case KindNumber:
		return v.n
	default:
		trimmed := strings.TrimSpace(v.s)
		if trimmed == "" {
			return 0
		}
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return n
	}
}

// AsString returns the display form of the value.
func (v Value) AsString() string {
	switch v.Kind() {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	default:
		return v.s
	}
}

// Equal reports strict equality: same tag, same payload.
func (v Value) Equal(o Value) bool {
	if v.Kind() != o.Kind() {
		return false
	}
	switch v.Kind() {
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n
	default:
		return v.s == o.s
	}
}

// LooseEqual reports weak equality with implicit coercion, matching the rule
// language: "5" == 5 is true, true == 1 is true, NaN never equals anything.
func (v Value) LooseEqual(o Value) bool {
	// A boolean operand is reduced to its numeric form first.
	if v.Kind() == KindBool {
		return Number(v.AsNumber()).LooseEqual(o)
	}
	if o.Kind() == KindBool {
		return v.LooseEqual(Number(o.AsNumber()))
	}
	if v.Kind() == o.Kind() {
		if v.Kind() == KindNumber {
			return v.n == o.n
		}
		return v.s == o.s
	}
	// Mixed number/string: compare numerically.
	a, b := v.AsNumber(), o.AsNumber()
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	return a == b
}

// MarshalJSON emits the bare scalar, preserving the wire schema used by
// authoring frontends.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind() {
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		return json.Marshal(v.n)
	default:
		return json.Marshal(v.s)
	}
}

// UnmarshalJSON accepts any scalar literal.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.(type) {
	case nil, bool, float64, string:
		*v = FromAny(raw)
		return nil
	default:
		return fmt.Errorf("value must be a boolean, number, or string, got %T", raw)
	}
}

// MarshalYAML emits the bare scalar.
func (v Value) MarshalYAML() (any, error) {
	switch v.Kind() {
	case KindBool:
		return v.b, nil
	case KindNumber:
		return v.n, nil
	default:
		return v.s, nil
	}
}

// UnmarshalYAML accepts any scalar node.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	switch raw.(type) {
	case nil, bool, int, int64, float64, string:
		*v = FromAny(raw)
		return nil
	default:
		return fmt.Errorf("value must be a boolean, number, or string, got %T", raw)
	}
}
