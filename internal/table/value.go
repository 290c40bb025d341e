package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the scalar type carried by a Value or declared by a Column.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindString
	KindBool
)

var kindNames = [...]string{
	KindNull:   "null",
	KindInt:    "int",
	KindFloat:  "float",
	KindString: "string",
	KindBool:   "bool",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// MarshalText encodes the kind by name so stored tables stay readable.
func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("unknown kind %d", uint8(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	for i, name := range kindNames {
		if name == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown kind %q", b)
}

// Unify returns the kind a column must take to hold values of both a and b.
// Null unifies with anything, Int and Float widen to Float, and every other
// pair of distinct kinds is incompatible.
func Unify(a, b Kind) (Kind, bool) {
	switch {
	case a == b:
		return a, true
	case a == KindNull:
		return b, true
	case b == KindNull:
		return a, true
	case (a == KindInt && b == KindFloat) || (a == KindFloat && b == KindInt):
		return KindFloat, true
	default:
		return KindNull, false
	}
}

// Value is a single cell. The zero Value is Null.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
}

// Null is the missing value.
var Null = Value{}

func Int(v int64) Value { return Value{kind: KindInt, i: v} }
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }
func String(v string) Value { return Value{kind: KindString, s: v} }
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }
func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Int returns the integer payload. ok is false for any other kind.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInt }

// Float returns the value as a float64, widening ints.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }
func (v Value) Boolean() (bool, bool) { return v.b, v.kind == KindBool }

// Widen converts v so it can be stored in a column of kind k. Only Int to
// Float is a real conversion; everything else must already match.
func (v Value) Widen(k Kind) (Value, bool) {
	if v.kind == KindNull || v.kind == k {
		return v, true
	}
	if v.kind == KindInt && k == KindFloat {
		return Float(float64(v.i)), true
	}
	return v, false
}

// Equal reports whether two values hold the same kind and payload. NaN floats
// compare equal to each other.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case KindString:
		return v.s == o.s
	case KindBool:
		return v.b == o.b
	}
	return false
}

// String renders the value as plain text. Null renders empty; floats always
// carry a decimal point or exponent so they read back as floats.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindString:
		return v.s
	case KindBool:
		if v.b {
			return "True"
		}
		return "False"
	}
	return ""
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindInt:
		return strconv.AppendInt(nil, v.i, 10), nil
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return nil, fmt.Errorf("cannot encode float %v", v.f)
		}
		return []byte(formatFloat(v.f)), nil
	case KindString:
		return json.Marshal(v.s)
	case KindBool:
		return strconv.AppendBool(nil, v.b), nil
	}
	return nil, fmt.Errorf("cannot encode %s value", v.kind)
}

// UnmarshalJSON decodes a scalar. Numbers written with a fraction or exponent
// decode as Float, all others as Int.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0:
		return fmt.Errorf("empty value")
	case string(data) == "null":
		*v = Null
	case string(data) == "true":
		*v = Bool(true)
	case string(data) == "false":
		*v = Bool(false)
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	case data[0] == '{' || data[0] == '[':
		return fmt.Errorf("value must be a scalar, got %s", data)
	default:
		s := string(data)
		if strings.ContainsAny(s, ".eE") {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return fmt.Errorf("decode float %q: %w", s, err)
			}
			*v = Float(f)
			return nil
		}
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("decode int %q: %w", s, err)
		}
		*v = Int(i)
	}
	return nil
}
