// Package value implements the Language's runtime value model: the
// tagged sum of nil, bool, character, string, number and callable that
// makes up a Literal value.
package value

import "fmt"

// Value is the closed sum of runtime value variants. Dispatch happens
// via a type switch on the concrete type, never via an inheritance
// hierarchy.
type Value interface {
	isValue()
}

// Nil is the single null-unit value.
type Nil struct{}

func (Nil) isValue() {}

// Bool wraps a boolean.
type Bool bool

func (Bool) isValue() {}

// Char wraps a single source character, as produced by a 'x' literal.
type Char rune

func (Char) isValue() {}

// String wraps a string value.
type String string

func (String) isValue() {}

// NumTag orders the three numeric widths; the ordering is significant
// and drives the promotion rule in Promote.
type NumTag int

const (
	ByteTag NumTag = iota
	IntTag
	DoubleTag
)

// Number is the numeric tower: byte (unsigned 8-bit), int (host signed
// integer) or double (host float64), distinguished by Tag. Only the
// field matching Tag is meaningful.
type Number struct {
	Tag    NumTag
	Byte   uint8
	Int    int64
	Double float64
}

func (Number) isValue() {}

// NewByte builds a Number carrying an unsigned 8-bit value.
func NewByte(b uint8) Number { return Number{Tag: ByteTag, Byte: b} }

// NewInt builds a Number carrying a host signed integer.
func NewInt(i int64) Number { return Number{Tag: IntTag, Int: i} }

// NewDouble builds a Number carrying a host double.
func NewDouble(d float64) Number { return Number{Tag: DoubleTag, Double: d} }

// Float64 widens the number to a float64, regardless of tag.
func (n Number) Float64() float64 {
	switch n.Tag {
	case ByteTag:
		return float64(n.Byte)
	case IntTag:
		return float64(n.Int)
	default:
		return n.Double
	}
}

// Int64 widens the number to an int64. It is only meaningful for Byte
// and Int tags; callers must not call it on a Double.
func (n Number) Int64() int64 {
	if n.Tag == ByteTag {
		return int64(n.Byte)
	}
	return n.Int
}

// Promote widens both operands to the higher of their two tags, per
// the numeric tower's promotion rule (byte < int < double).
func Promote(a, b Number) (Number, Number) {
	tag := a.Tag
	if b.Tag > tag {
		tag = b.Tag
	}
	return widen(a, tag), widen(b, tag)
}

func widen(n Number, tag NumTag) Number {
	if n.Tag == tag {
		return n
	}
	switch tag {
	case IntTag:
		return NewInt(n.Int64())
	case DoubleTag:
		return NewDouble(n.Float64())
	default:
		return n
	}
}

// Callable is the abstraction every callable Value implements: arity,
// the call operation and a printable name. User functions and the
// built-ins in internal/interp both satisfy it.
type Callable interface {
	Value
	Arity() int
	Name() string
	Call(args []Value) (Value, error)
}

// CallableBase is embedded by every Callable implementation that lives
// outside this package (internal/interp's user functions and
// built-ins). isValue is unexported, which normally closes the Value
// sum to this package; embedding promotes the method so a foreign
// type can still satisfy Value without this package needing to know
// about it.
type CallableBase struct{}

func (CallableBase) isValue() {}

// Stringify renders v the way print does: nil -> "nil", booleans
// spelled out, numbers per host default formatting, callables as
// "<fun NAME>".
func Stringify(v Value) string {
	switch t := v.(type) {
	case nil, Nil:
		return "nil"
	case Bool:
		if bool(t) {
			return "true"
		}
		return "false"
	case Char:
		return string(rune(t))
	case String:
		return string(t)
	case Number:
		return stringifyNumber(t)
	case Callable:
		return fmt.Sprintf("<fun %s>", t.Name())
	default:
		return fmt.Sprintf("%v", v)
	}
}

func stringifyNumber(n Number) string {
	switch n.Tag {
	case ByteTag:
		return fmt.Sprintf("%d", n.Byte)
	case IntTag:
		return fmt.Sprintf("%d", n.Int)
	default:
		return fmt.Sprintf("%g", n.Double)
	}
}

// TypeName names v's variant, as returned by the type built-in.
func TypeName(v Value) string {
	switch t := v.(type) {
	case nil, Nil:
		return "nil"
	case Bool:
		return "bool"
	case Char:
		return "character"
	case String:
		return "string"
	case Number:
		switch t.Tag {
		case ByteTag:
			return "unsigned byte"
		case IntTag:
			return "integer"
		default:
			return "double"
		}
	case Callable:
		return "callable"
	default:
		return "nil"
	}
}

// Truthy implements the Language's truthiness rule: nil and false are
// falsy, everything else (including 0 and "") is truthy.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case nil, Nil:
		return false
	case Bool:
		return bool(t)
	default:
		return true
	}
}

// Equal implements structural equality across literal variants, with
// numeric equality defined by the promotion rule.
func Equal(a, b Value) bool {
	an, aIsNum := a.(Number)
	bn, bIsNum := b.(Number)
	if aIsNum && bIsNum {
		pa, pb := Promote(an, bn)
		return pa == pb
	}
	if isNil(a) && isNil(b) {
		return true
	}
	return a == b
}

func isNil(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Nil)
	return ok
}
