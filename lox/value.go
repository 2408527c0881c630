package lox

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type ValueKind int

const (
	KindNil ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindCallable
)

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindCallable:
		return "callable"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a Lox runtime value.
type Value struct {
	kind ValueKind
	data any
}

func NewNil() Value                { return Value{kind: KindNil} }
func NewBool(b bool) Value         { return Value{kind: KindBool, data: b} }
func NewNumber(n float64) Value    { return Value{kind: KindNumber, data: n} }
func NewString(s string) Value     { return Value{kind: KindString, data: s} }
func NewCallable(c Callable) Value { return Value{kind: KindCallable, data: c} }

// valueFromLiteral converts a token literal into a runtime value.
func valueFromLiteral(literal any) Value {
	switch lit := literal.(type) {
	case float64:
		return NewNumber(lit)
	case string:
		return NewString(lit)
	case bool:
		return NewBool(lit)
	default:
		return NewNil()
	}
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNil() bool { return v.kind == KindNil }

func (v Value) Bool() bool {
	if b, ok := v.data.(bool); ok {
		return b
	}
	return false
}

func (v Value) Number() float64 {
	if n, ok := v.data.(float64); ok {
		return n
	}
	return 0
}

func (v Value) Callable() Callable {
	if c, ok := v.data.(Callable); ok {
		return c
	}
	return nil
}

// String renders the value the way print and string concatenation do.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.Bool() {
			return "True"
		}
		return "False"
	case KindNumber:
		return formatNumber(v.Number())
	case KindString:
		return v.data.(string)
	case KindCallable:
		return v.Callable().String()
	default:
		return fmt.Sprintf("<%v>", v.kind)
	}
}

// Truthy reports whether the value counts as true; only nil and false do not.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.Bool()
	default:
		return true
	}
}

func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.Bool() == other.Bool()
	case KindNumber:
		return v.Number() == other.Number()
	case KindString:
		return v.data.(string) == other.data.(string)
	case KindCallable:
		return v.Callable() == other.Callable()
	default:
		return false
	}
}

func formatNumber(n float64) string {
	if n == 0 {
		// -0 prints as 0.
		return "0"
	}
	if mag := math.Abs(n); !math.IsInf(n, 0) && (mag >= 1e15 || mag < 1e-5) {
		// Exponent form with an upper-case E and a signed, two-digit minimum
		// exponent: 1E+21, 1.5E-07.
		return strings.ToUpper(strconv.FormatFloat(n, 'e', -1, 64))
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
