package evaluator

import (
	"math"
	"strconv"
	"strings"
)

// ObjectType names the dynamic type of a value
type ObjectType string

const (
	INTEGER_OBJ = "INTEGER"
	FLOAT_OBJ   = "FLOAT"
	BOOLEAN_OBJ = "BOOLEAN"
	STRING_OBJ  = "STRING"
	NULL_OBJ    = "NULL"
)

// Object represents all values in our language
type Object interface {
	Type() ObjectType
	Inspect() string
}

// Integer represents integer objects. Arithmetic wraps on int64 overflow.
type Integer struct {
	Value int64
}

func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }
func (i *Integer) Type() ObjectType { return INTEGER_OBJ }

// Float represents floating-point objects
type Float struct {
	Value float64
}

func (f *Float) Inspect() string  { return formatFloat(f.Value) }
func (f *Float) Type() ObjectType { return FLOAT_OBJ }

// Boolean represents boolean objects
type Boolean struct {
	Value bool
}

func (b *Boolean) Inspect() string {
	if b.Value {
		return "True"
	}
	return "False"
}
func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }

// String represents string objects
type String struct {
	Value string
}

func (s *String) Inspect() string  { return s.Value }
func (s *String) Type() ObjectType { return STRING_OBJ }

// Null represents the Null value
type Null struct{}

func (n *Null) Inspect() string  { return "Null" }
func (n *Null) Type() ObjectType { return NULL_OBJ }

var (
	NULL  = &Null{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

func nativeBoolToBoolean(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

// formatFloat always shows a decimal point or an exponent, so 4/2 reads 2.0.
// Very large and very small magnitudes use exponent notation.
func formatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	}

	if abs := math.Abs(v); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Repr returns the source-like form of a value: strings are quoted.
func Repr(obj Object) string {
	if s, ok := obj.(*String); ok {
		return `"` + s.Value + `"`
	}
	return obj.Inspect()
}

// TypeName returns the lowercase type name used in error messages.
func TypeName(obj Object) string {
	return strings.ToLower(string(obj.Type()))
}

// FromNative converts a literal payload (int64, float64, string, bool or
// nil) into an Object.
func FromNative(v any) Object {
	switch v := v.(type) {
	case int64:
		return &Integer{Value: v}
	case int:
		return &Integer{Value: int64(v)}
	case float64:
		return &Float{Value: v}
	case string:
		return &String{Value: v}
	case bool:
		return nativeBoolToBoolean(v)
	}
	return NULL
}

// ToNative is the inverse of FromNative.
func ToNative(obj Object) any {
	switch obj := obj.(type) {
	case *Integer:
		return obj.Value
	case *Float:
		return obj.Value
	case *String:
		return obj.Value
	case *Boolean:
		return obj.Value
	}
	return nil
}

// isTruthy uses Python-style truthiness: False, Null, zero and the empty
// string are falsy.
func isTruthy(obj Object) bool {
	switch obj := obj.(type) {
	case *Boolean:
		return obj.Value
	case *Null:
		return false
	case *Integer:
		return obj.Value != 0
	case *Float:
		return obj.Value != 0
	case *String:
		return obj.Value != ""
	}
	return true
}

// isNumeric reports whether obj is an integer or a float. Booleans are not numbers.
func isNumeric(obj Object) bool {
	switch obj.(type) {
	case *Integer, *Float:
		return true
	}
	return false
}

func toFloat(obj Object) float64 {
	switch obj := obj.(type) {
	case *Integer:
		return float64(obj.Value)
	case *Float:
		return obj.Value
	}
	return math.NaN()
}
