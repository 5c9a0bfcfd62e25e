package evaluator

import (
	"math"

	"github.com/sambeau/roj/pkg/roj/ast"
	"github.com/sambeau/roj/pkg/roj/lexer"
)

// evalBooleanOperator evaluates and/or. Both sides must be booleans and both
// are always evaluated; there is no short-circuit.
func evalBooleanOperator(node *ast.BinaryOp, env *Environment) (Object, error) {
	left, err := evalValue(node.Left, env)
	if err != nil {
		return nil, err
	}
	l, ok := left.(*Boolean)
	if !ok {
		return nil, operandError(node, "left", "a boolean", left, env)
	}

	right, err := evalValue(node.Right, env)
	if err != nil {
		return nil, err
	}
	r, ok := right.(*Boolean)
	if !ok {
		return nil, operandError(node, "right", "a boolean", right, env)
	}

	if node.Token.Type == lexer.AND {
		return nativeBoolToBoolean(l.Value && r.Value), nil
	}
	return nativeBoolToBoolean(l.Value || r.Value), nil
}

// evalComparison evaluates == and != on any values and the four orderings on numbers.
func evalComparison(node *ast.BinaryOp, env *Environment) (Object, error) {
	left, err := evalValue(node.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := evalValue(node.Right, env)
	if err != nil {
		return nil, err
	}

	switch node.Token.Type {
	case lexer.EQ:
		return nativeBoolToBoolean(objectsEqual(left, right)), nil
	case lexer.NOT_EQ:
		return nativeBoolToBoolean(!objectsEqual(left, right)), nil
	}

	if !isNumeric(left) {
		return nil, operandError(node, "left", "a number", left, env)
	}
	if !isNumeric(right) {
		return nil, operandError(node, "right", "a number", right, env)
	}

	return nativeBoolToBoolean(orderNumbers(node.Token.Type, left, right)), nil
}

// objectsEqual compares by value. Integers and floats compare numerically;
// values of different types are otherwise unequal.
func objectsEqual(left, right Object) bool {
	if isNumeric(left) && isNumeric(right) {
		if l, ok := left.(*Integer); ok {
			if r, ok := right.(*Integer); ok {
				return l.Value == r.Value
			}
		}
		return toFloat(left) == toFloat(right)
	}

	switch l := left.(type) {
	case *String:
		r, ok := right.(*String)
		return ok && l.Value == r.Value
	case *Boolean:
		r, ok := right.(*Boolean)
		return ok && l.Value == r.Value
	case *Null:
		_, ok := right.(*Null)
		return ok
	}
	return false
}

// orderNumbers applies an ordering operator to two numbers. Integers compare
// exactly; any float comparison follows IEEE rules, so NaN orders false.
func orderNumbers(op lexer.TokenType, left, right Object) bool {
	if l, ok := left.(*Integer); ok {
		if r, ok := right.(*Integer); ok {
			switch op {
			case lexer.GT:
				return l.Value > r.Value
			case lexer.LT:
				return l.Value < r.Value
			case lexer.GT_EQ:
				return l.Value >= r.Value
			default:
				return l.Value <= r.Value
			}
		}
	}

	l, r := toFloat(left), toFloat(right)
	switch op {
	case lexer.GT:
		return l > r
	case lexer.LT:
		return l < r
	case lexer.GT_EQ:
		return l >= r
	default:
		return l <= r
	}
}

// evalArithmetic evaluates + - * / ^.
//
// Each side must be a number or a string. '+' adds two numbers or joins two
// strings; every other operator needs two numbers. '/' always divides as
// floats.
func evalArithmetic(node *ast.BinaryOp, env *Environment) (Object, error) {
	left, err := evalValue(node.Left, env)
	if err != nil {
		return nil, err
	}
	if !isNumeric(left) && left.Type() != STRING_OBJ {
		return nil, operandError(node, "left", "a number or a string", left, env)
	}

	right, err := evalValue(node.Right, env)
	if err != nil {
		return nil, err
	}
	if !isNumeric(right) && right.Type() != STRING_OBJ {
		return nil, operandError(node, "right", "a number or a string", right, env)
	}

	if node.Token.Type == lexer.PLUS {
		ls, lok := left.(*String)
		rs, rok := right.(*String)
		switch {
		case lok && rok:
			return &String{Value: ls.Value + rs.Value}, nil
		case lok || rok:
			return nil, newError("TYPE-0003", node, env, map[string]any{"Left": TypeName(left), "Right": TypeName(right)})
		}
	}

	if !isNumeric(left) {
		return nil, operandError(node, "left", "a number", left, env)
	}
	if !isNumeric(right) {
		return nil, operandError(node, "right", "a number", right, env)
	}

	l, lInt := left.(*Integer)
	r, rInt := right.(*Integer)
	bothInt := lInt && rInt

	switch node.Token.Type {
	case lexer.PLUS:
		if bothInt {
			return &Integer{Value: l.Value + r.Value}, nil
		}
		return &Float{Value: toFloat(left) + toFloat(right)}, nil
	case lexer.MINUS:
		if bothInt {
			return &Integer{Value: l.Value - r.Value}, nil
		}
		return &Float{Value: toFloat(left) - toFloat(right)}, nil
	case lexer.ASTERISK:
		if bothInt {
			return &Integer{Value: l.Value * r.Value}, nil
		}
		return &Float{Value: toFloat(left) * toFloat(right)}, nil
	case lexer.SLASH:
		if toFloat(right) == 0 {
			return nil, newError("ARITH-0001", node, env, nil)
		}
		return &Float{Value: toFloat(left) / toFloat(right)}, nil
	default:
		return evalPower(node, left, right, env)
	}
}

// evalPower raises left to right. An integer to a non-negative integer
// power stays an integer; everything else is a float.
func evalPower(node *ast.BinaryOp, left, right Object, env *Environment) (Object, error) {
	l, lInt := left.(*Integer)
	r, rInt := right.(*Integer)
	if lInt && rInt && r.Value >= 0 {
		return &Integer{Value: intPow(l.Value, r.Value)}, nil
	}

	base, exp := toFloat(left), toFloat(right)
	if base == 0 && exp < 0 {
		return nil, newError("ARITH-0001", node, env, nil)
	}
	if base < 0 && exp != math.Trunc(exp) {
		return nil, newError("ARITH-0002", node, env, map[string]any{"Base": left.Inspect(), "Exponent": right.Inspect()})
	}
	return &Float{Value: math.Pow(base, exp)}, nil
}

// intPow computes base^exp by squaring, wrapping on overflow like other
// integer arithmetic.
func intPow(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}
