// Package evaluator walks a Roj AST against a flat environment.
//
// Evaluation of a node yields an Outcome: an ordinary value, or a control
// signal (stop, jumpover, halt, return) in flight. Sequencing, while loops
// and the program root decide which signals they consume and which they
// pass upward. Errors are returned as *errors.RojError.
//
// Recursion depth follows source nesting depth. Go stacks grow on demand up
// to the runtime maximum (1 GB on 64-bit platforms); exceeding it is fatal
// to the process, so that maximum is the effective nesting limit.
package evaluator

import (
	"fmt"

	"github.com/sambeau/roj/pkg/roj/ast"
	"github.com/sambeau/roj/pkg/roj/errors"
	"github.com/sambeau/roj/pkg/roj/lexer"
)

// EvalProgram evaluates a whole program and decides what reaching the root means.
//
// A halt signal is a deliberate termination: the payload is returned together
// with a halt-class error (see errors.IsHalt). Stop, jumpover and return at
// the root are scope errors. Anything else is the program's final value.
func EvalProgram(program *ast.Program, env *Environment) (Object, error) {
	out, err := Eval(program.Body, env)
	if err != nil {
		return nil, err
	}

	if sig := out.Signal; sig != nil {
		if sig.Kind == SignalHalt {
			line, column := sig.Token.Line, sig.Token.Column
			halt := errors.NewHalt(sig.Payload.Inspect(), ToNative(sig.Payload)).WithPosition(line, column)
			return sig.Payload, withFile(halt, env)
		}
		return nil, scopeError(sig, env)
	}

	return out.Value, nil
}

// Eval evaluates a single node.
func Eval(node ast.Node, env *Environment) (Outcome, error) {
	switch node := node.(type) {
	case *ast.Program:
		obj, err := EvalProgram(node, env)
		if err != nil {
			return Outcome{}, err
		}
		return valueOutcome(obj), nil

	case *ast.Literal:
		return valueOutcome(FromNative(node.Value)), nil

	case *ast.Variable:
		obj, err := evalVariable(node, env)
		return valueOutcome(obj), err

	case *ast.UnaryOp:
		return evalUnaryOp(node, env)

	case *ast.BinaryOp:
		return evalBinaryOp(node, env)

	case *ast.CompoundStatement:
		return evalCompoundStatement(node, env)
	}

	return Outcome{}, errors.NewSimple(errors.ClassParse, fmt.Sprintf("cannot evaluate %T", node))
}

// evalValue evaluates a node that must produce an ordinary value. The grammar
// only allows control statements in statement position, so a signal here
// means the tree was not built by the parser.
func evalValue(node ast.Node, env *Environment) (Object, error) {
	out, err := Eval(node, env)
	if err != nil {
		return nil, err
	}
	if out.Signal != nil {
		return nil, scopeError(out.Signal, env)
	}
	return out.Value, nil
}

func evalVariable(node *ast.Variable, env *Environment) (Object, error) {
	if val, ok := env.Get(node.Name); ok {
		return val, nil
	}
	return nil, withFile(errors.NewUndefinedVariable(node.Name, env.Names()).WithPosition(node.Token.Line, node.Token.Column), env)
}

func evalUnaryOp(node *ast.UnaryOp, env *Environment) (Outcome, error) {
	switch node.Token.Type {
	case lexer.STOP:
		return signalOutcome(SignalStop, nil, node.Token), nil
	case lexer.JUMPOVER:
		return signalOutcome(SignalJumpover, nil, node.Token), nil
	case lexer.HALT, lexer.RETURN:
		return evalControlWithPayload(node, env)
	case lexer.READ, lexer.READINT, lexer.READFLOAT, lexer.READBOOL:
		obj, err := evalRead(node, env)
		return valueOutcome(obj), err
	case lexer.OUT:
		obj, err := evalOut(node, env)
		return valueOutcome(obj), err
	}

	operand, err := evalValue(node.Operand, env)
	if err != nil {
		return Outcome{}, err
	}

	switch node.Token.Type {
	case lexer.MINUS, lexer.PLUS:
		obj, err := evalSignOperator(node, operand, env)
		return valueOutcome(obj), err
	case lexer.NOT:
		b, ok := operand.(*Boolean)
		if !ok {
			return Outcome{}, newError("TYPE-0004", node, env, map[string]any{"Got": TypeName(operand)})
		}
		return valueOutcome(nativeBoolToBoolean(!b.Value)), nil
	}

	return Outcome{}, newError("TYPE-0002", node, env, map[string]any{"Operator": node.Token.Literal, "Got": TypeName(operand)})
}

func evalControlWithPayload(node *ast.UnaryOp, env *Environment) (Outcome, error) {
	payload := Object(NULL)
	if node.Operand != nil {
		var err error
		if payload, err = evalValue(node.Operand, env); err != nil {
			return Outcome{}, err
		}
	}

	kind := SignalHalt
	if node.Token.Type == lexer.RETURN {
		kind = SignalReturn
	}
	return signalOutcome(kind, payload, node.Token), nil
}

func evalSignOperator(node *ast.UnaryOp, operand Object, env *Environment) (Object, error) {
	switch operand := operand.(type) {
	case *Integer:
		if node.Token.Type == lexer.MINUS {
			return &Integer{Value: -operand.Value}, nil
		}
		return operand, nil
	case *Float:
		if node.Token.Type == lexer.MINUS {
			return &Float{Value: -operand.Value}, nil
		}
		return operand, nil
	}
	return nil, newError("TYPE-0002", node, env, map[string]any{"Operator": node.Token.Literal, "Got": TypeName(operand)})
}

func evalBinaryOp(node *ast.BinaryOp, env *Environment) (Outcome, error) {
	switch node.Token.Type {
	case lexer.SEMICOLON:
		return evalSequence(node, env)
	case lexer.ASSIGN:
		obj, err := evalAssignment(node, env)
		return valueOutcome(obj), err
	case lexer.AND, lexer.OR:
		obj, err := evalBooleanOperator(node, env)
		return valueOutcome(obj), err
	case lexer.EQ, lexer.NOT_EQ, lexer.GT, lexer.LT, lexer.GT_EQ, lexer.LT_EQ:
		obj, err := evalComparison(node, env)
		return valueOutcome(obj), err
	case lexer.PLUS, lexer.MINUS, lexer.ASTERISK, lexer.SLASH, lexer.CARET:
		obj, err := evalArithmetic(node, env)
		return valueOutcome(obj), err
	}
	return Outcome{}, errors.NewSimple(errors.ClassParse, fmt.Sprintf("unknown binary operator '%s'", node.Token.Literal))
}

// evalSequence passes stop, jumpover and halt from the left statement
// upward without running the right one. A return on the left does not
// interrupt the sequence.
func evalSequence(node *ast.BinaryOp, env *Environment) (Outcome, error) {
	left, err := Eval(node.Left, env)
	if err != nil {
		return Outcome{}, err
	}
	if sig := left.Signal; sig != nil && sig.Kind != SignalReturn {
		return left, nil
	}
	return Eval(node.Right, env)
}

func evalAssignment(node *ast.BinaryOp, env *Environment) (Object, error) {
	target, ok := node.Left.(*ast.Variable)
	if !ok {
		return nil, errors.NewSimple(errors.ClassParse, fmt.Sprintf("cannot assign to %s", node.Left.String()))
	}

	val, err := evalValue(node.Right, env)
	if err != nil {
		return nil, err
	}
	return env.Set(target.Name, val), nil
}

func evalCompoundStatement(node *ast.CompoundStatement, env *Environment) (Outcome, error) {
	switch node.Token.Type {
	case lexer.WHILE:
		return evalWhile(node, env)
	case lexer.IF:
		return evalIf(node, env)
	}
	return Outcome{}, errors.NewSimple(errors.ClassParse, fmt.Sprintf("unknown compound statement '%s'", node.Token.Literal))
}

// evalWhile consumes stop (ending the loop with Null) and passes halt upward.
// Jumpover and return are not intercepted: the loop goes on to its next
// iteration, which makes jumpover behave as continue.
func evalWhile(node *ast.CompoundStatement, env *Environment) (Outcome, error) {
	for {
		cond, err := evalValue(node.Left, env)
		if err != nil {
			return Outcome{}, err
		}
		if !isTruthy(cond) {
			return valueOutcome(NULL), nil
		}

		body, err := Eval(node.Right, env)
		if err != nil {
			return Outcome{}, err
		}
		if sig := body.Signal; sig != nil {
			switch sig.Kind {
			case SignalStop:
				return valueOutcome(NULL), nil
			case SignalHalt:
				return body, nil
			}
		}
	}
}

// evalIf returns the chosen branch's outcome, signals included.
func evalIf(node *ast.CompoundStatement, env *Environment) (Outcome, error) {
	cond, err := evalValue(node.Left, env)
	if err != nil {
		return Outcome{}, err
	}

	branches, ok := node.Right.(*ast.CompoundStatement)
	if !ok {
		return Outcome{}, errors.NewSimple(errors.ClassParse, "if statement without branches")
	}

	if isTruthy(cond) {
		return Eval(branches.Left, env)
	}
	if branches.Right != nil {
		return Eval(branches.Right, env)
	}
	return valueOutcome(NULL), nil
}
