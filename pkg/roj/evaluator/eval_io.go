package evaluator

import (
	"io"
	"strconv"
	"strings"

	"github.com/sambeau/roj/pkg/roj/ast"
	"github.com/sambeau/roj/pkg/roj/lexer"
)

// evalRead reads one line from the environment's input, converts it for
// readint, readfloat and readbool, and stores it under the target name.
func evalRead(node *ast.UnaryOp, env *Environment) (Object, error) {
	target, ok := node.Operand.(*ast.Variable)
	if !ok {
		return nil, newError("PARSE-0003", node, env, map[string]any{"Keyword": node.Token.Literal, "Got": node.Operand})
	}

	if env.Input == nil {
		return nil, newError("IO-0004", node, env, map[string]any{"Error": "no input available"})
	}
	line, err := env.Input.Prompt(env.InputPrompt)
	if err != nil {
		msg := err.Error()
		if err == io.EOF {
			msg = "end of input"
		}
		return nil, newError("IO-0004", node, env, map[string]any{"Error": msg})
	}

	var val Object
	switch node.Token.Type {
	case lexer.READINT:
		i, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
		if err != nil {
			return nil, newError("IO-0001", node, env, map[string]any{"Input": strconv.Quote(line)})
		}
		val = &Integer{Value: i}
	case lexer.READFLOAT:
		f, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
		if err != nil {
			return nil, newError("IO-0002", node, env, map[string]any{"Input": strconv.Quote(line)})
		}
		val = &Float{Value: f}
	case lexer.READBOOL:
		switch line {
		case "True":
			val = TRUE
		case "False":
			val = FALSE
		default:
			return nil, newError("IO-0003", node, env, map[string]any{"Input": strconv.Quote(line)})
		}
	default:
		val = &String{Value: line}
	}

	return env.Set(target.Name, val), nil
}

// evalOut writes the operand's display form to the environment's logger and
// returns the value unchanged.
func evalOut(node *ast.UnaryOp, env *Environment) (Object, error) {
	val, err := evalValue(node.Operand, env)
	if err != nil {
		return nil, err
	}

	if env.Logger != nil {
		env.Logger.LogLine(env.OutPrefix + val.Inspect())
	}
	return val, nil
}
