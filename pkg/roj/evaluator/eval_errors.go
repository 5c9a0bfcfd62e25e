// eval_errors.go - Error creation helpers for the Roj evaluator

package evaluator

import (
	"github.com/sambeau/roj/pkg/roj/ast"
	"github.com/sambeau/roj/pkg/roj/errors"
	"github.com/sambeau/roj/pkg/roj/lexer"
)

// newError creates a catalog error positioned at node.
func newError(code string, node ast.Node, env *Environment, data map[string]any) *errors.RojError {
	line, column := node.Position()
	return withFile(errors.NewWithPosition(code, line, column, data), env)
}

// newErrorAtToken creates a catalog error positioned at tok.
func newErrorAtToken(code string, tok lexer.Token, env *Environment, data map[string]any) *errors.RojError {
	return withFile(errors.NewWithPosition(code, tok.Line, tok.Column, data), env)
}

func withFile(err *errors.RojError, env *Environment) *errors.RojError {
	if env != nil && env.Filename != "" {
		err.File = env.Filename
	}
	return err
}

// operandError reports a side of a binary operator with the wrong type.
func operandError(node *ast.BinaryOp, side string, expected string, got Object, env *Environment) *errors.RojError {
	return newError("TYPE-0001", node, env, map[string]any{
		"Side":     side,
		"Operator": node.Token.Literal,
		"Expected": expected,
		"Got":      TypeName(got),
	})
}

// scopeError reports a control signal that escaped every construct able to consume it.
func scopeError(sig *Signal, env *Environment) *errors.RojError {
	return newErrorAtToken("SCOPE-0001", sig.Token, env, map[string]any{"Keyword": sig.Kind.String()})
}
