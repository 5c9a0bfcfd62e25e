// Package ast defines the tree built by the parser and walked by the evaluator.
//
// The node set is closed: every node type lives in this package and
// implements the unexported marker method, so the evaluator's type switch
// covers the whole language.
package ast

import (
	"bytes"
	"strconv"

	"github.com/sambeau/roj/pkg/roj/lexer"
)

// Node represents any node in the AST
type Node interface {
	TokenLiteral() string
	String() string
	Position() (line, column int)
	node()
}

// Literal holds a concrete value: int64, float64, string, bool or nil (Null).
type Literal struct {
	Token lexer.Token
	Value any
}

func (l *Literal) node()                {}
func (l *Literal) TokenLiteral() string { return l.Token.Literal }
func (l *Literal) Position() (int, int) { return l.Token.Line, l.Token.Column }
func (l *Literal) String() string {
	if s, ok := l.Value.(string); ok {
		return strconv.Quote(s)
	}
	if l.Value == nil {
		return "Null"
	}
	return l.Token.Literal
}

// NullLiteral builds a synthetic Null literal positioned at tok.
func NullLiteral(tok lexer.Token) *Literal {
	return &Literal{
		Token: lexer.Token{Type: lexer.NULL, Literal: "Null", Line: tok.Line, Column: tok.Column},
	}
}

// Variable is a reference to a name in the environment.
type Variable struct {
	Token lexer.Token
	Name  string
}

func (v *Variable) node()                {}
func (v *Variable) TokenLiteral() string { return v.Token.Literal }
func (v *Variable) Position() (int, int) { return v.Token.Line, v.Token.Column }
func (v *Variable) String() string       { return v.Name }

// UnaryOp covers sign operators, not, the read family, out and the control
// statements. Operand is nil for stop and jumpover; for the read family it is
// the target *Variable.
type UnaryOp struct {
	Token   lexer.Token
	Operand Node
}

func (u *UnaryOp) node()                {}
func (u *UnaryOp) TokenLiteral() string { return u.Token.Literal }
func (u *UnaryOp) Position() (int, int) { return u.Token.Line, u.Token.Column }
func (u *UnaryOp) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(u.Token.Literal)
	if u.Operand != nil {
		if u.Token.Type != lexer.PLUS && u.Token.Type != lexer.MINUS {
			out.WriteString(" ")
		}
		out.WriteString(u.Operand.String())
	}
	out.WriteString(")")

	return out.String()
}

// BinaryOp covers sequencing (;), assignment, and/or, comparisons and
// arithmetic. For assignment Left is the target *Variable.
type BinaryOp struct {
	Token lexer.Token
	Left  Node
	Right Node
}

func (b *BinaryOp) node()                {}
func (b *BinaryOp) TokenLiteral() string { return b.Token.Literal }
func (b *BinaryOp) Position() (int, int) { return b.Token.Line, b.Token.Column }
func (b *BinaryOp) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(b.Left.String())
	if b.Token.Type == lexer.SEMICOLON {
		out.WriteString("; ")
	} else {
		out.WriteString(" " + b.Token.Literal + " ")
	}
	out.WriteString(b.Right.String())
	out.WriteString(")")

	return out.String()
}

// CompoundStatement covers while and if.
//
// For while, Left is the condition and Right the body. For if, Left is the
// condition and Right an ELSE CompoundStatement whose Left is the then-suite
// and whose Right is the else-suite, or nil when there is no else.
type CompoundStatement struct {
	Token lexer.Token
	Left  Node
	Right Node
}

func (c *CompoundStatement) node()                {}
func (c *CompoundStatement) TokenLiteral() string { return c.Token.Literal }
func (c *CompoundStatement) Position() (int, int) { return c.Token.Line, c.Token.Column }
func (c *CompoundStatement) String() string {
	var out bytes.Buffer

	switch c.Token.Type {
	case lexer.WHILE:
		out.WriteString("while ")
		out.WriteString(c.Left.String())
		out.WriteString(" do ")
		out.WriteString(c.Right.String())
		out.WriteString(" end")
	case lexer.IF:
		out.WriteString("if ")
		out.WriteString(c.Left.String())
		out.WriteString(" ")
		out.WriteString(c.Right.String())
	case lexer.ELSE:
		out.WriteString("do ")
		out.WriteString(c.Left.String())
		out.WriteString(" end")
		if c.Right != nil {
			out.WriteString(" else do ")
			out.WriteString(c.Right.String())
			out.WriteString(" end")
		}
	}

	return out.String()
}

// Program is the root of every AST: a wrapper tagged EOF around the
// top-level statement sequence.
type Program struct {
	Token lexer.Token // the EOF token
	Body  Node
}

func (p *Program) node()                {}
func (p *Program) TokenLiteral() string { return p.Token.Literal }
func (p *Program) Position() (int, int) { return p.Token.Line, p.Token.Column }
func (p *Program) String() string {
	if p.Body == nil {
		return ""
	}
	return p.Body.String()
}
