package parser

import (
	"testing"

	"github.com/sambeau/roj/pkg/roj/ast"
	"github.com/sambeau/roj/pkg/roj/errors"
	"github.com/sambeau/roj/pkg/roj/lexer"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	program, err := New(lexer.New(input)).ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram(%q) error: %v", input, err)
	}
	return program
}

func TestPrecedenceAndAssociativity(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2 ^ 3 ^ 2", "((2 ^ 3) ^ 2)"},
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"8 / 4 / 2", "((8 / 4) / 2)"},
		{"2 * 3 ^ 2", "(2 * (3 ^ 2))"},
		{"-2 ^ 2", "((-2) ^ 2)"},
		{"- - 1", "(-(-1))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"a or b and c", "(a or (b and c))"},
		{"a and b or c", "((a and b) or c)"},
		{"a or b or c", "((a or b) or c)"},
		{"not not True", "(not (not True))"},
		{"not a == b", "(not (a == b))"},
		{"a + 1 >= b * 2", "((a + 1) >= (b * 2))"},
		{"x != Null", "(x != Null)"},
		{`"ab" + "cd"`, `("ab" + "cd")`},
		{"1.5 < .5", "(1.5 < .5)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parse(t, tt.input).String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a = b = 3", "(a = (b = 3))"},
		{"a = b = 3; out a", "((a = (b = 3)); (out a))"},
		{"x = 1;", "((x = 1); Null)"},
		{"out 1; halt", "((out 1); (halt Null))"},
		{"halt 99", "(halt 99)"},
		{"return x + 1", "(return (x + 1))"},
		{"stop", "(stop)"},
		{"jumpover; 1", "((jumpover); 1)"},
		{"readint n", "(readint n)"},
		{"read line; readbool ok", "((read line); (readbool ok))"},
		{"while x < 3 do x = x + 1 end", "while (x < 3) do (x = (x + 1)) end"},
		{"while x < 3 do x = x + 1; end", "while (x < 3) do (x = (x + 1)) end"},
		{"if x do out 1 end", "if x do (out 1) end"},
		{"if x do 1 end else do 2 end", "if x do 1 end else do 2 end"},
		{"a; b; c", "((a; b); c)"},
		{"", "Null"},
		{"  $ only a comment $  ", "Null"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parse(t, tt.input).String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIfShape(t *testing.T) {
	program := parse(t, "if c do 1 end")

	ifNode, ok := program.Body.(*ast.CompoundStatement)
	if !ok || ifNode.Token.Type != lexer.IF {
		t.Fatalf("body is %T, want if CompoundStatement", program.Body)
	}
	branches, ok := ifNode.Right.(*ast.CompoundStatement)
	if !ok || branches.Token.Type != lexer.ELSE {
		t.Fatalf("if.Right is %T, want else CompoundStatement", ifNode.Right)
	}
	if branches.Left == nil {
		t.Error("then-branch missing")
	}
	if branches.Right != nil {
		t.Errorf("else-branch = %v, want nil", branches.Right)
	}

	program = parse(t, "if c do 1 end else do 2 end")
	branches = program.Body.(*ast.CompoundStatement).Right.(*ast.CompoundStatement)
	if branches.Right == nil {
		t.Error("else-branch missing")
	}
}

func TestProgramRoot(t *testing.T) {
	program := parse(t, "out 1")
	if program.Token.Type != lexer.EOF {
		t.Errorf("root token = %s, want EOF", program.Token.Type)
	}

	out, ok := program.Body.(*ast.UnaryOp)
	if !ok {
		t.Fatalf("body is %T, want *ast.UnaryOp", program.Body)
	}
	lit, ok := out.Operand.(*ast.Literal)
	if !ok || lit.Value != int64(1) {
		t.Errorf("operand = %#v, want literal 1", out.Operand)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		class  errors.ErrorClass
		code   string
		line   int
		column int
	}{
		{"missing do", "while x < 3 x = 1 end", errors.ClassParse, "PARSE-0001", 1, 13},
		{"missing end", "while x do x = 1", errors.ClassParse, "PARSE-0001", 1, 17},
		{"missing end in if", "if x do 1; 2", errors.ClassParse, "PARSE-0001", 1, 13},
		{"else without do", "if x do 1 end else 2", errors.ClassParse, "PARSE-0001", 1, 20},
		{"missing close paren", "(1 + 2", errors.ClassParse, "PARSE-0005", 1, 7},
		{"read without variable", "read 5", errors.ClassParse, "PARSE-0003", 1, 6},
		{"read at end", "readint", errors.ClassParse, "PARSE-0003", 1, 8},
		{"out without expression", "out )", errors.ClassParse, "PARSE-0004", 1, 5},
		{"trailing tokens", "1 2", errors.ClassParse, "PARSE-0002", 1, 3},
		{"comparisons do not chain", "1 < 2 < 3", errors.ClassParse, "PARSE-0002", 1, 7},
		{"assignment without value", "x = ", errors.ClassParse, "PARSE-0006", 1, 5},
		{"dangling operator", "1 +", errors.ClassParse, "PARSE-0006", 1, 4},
		{"while without condition", "while do x end", errors.ClassParse, "PARSE-0006", 1, 7},
		{"empty body", "while x do end", errors.ClassParse, "PARSE-0007", 1, 12},
		{"no statement", "end", errors.ClassParse, "PARSE-0008", 1, 1},
		{"control as value", "x = stop", errors.ClassParse, "PARSE-0006", 1, 5},
		{"lex error surfaces", "out 1 @", errors.ClassLex, "LEX-0001", 1, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, err := New(lexer.NewWithFilename(tt.input, "t.roj")).ParseProgram()
			if err == nil {
				t.Fatalf("expected error, got %q", program.String())
			}
			if program != nil {
				t.Error("no partial tree may be returned on error")
			}

			re, ok := errors.As(err)
			if !ok {
				t.Fatalf("error is %T, want *errors.RojError", err)
			}
			if re.Class != tt.class || re.Code != tt.code {
				t.Errorf("got %s/%s (%s), want %s/%s", re.Class, re.Code, re.Message, tt.class, tt.code)
			}
			if re.Line != tt.line || re.Column != tt.column {
				t.Errorf("position = %d:%d, want %d:%d", re.Line, re.Column, tt.line, tt.column)
			}
			if re.File != "t.roj" {
				t.Errorf("File = %q, want t.roj", re.File)
			}
		})
	}
}

func TestParseErrorMessages(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"while x do x = 1", "expected 'end', got 'end of input'"},
		{"if x 1 end", "expected 'do', got '1'"},
		{"read 5", "'read' must be followed by a variable, got '5'"},
		{"1 2", "unexpected '2' after the end of the program"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := New(lexer.New(tt.input)).ParseProgram()
			re, ok := errors.As(err)
			if !ok {
				t.Fatalf("error = %v, want *errors.RojError", err)
			}
			if re.Message != tt.message {
				t.Errorf("Message = %q, want %q", re.Message, tt.message)
			}
		})
	}
}
