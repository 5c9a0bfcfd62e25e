// Package errors provides structured error types for the Roj language.
//
// RojError is the single error type produced by the lexer, the parser and the
// evaluator. It carries a class, a catalog code, a rendered message, optional
// hints and the source position of the offending token.
package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and templating.
type ErrorClass string

const (
	ClassLex        ErrorClass = "lex"        // Unrecognized characters, malformed literals
	ClassParse      ErrorClass = "parse"      // Structural grammar violations
	ClassName       ErrorClass = "name"       // Undefined variables
	ClassType       ErrorClass = "type"       // Operand type mismatches
	ClassIO         ErrorClass = "io"         // Failed input conversion
	ClassArithmetic ErrorClass = "arithmetic" // Division by zero
	ClassHalt       ErrorClass = "halt"       // Deliberate termination via halt
	ClassScope      ErrorClass = "scope"      // Control statement outside its construct
)

// RojError represents any error from lexing, parsing or evaluation.
type RojError struct {
	Class   ErrorClass     `json:"class"`           // Error category
	Code    string         `json:"code"`            // Error code (e.g., "TYPE-0001")
	Message string         `json:"message"`         // Human-readable message
	Hints   []string       `json:"hints,omitempty"` // Suggestions for fixing
	Line    int            `json:"line"`            // 1-based line (0 if unknown)
	Column  int            `json:"column"`          // 1-based column (0 if unknown)
	File    string         `json:"file,omitempty"`  // File path (if known)
	Data    map[string]any `json:"data,omitempty"`  // Template variables

	// Payload is the halt value's display form for ClassHalt errors.
	Payload any `json:"-"`
}

// Error implements the error interface.
func (e *RojError) Error() string {
	return e.String()
}

// String returns a formatted string representation of the error.
func (e *RojError) String() string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d, column %d: ", e.Line, e.Column))
	}

	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// Header returns the display header for the error's class.
func (e *RojError) Header() string {
	switch e.Class {
	case ClassLex:
		return "Lex error"
	case ClassParse:
		return "Parser error"
	case ClassHalt:
		return "Halted"
	default:
		return "Runtime error"
	}
}

// PrettyString returns a multi-line formatted string for display.
func (e *RojError) PrettyString() string {
	var sb strings.Builder

	sb.WriteString(e.Header())

	if e.File != "" {
		sb.WriteString(":\n  in: ")
		sb.WriteString(e.File)
		if e.Line > 0 {
			sb.WriteString(fmt.Sprintf("\n  at: line %d, column %d", e.Line, e.Column))
		}
		sb.WriteString("\n  ")
	} else if e.Line > 0 {
		sb.WriteString(fmt.Sprintf(": line %d, column %d\n  ", e.Line, e.Column))
	} else {
		sb.WriteString(":\n  ")
	}

	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  hint: ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// ToJSON returns the error as JSON bytes.
func (e *RojError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithFile returns a copy of the error with the file path set.
func (e *RojError) WithFile(file string) *RojError {
	copy := *e
	copy.File = file
	return &copy
}

// WithPosition returns a copy of the error with line and column set.
func (e *RojError) WithPosition(line, column int) *RojError {
	copy := *e
	copy.Line = line
	copy.Column = column
	return &copy
}

// IsSyntaxError reports whether the error was raised before evaluation began.
func (e *RojError) IsSyntaxError() bool {
	return e.Class == ClassLex || e.Class == ClassParse
}

// IsRuntimeError reports whether the error was raised during evaluation.
// A halt is not a runtime error.
func (e *RojError) IsRuntimeError() bool {
	return !e.IsSyntaxError() && e.Class != ClassHalt
}

// As extracts a *RojError from err's chain.
func As(err error) (*RojError, bool) {
	var re *RojError
	if stderrors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// IsHalt reports whether err is a deliberate program termination.
func IsHalt(err error) bool {
	re, ok := As(err)
	return ok && re.Class == ClassHalt
}

// ClassOf returns the class of err, or "" if err is not a RojError.
func ClassOf(err error) ErrorClass {
	if re, ok := As(err); ok {
		return re.Class
	}
	return ""
}

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass // Error category
	Template string     // Message template with {{.placeholders}}
	Hints    []string   // Hint templates (may use {{.placeholders}})
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	// Lex errors (LEX-0xxx)
	"LEX-0001": {
		Class:    ClassLex,
		Template: "unrecognized character '{{.Char}}'",
	},
	"LEX-0002": {
		Class:    ClassLex,
		Template: "malformed number '{{.Literal}}'",
	},
	"LEX-0003": {
		Class:    ClassLex,
		Template: "unterminated string",
		Hints:    []string{"close the string with a matching \""},
	},
	"LEX-0004": {
		Class:    ClassLex,
		Template: "unterminated comment",
		Hints:    []string{"comments are written $ like this $"},
	},
	"LEX-0005": {
		Class:    ClassLex,
		Template: "integer literal '{{.Literal}}' is out of range",
	},

	// Parse errors (PARSE-0xxx)
	"PARSE-0001": {
		Class:    ClassParse,
		Template: "expected {{.Expected}}, got '{{.Got}}'",
	},
	"PARSE-0002": {
		Class:    ClassParse,
		Template: "unexpected '{{.Got}}' after the end of the program",
		Hints:    []string{"separate statements with ';'"},
	},
	"PARSE-0003": {
		Class:    ClassParse,
		Template: "'{{.Keyword}}' must be followed by a variable, got '{{.Got}}'",
		Hints:    []string{"{{.Keyword}} name"},
	},
	"PARSE-0004": {
		Class:    ClassParse,
		Template: "'out' must be followed by an expression, got '{{.Got}}'",
	},
	"PARSE-0005": {
		Class:    ClassParse,
		Template: "missing ')' to close '(' opened at line {{.Line}}, column {{.Column}}",
	},
	"PARSE-0006": {
		Class:    ClassParse,
		Template: "expected an expression after '{{.After}}', got '{{.Got}}'",
	},
	"PARSE-0007": {
		Class:    ClassParse,
		Template: "expected a statement after '{{.After}}', got '{{.Got}}'",
	},
	"PARSE-0008": {
		Class:    ClassParse,
		Template: "expected a statement, got '{{.Got}}'",
	},

	// Name errors (NAME-0xxx)
	"NAME-0001": {
		Class:    ClassName,
		Template: "undefined variable '{{.Name}}'",
	},

	// Type errors (TYPE-0xxx)
	"TYPE-0001": {
		Class:    ClassType,
		Template: "{{.Side}} operand of '{{.Operator}}' must be {{.Expected}}, got {{.Got}}",
	},
	"TYPE-0002": {
		Class:    ClassType,
		Template: "operand of unary '{{.Operator}}' must be a number, got {{.Got}}",
	},
	"TYPE-0003": {
		Class:    ClassType,
		Template: "cannot add {{.Left}} and {{.Right}}",
		Hints:    []string{"'+' adds two numbers or joins two strings"},
	},
	"TYPE-0004": {
		Class:    ClassType,
		Template: "operand of 'not' must be a boolean, got {{.Got}}",
	},

	// Runtime I/O errors (IO-0xxx)
	"IO-0001": {
		Class:    ClassIO,
		Template: "could not read an integer from {{.Input}}",
	},
	"IO-0002": {
		Class:    ClassIO,
		Template: "could not read a float from {{.Input}}",
	},
	"IO-0003": {
		Class:    ClassIO,
		Template: "could not read a boolean from {{.Input}}",
		Hints:    []string{"type True or False"},
	},
	"IO-0004": {
		Class:    ClassIO,
		Template: "could not read input: {{.Error}}",
	},

	// Arithmetic errors (ARITH-0xxx)
	"ARITH-0001": {
		Class:    ClassArithmetic,
		Template: "division by zero",
	},
	"ARITH-0002": {
		Class:    ClassArithmetic,
		Template: "{{.Base}} ^ {{.Exponent}} has no real result",
	},

	// Halt (HALT-0xxx)
	"HALT-0001": {
		Class:    ClassHalt,
		Template: "program halted: {{.Payload}}",
	},

	// Scope errors (SCOPE-0xxx)
	"SCOPE-0001": {
		Class:    ClassScope,
		Template: "{{.Keyword}} used out of scope",
		Hints:    []string{"'{{.Keyword}}' is only meaningful inside a while loop"},
	},
}

// New creates a RojError from the catalog.
// If the code is not found, creates a generic error with the message.
func New(code string, data map[string]any) *RojError {
	def, ok := ErrorCatalog[code]
	if !ok {
		msg := code
		if data != nil {
			if m, ok := data["message"].(string); ok {
				msg = m
			}
		}
		return &RojError{
			Class:   ClassType,
			Code:    code,
			Message: msg,
			Data:    data,
		}
	}

	msg := renderTemplate(def.Template, data)

	var hints []string
	for _, hintTmpl := range def.Hints {
		rendered := renderTemplate(hintTmpl, data)
		if rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return &RojError{
		Class:   def.Class,
		Code:    code,
		Message: msg,
		Hints:   hints,
		Data:    data,
	}
}

// NewWithPosition creates a RojError with position information.
func NewWithPosition(code string, line, column int, data map[string]any) *RojError {
	err := New(code, data)
	err.Line = line
	err.Column = column
	return err
}

// NewSimple creates a simple error without using the catalog.
func NewSimple(class ErrorClass, message string) *RojError {
	return &RojError{
		Class:   class,
		Message: message,
	}
}

// NewHalt creates the termination error for a halt that reached the program root.
// display is the payload's display form, payload the value itself.
func NewHalt(display string, payload any) *RojError {
	err := New("HALT-0001", map[string]any{"Payload": display})
	err.Payload = payload
	return err
}

// renderTemplate renders a Go template with the given data.
func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil {
		return tmplStr
	}

	tmpl, err := template.New("").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return buf.String()
}

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// matchThreshold is the largest edit distance still worth suggesting.
// Short words (1-3): 1 edit, medium (4-6): 2 edits, longer: 3 edits.
func matchThreshold(input string) int {
	n := len([]rune(input))
	switch {
	case n >= 7:
		return 3
	case n >= 4:
		return 2
	default:
		return 1
	}
}

// FindClosestMatch finds the closest match to the given string from candidates.
// Returns "" when nothing is within the threshold or the input matches exactly.
func FindClosestMatch(input string, candidates []string) string {
	if len(input) == 0 || len(candidates) == 0 {
		return ""
	}

	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)

	inputLower := strings.ToLower(input)

	var bestMatch string
	bestDistance := -1

	for _, candidate := range sorted {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if bestDistance == -1 || dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	if bestDistance <= 0 || bestDistance > matchThreshold(input) {
		return ""
	}

	return bestMatch
}

// NewUndefinedVariable creates an undefined variable error with optional fuzzy matching.
// Keywords are considered too, so a misspelt keyword used as a variable gets a hint.
func NewUndefinedVariable(name string, available []string) *RojError {
	err := New("NAME-0001", map[string]any{"Name": name})

	candidates := append(append([]string(nil), available...), Keywords...)
	if suggestion := FindClosestMatch(name, candidates); suggestion != "" {
		err.Hints = append(err.Hints, "Did you mean `"+suggestion+"`?")
	}

	return err
}

// Keywords are the reserved words of the language, used for typo hints.
var Keywords = []string{
	"Null", "True", "False", "or", "and", "not", "do", "end", "while", "if",
	"else", "out", "read", "readint", "readfloat", "readbool", "stop", "halt",
	"jumpover", "return",
}
