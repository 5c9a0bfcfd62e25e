// Package roj is the embedding API for the Roj interpreter: it ties the
// lexer, parser and evaluator together behind Run and Check.
package roj

import (
	"time"

	"github.com/sambeau/roj/pkg/roj/ast"
	"github.com/sambeau/roj/pkg/roj/errors"
	"github.com/sambeau/roj/pkg/roj/evaluator"
	"github.com/sambeau/roj/pkg/roj/lexer"
	"github.com/sambeau/roj/pkg/roj/parser"
)

// Object is an alias for evaluator.Object
type Object = evaluator.Object

// Input is an alias for evaluator.Input
type Input = evaluator.Input

// Options configure a single run.
type Options struct {
	Filename    string                 // Used in error positions
	Logger      Logger                 // Receives out lines, stdout if nil
	Input       Input                  // Source for read statements, stdin if nil
	Env         *evaluator.Environment // Reused when set, otherwise a fresh environment
	InputPrompt string                 // Overrides "[in]: " when non-empty
	OutPrefix   string                 // Overrides "[out]: " when non-empty
}

// Result is what a run leaves behind.
type Result struct {
	Value    Object                 // Final value, or the halt payload
	Env      *evaluator.Environment // Environment after the run
	Halted   bool                   // The program ended with halt
	Lines    int                    // Number of out lines written
	Duration time.Duration
}

// String returns the repr of the final value.
func (r *Result) String() string {
	if r == nil || r.Value == nil {
		return "Null"
	}
	return evaluator.Repr(r.Value)
}

// Parse lexes and parses source into a program.
func Parse(source, filename string) (*ast.Program, error) {
	l := lexer.NewWithFilename(source, filename)
	return parser.New(l).ParseProgram()
}

// Check reports the first lex or parse error in source, or nil.
func Check(source, filename string) error {
	_, err := Parse(source, filename)
	return err
}

// Run parses and evaluates source.
//
// A program that ends with halt returns a Result with Halted set together
// with the halt error, so callers that only care about success can test
// errors.IsHalt. Any other error leaves Result.Value nil.
func Run(source string, opts Options) (*Result, error) {
	env := opts.Env
	if env == nil {
		env = evaluator.NewEnvironment()
	}
	env.Filename = opts.Filename
	if opts.Logger != nil {
		env.Logger = opts.Logger
	}
	if opts.Input != nil {
		env.Input = opts.Input
	}
	if opts.InputPrompt != "" {
		env.InputPrompt = opts.InputPrompt
	}
	if opts.OutPrefix != "" {
		env.OutPrefix = opts.OutPrefix
	}

	counter := &lineCounter{next: env.Logger}
	env.Logger = counter
	start := time.Now()

	res, err := evaluate(source, opts.Filename, env)

	res.Duration = time.Since(start)
	res.Lines = counter.lines
	env.Logger = counter.next
	return res, err
}

func evaluate(source, filename string, env *evaluator.Environment) (*Result, error) {
	res := &Result{Env: env}

	program, err := Parse(source, filename)
	if err != nil {
		return res, err
	}

	value, err := evaluator.EvalProgram(program, env)
	if err != nil {
		if errors.IsHalt(err) {
			res.Value = value
			res.Halted = true
		}
		return res, err
	}

	res.Value = value
	return res, nil
}

// lineCounter counts completed lines on their way to the next logger.
type lineCounter struct {
	next  Logger
	lines int
}

func (c *lineCounter) Log(values ...any) {
	if c.next != nil {
		c.next.Log(values...)
	}
}

func (c *lineCounter) LogLine(values ...any) {
	c.lines++
	if c.next != nil {
		c.next.LogLine(values...)
	}
}
