package evaluator

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Logger receives program output
type Logger interface {
	Log(values ...interface{})
	LogLine(values ...interface{})
}

// defaultStdoutLogger is the default logger that writes to stdout
type defaultStdoutLogger struct{}

func (l *defaultStdoutLogger) Log(values ...interface{}) {
	fmt.Print(joinValues(values))
}

func (l *defaultStdoutLogger) LogLine(values ...interface{}) {
	fmt.Println(joinValues(values))
}

func joinValues(values []interface{}) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}

// DefaultLogger is the default stdout logger
var DefaultLogger Logger = &defaultStdoutLogger{}

// Input is the line source for read statements. *liner.State satisfies it.
type Input interface {
	Prompt(prompt string) (string, error)
}

// ReaderInput reads lines from a reader, echoing the prompt to a writer.
type ReaderInput struct {
	r *bufio.Reader
	w io.Writer
}

// NewReaderInput creates an Input reading lines from r. The prompt is written
// to w unless w is nil.
func NewReaderInput(r io.Reader, w io.Writer) *ReaderInput {
	return &ReaderInput{r: bufio.NewReader(r), w: w}
}

// Prompt writes prompt and returns the next line without its terminator.
// A final line without a newline is returned as is; after that io.EOF.
func (in *ReaderInput) Prompt(prompt string) (string, error) {
	if in.w != nil && prompt != "" {
		fmt.Fprint(in.w, prompt)
	}

	line, err := in.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

// Environment is the single flat variable store of a run, together with the
// run's I/O collaborators.
type Environment struct {
	store       map[string]Object
	Filename    string
	Logger      Logger // Sink for out statements
	Input       Input  // Source for read statements
	InputPrompt string // Shown by read statements, "[in]: " by default
	OutPrefix   string // Prepended to out lines, "[out]: " by default
}

// NewEnvironment creates an environment reading from stdin and writing to stdout.
func NewEnvironment() *Environment {
	return &Environment{
		store:       make(map[string]Object),
		Logger:      DefaultLogger,
		Input:       NewReaderInput(os.Stdin, os.Stdout),
		InputPrompt: "[in]: ",
		OutPrefix:   "[out]: ",
	}
}

// Get retrieves a value from the environment
func (e *Environment) Get(name string) (Object, bool) {
	value, ok := e.store[name]
	return value, ok
}

// Set stores a value in the environment
func (e *Environment) Set(name string, val Object) Object {
	e.store[name] = val
	return val
}

// Names returns the bound variable names in sorted order.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.store))
	for name := range e.store {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bound variables.
func (e *Environment) Len() int {
	return len(e.store)
}
