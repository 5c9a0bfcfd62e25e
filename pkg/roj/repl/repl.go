// Package repl implements the interactive Roj session.
package repl

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"github.com/sambeau/roj/pkg/roj/evaluator"
	"github.com/sambeau/roj/pkg/roj/help"
	"github.com/sambeau/roj/pkg/roj/journal"
	"github.com/sambeau/roj/pkg/roj/lexer"
	"github.com/sambeau/roj/pkg/roj/roj"
)

const (
	PROMPT              = ">> "
	CONTINUATION_PROMPT = ".. "
)

// replSource names entries typed at the prompt in the journal.
const replSource = "<repl>"

// Options configure a session. Empty prompts fall back to the defaults.
type Options struct {
	In      io.Reader
	Out     io.Writer
	Version string

	Prompt             string
	ContinuationPrompt string
	InputPrompt        string
	OutPrefix          string
	HistoryFile        string // Empty means $TMPDIR/.roj_history
	Banner             bool

	Journal *journal.Journal // Records every entry when set
}

// lineSource is where entries and read statements get their lines.
// *liner.State and *evaluator.ReaderInput both satisfy it.
type lineSource interface {
	Prompt(prompt string) (string, error)
}

// Start runs the session until quit, exit or end of input. Line editing,
// history and completion are used when In is a terminal.
func Start(opts Options) {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	s := newSession(opts)

	if f, ok := opts.In.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		line := liner.NewLiner()
		defer line.Close()

		line.SetCtrlCAborts(true)
		line.SetCompleter(filterCompletions)

		historyFile := opts.HistoryFile
		if historyFile == "" {
			historyFile = filepath.Join(os.TempDir(), ".roj_history")
		}
		if f, err := os.Open(historyFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyFile); err == nil {
				line.WriteHistory(f)
				f.Close()
			}
		}()

		s.history = line.AppendHistory
		s.loop(line)
		return
	}

	s.loop(evaluator.NewReaderInput(opts.In, nil))
}

type session struct {
	opts    Options
	out     io.Writer
	input   lineSource
	history func(string)
	lastEnv *evaluator.Environment
	buf     strings.Builder
}

func newSession(opts Options) *session {
	if opts.Prompt == "" {
		opts.Prompt = PROMPT
	}
	if opts.ContinuationPrompt == "" {
		opts.ContinuationPrompt = CONTINUATION_PROMPT
	}
	return &session{opts: opts, out: opts.Out, history: func(string) {}}
}

func (s *session) loop(input lineSource) {
	s.input = input

	if s.opts.Banner {
		fmt.Fprintf(s.out, "Roj Interpreter [v%s]\n", s.opts.Version)
		fmt.Fprintln(s.out, "Type 'quit' or Ctrl+D to leave, ':help' for commands")
	}

	for {
		prompt := s.opts.Prompt
		if s.buf.Len() > 0 {
			prompt = s.opts.ContinuationPrompt
		}

		line, err := input.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				if s.buf.Len() > 0 {
					fmt.Fprintln(s.out, "^C (cleared)")
				} else {
					fmt.Fprintln(s.out, "^C")
				}
				s.buf.Reset()
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(s.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(s.out, "Error reading input: %v\n", err)
			return
		}

		if s.feed(line) {
			fmt.Fprintln(s.out, "Goodbye!")
			return
		}
	}
}

// feed handles one line of input and reports whether the session should end.
func (s *session) feed(line string) bool {
	trimmed := strings.TrimSpace(line)

	if s.buf.Len() == 0 {
		switch {
		case trimmed == "":
			return false
		case trimmed == "quit" || trimmed == "exit":
			return true
		case strings.HasPrefix(trimmed, ":"):
			s.command(trimmed)
			return false
		case trimmed == "execute" || strings.HasPrefix(trimmed, "execute "):
			s.history(trimmed)
			s.execute(strings.TrimSpace(strings.TrimPrefix(trimmed, "execute")))
			return false
		}
	}

	if s.buf.Len() > 0 {
		s.buf.WriteString("\n")
	}
	s.buf.WriteString(line)

	source := s.buf.String()
	if needsMoreInput(source) {
		return false
	}
	s.buf.Reset()

	s.history(source)
	s.run(replSource, source)
	return false
}

// run evaluates source as an independent program and prints its value.
func (s *session) run(name, source string) {
	filename := name
	if name == replSource {
		filename = ""
	}

	res, err := roj.Run(source, roj.Options{
		Filename:    filename,
		Logger:      roj.WriterLogger(s.out),
		Input:       s.input,
		InputPrompt: s.opts.InputPrompt,
		OutPrefix:   s.opts.OutPrefix,
	})
	s.lastEnv = res.Env

	if s.opts.Journal != nil {
		if jerr := s.opts.Journal.Record(journal.FromRun(name, "repl", res, err)); jerr != nil {
			fmt.Fprintf(s.out, "journal: %v\n", jerr)
		}
	}

	if err != nil {
		roj.Report(s.out, err, source, false)
		return
	}
	if res.Value != nil && res.Value.Type() != evaluator.NULL_OBJ {
		fmt.Fprintln(s.out, res.String())
	}
}

// execute runs a program file, like the command line does.
func (s *session) execute(path string) {
	if path == "" {
		fmt.Fprintln(s.out, "usage: execute <file>")
		return
	}
	source, err := roj.ReadSourceFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(s.out, "File not found: %s\n", path)
			return
		}
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	s.run(path, source)
}

// command handles the REPL's own commands, which start with ':'.
func (s *session) command(cmd string) {
	name, arg, _ := strings.Cut(cmd, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":help", ":h", ":?":
		if arg != "" {
			s.describe(arg)
			return
		}
		fmt.Fprintln(s.out, "REPL Commands:")
		fmt.Fprintln(s.out, "  :help, :h, :?    Show this help")
		fmt.Fprintln(s.out, "  :help <topic>    Describe a keyword, operator, type or error code")
		fmt.Fprintln(s.out, "  :env             Show the variables left by the last entry")
		fmt.Fprintln(s.out, "  :clear           Forget the last entry's variables")
		fmt.Fprintln(s.out, "  :journal         Show recent runs")
		fmt.Fprintln(s.out, "  execute <file>   Run a program file")
		fmt.Fprintln(s.out, "  quit, exit       Leave the REPL")
		fmt.Fprintln(s.out, "")
		fmt.Fprintln(s.out, "Each entry is a separate program with its own variables.")
		fmt.Fprintln(s.out, "Entries continue on the next line while do/end or parentheses are open.")

	case ":env":
		s.printEnvironment()

	case ":clear":
		s.lastEnv = nil
		fmt.Fprintln(s.out, "Environment cleared")

	case ":journal":
		if s.opts.Journal == nil {
			fmt.Fprintln(s.out, "The journal is disabled (set journal.enabled in roj.yaml)")
			return
		}
		entries, err := s.opts.Journal.Entries(10)
		if err != nil {
			fmt.Fprintf(s.out, "journal: %v\n", err)
			return
		}
		journal.WriteList(s.out, entries, time.Now())

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type :help for commands)\n", name)
	}
}

func (s *session) describe(topic string) {
	result, err := help.DescribeTopic(topic)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	fmt.Fprint(s.out, help.FormatText(result))
}

func (s *session) printEnvironment() {
	if s.lastEnv == nil || s.lastEnv.Len() == 0 {
		fmt.Fprintln(s.out, "(no variables)")
		return
	}

	for _, name := range s.lastEnv.Names() {
		obj, _ := s.lastEnv.Get(name)
		value := evaluator.Repr(obj)
		if len(value) > 60 {
			value = value[:57] + "..."
		}
		fmt.Fprintf(s.out, "  %s: %s = %s\n", name, evaluator.TypeName(obj), value)
	}
}

// filterCompletions completes the word under the cursor from the keywords.
func filterCompletions(line string) []string {
	if strings.TrimSpace(line) == "" || strings.HasSuffix(line, " ") || strings.HasSuffix(line, "\t") {
		return nil
	}

	words := strings.Fields(line)
	last := words[len(words)-1]
	head := strings.TrimSuffix(line, last)

	var matches []string
	for _, word := range append(lexer.Keywords(), "execute", "quit", "exit") {
		if strings.HasPrefix(word, last) && word != last {
			matches = append(matches, head+word)
		}
	}
	return matches
}

// needsMoreInput reports whether source is an unfinished entry: a do block
// without its end, an open parenthesis, or an unterminated string or comment.
func needsMoreInput(source string) bool {
	l := lexer.New(source)
	blocks, parens := 0, 0

	for {
		tok := l.NextToken()
		switch tok.Type {
		case lexer.EOF:
			return blocks > 0 || parens > 0
		case lexer.ILLEGAL:
			if re := tok.Err(); re != nil && (re.Code == "LEX-0003" || re.Code == "LEX-0004") {
				return true
			}
		case lexer.DO:
			blocks++
		case lexer.END:
			blocks--
		case lexer.LPAREN:
			parens++
		case lexer.RPAREN:
			parens--
		}
	}
}
