package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/sambeau/roj/config"
	"github.com/sambeau/roj/pkg/roj/evaluator"
	"github.com/sambeau/roj/pkg/roj/journal"
	"github.com/sambeau/roj/pkg/roj/roj"
)

// driver runs programs for the command line modes.
type driver struct {
	cfg     *config.Config
	input   *evaluator.ReaderInput
	out     io.Writer // program output
	stdout  io.Writer
	stderr  io.Writer
	journal *journal.Journal
	closers []io.Closer
}

func newDriver(cfg *config.Config, stdin io.Reader, stdout, stderr io.Writer) (*driver, error) {
	d := &driver{
		cfg:    cfg,
		input:  evaluator.NewReaderInput(stdin, stdout),
		out:    stdout,
		stdout: stdout,
		stderr: stderr,
	}

	switch cfg.Logging.Output {
	case "", "stdout":
	case "stderr":
		d.out = stderr
	default:
		f, err := os.OpenFile(cfg.Logging.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening program output: %w", err)
		}
		d.out = f
		d.closers = append(d.closers, f)
	}

	if cfg.Journal.Enabled {
		j, err := openJournal(cfg)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.journal = j
		d.closers = append(d.closers, j)
	}

	return d, nil
}

func openJournal(cfg *config.Config) (*journal.Journal, error) {
	maxSize, err := config.ParseSize(cfg.Journal.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("journal.max_size: %w", err)
	}
	j, err := journal.Open(journal.Config{
		Path:        cfg.Journal.Path,
		MaxSize:     maxSize,
		TruncatePct: cfg.Journal.TruncatePct,
	})
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	return j, nil
}

// Close releases the journal and any output file.
func (d *driver) Close() error {
	var first error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	d.closers = nil
	return first
}

// execute runs source, records it and reports the outcome. Halting is a
// success; any other error is reported and becomes exit status 1.
func (d *driver) execute(name, mode, filename, source string) (*roj.Result, error) {
	res, err := roj.Run(source, roj.Options{
		Filename:    filename,
		Logger:      roj.WriterLogger(d.out),
		Input:       d.input,
		InputPrompt: d.cfg.REPL.InputPrompt,
		OutPrefix:   d.cfg.REPL.OutPrefix,
	})
	d.record(journal.FromRun(name, mode, res, err))

	if err != nil {
		if res != nil && res.Halted {
			roj.Report(d.stdout, err, source, false)
			return res, nil
		}
		roj.Report(d.stderr, err, source, isTerminal(d.stderr))
		return res, exitCode(1)
	}
	return res, nil
}

func (d *driver) record(e journal.Entry) {
	if d.journal == nil {
		return
	}
	if err := d.journal.Record(e); err != nil {
		fmt.Fprintf(d.stderr, "warning: journal: %v\n", err)
	}
}

// runInline evaluates code given with -e and prints the repr of its value.
func (d *driver) runInline(code string) error {
	res, err := d.execute("<inline>", "inline", "", code)
	if err != nil {
		return err
	}
	if !res.Halted {
		fmt.Fprintln(d.stdout, res.String())
	}
	return nil
}

// runFile runs a program file. Its output comes from out statements only.
func (d *driver) runFile(path string) error {
	source, err := roj.ReadSourceFile(path)
	if err != nil {
		fmt.Fprintf(d.stderr, "Error: %v\n", err)
		d.record(journal.FromRun(path, "file", nil, err))
		return exitCode(1)
	}
	_, err = d.execute(path, "file", path, source)
	return err
}

// checkFiles parses every file without running it. It returns 0 when all
// files parse, 1 when any has a syntax error and 2 when a file cannot be read.
func (d *driver) checkFiles(files []string) int {
	status := 0
	for _, path := range files {
		source, err := roj.ReadSourceFile(path)
		if err != nil {
			fmt.Fprintf(d.stderr, "Error: %v\n", err)
			return 2
		}
		if err := roj.Check(source, path); err != nil {
			roj.Report(d.stderr, err, source, isTerminal(d.stderr))
			status = 1
			continue
		}
		if !d.cfg.Logging.Quiet {
			fmt.Fprintf(d.stdout, "%s: ok\n", path)
		}
	}
	return status
}

// watch runs path now and again after every change until ctx is done.
func (d *driver) watch(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	rerun := func() {
		source, err := roj.ReadSourceFile(abs)
		if err != nil {
			fmt.Fprintf(d.stderr, "[WATCH ERROR] %v\n", err)
			return
		}
		d.execute(path, "watch", path, source)
	}

	w, err := NewWatcher(abs, d.cfg.Watch.Debounce, rerun, d.stdout, d.stderr)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()
	w.quiet = d.cfg.Logging.Quiet

	rerun()
	return w.Run(ctx)
}

// isTerminal reports whether w is a terminal, for coloured diagnostics.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
