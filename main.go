package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sambeau/roj/config"
	"github.com/sambeau/roj/pkg/roj/repl"
)

// Version is set at build time via -ldflags
var Version = "1.0.1"

func main() {
	ctx := context.Background()
	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv); err != nil {
		var code exitCode
		if errors.As(err, &code) {
			os.Exit(int(code))
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// exitCode ends the process with a status after the failure has already
// been reported.
type exitCode int

func (c exitCode) Error() string {
	return fmt.Sprintf("exit status %d", int(c))
}

// run is the main entry point, designed for testability (Mat Ryer pattern)
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) error {
	if len(args) > 0 {
		switch args[0] {
		case "journal":
			return journalCommand(args[1:], stdout, stderr, getenv)
		case "describe":
			return describeCommand(args[1:], stdout, stderr)
		}
	}

	flags := flag.NewFlagSet("roj", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		configPath  = flags.String("config", "", "Path to config file")
		evalCode    = flags.String("e", "", "Evaluate code and print the result")
		checkOnly   = flags.Bool("check", false, "Check syntax without running")
		watchMode   = flags.Bool("watch", false, "Run the file again whenever it changes")
		quiet       = flags.Bool("quiet", false, "Suppress informational messages")
		showVersion = flags.Bool("version", false, "Show version")
		showHelp    = flags.Bool("help", false, "Show help")
	)

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if *showHelp {
		printUsage(stdout)
		return nil
	}

	if *showVersion {
		fmt.Fprintf(stdout, "roj version %s\n", Version)
		return nil
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*configPath, getenv)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *quiet {
		cfg.Logging.Quiet = true
	}
	if !cfg.Logging.Quiet {
		for _, w := range config.Warnings(cfg) {
			fmt.Fprintf(stderr, "warning: %s\n", w)
		}
	}

	d, err := newDriver(cfg, stdin, stdout, stderr)
	if err != nil {
		return err
	}
	defer d.Close()

	files := flags.Args()
	switch {
	case *evalCode != "":
		return d.runInline(*evalCode)

	case *checkOnly:
		if len(files) == 0 {
			fmt.Fprintln(stderr, "Error: --check requires at least one file")
			return exitCode(2)
		}
		if code := d.checkFiles(files); code != 0 {
			return exitCode(code)
		}
		return nil

	case *watchMode:
		if len(files) != 1 {
			fmt.Fprintln(stderr, "Error: --watch requires exactly one file")
			return exitCode(2)
		}
		return d.watch(ctx, files[0])

	case len(files) > 0:
		return d.runFile(files[0])
	}

	repl.Start(repl.Options{
		In:                 stdin,
		Out:                stdout,
		Version:            Version,
		Prompt:             cfg.REPL.Prompt,
		ContinuationPrompt: cfg.REPL.ContinuationPrompt,
		InputPrompt:        cfg.REPL.InputPrompt,
		OutPrefix:          cfg.REPL.OutPrefix,
		HistoryFile:        cfg.REPL.HistoryFile,
		Banner:             cfg.REPL.Banner,
		Journal:            d.journal,
	})
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `roj - Roj language interpreter version %s

Usage:
  roj [options]                 Start the interactive REPL
  roj [options] <file>          Run a program
  roj -e "code"                 Evaluate code and print the result
  roj --check <file>...         Check syntax without running
  roj --watch <file>            Run a program again whenever it changes
  roj journal [--limit N] [--clear]
  roj describe [--json] <topic>

Options:
  --config PATH    Path to config file (default: auto-detect)
  --quiet          Suppress informational messages
  --version        Show version
  --help           Show this help

Config Resolution:
  1. --config flag
  2. ROJ_CONFIG environment variable
  3. ./roj.yaml
  4. ~/.config/roj/roj.yaml
  5. built-in defaults

Examples:
  roj -e "2 ^ 3 ^ 2"           Prints 64
  roj count.roj                Run a program
  roj --check *.roj            Check several files
  roj describe operators       List operators by precedence
  roj journal --limit 5        Show the five most recent runs

`, Version)
}
