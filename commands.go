package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/sambeau/roj/config"
	"github.com/sambeau/roj/pkg/roj/help"
	"github.com/sambeau/roj/pkg/roj/journal"
)

// journalCommand lists or clears the run journal named by the config.
func journalCommand(args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	flags := flag.NewFlagSet("roj journal", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		configPath = flags.String("config", "", "Path to config file")
		limit      = flags.Int("limit", 20, "Number of runs to show")
		clearAll   = flags.Bool("clear", false, "Delete every recorded run")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath, getenv)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if _, err := os.Stat(cfg.Journal.Path); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stdout, "no journal at %s\n", cfg.Journal.Path)
		return nil
	}

	j, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer j.Close()

	if *clearAll {
		if err := j.Clear(); err != nil {
			return fmt.Errorf("clearing journal: %w", err)
		}
		fmt.Fprintln(stdout, "journal cleared")
		return nil
	}

	if err := journal.WriteSummary(stdout, j); err != nil {
		return fmt.Errorf("reading journal: %w", err)
	}
	entries, err := j.Entries(*limit)
	if err != nil {
		return fmt.Errorf("reading journal: %w", err)
	}
	journal.WriteList(stdout, entries, time.Now())
	return nil
}

// describeCommand prints help for a language topic.
func describeCommand(args []string, stdout, stderr io.Writer) error {
	jsonOutput := false
	var topic string

	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		} else if !strings.HasPrefix(arg, "-") {
			topic = arg
		}
	}

	if topic == "" {
		fmt.Fprintln(stderr, `Usage: roj describe [--json] <topic>

Topics:
  keywords           List all keywords
  operators          List operators by precedence
  types              List the value types
  statements         List the statement forms
  errors             List the error codes
  <keyword>          Help for a keyword (while, out, readint, ...)
  <operator>         Help for an operator (^, ==, ...)
  <type>             Help for a type (integer, string, ...)
  <code>             Help for an error code (TYPE-0001, ...)

Examples:
  roj describe while
  roj describe ^
  roj describe ARITH-0001
  roj describe --json operators`)
		return exitCode(1)
	}

	result, err := help.DescribeTopic(topic)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(1)
	}

	if jsonOutput {
		data, err := help.FormatJSON(result)
		if err != nil {
			return fmt.Errorf("formatting JSON: %w", err)
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	}
	fmt.Fprint(stdout, help.FormatText(result))
	return nil
}
