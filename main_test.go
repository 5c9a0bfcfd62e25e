package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI runs the command line with a private HOME so no user config is read.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := run(context.Background(), args, strings.NewReader(stdin), stdout, stderr, func(s string) string { return "" })
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func expectExit(t *testing.T, err error, want int) {
	t.Helper()
	var code exitCode
	if !errors.As(err, &code) {
		t.Fatalf("expected exit status %d, got %v", want, err)
	}
	if int(code) != want {
		t.Errorf("expected exit status %d, got %d", want, int(code))
	}
}

func TestRunVersion(t *testing.T) {
	stdout, _, err := runCLI(t, "", "--version")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if stdout != "roj version "+Version+"\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

func TestRunHelp(t *testing.T) {
	stdout, _, err := runCLI(t, "", "--help")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, want := range []string{"roj - Roj language interpreter", "--config", "--watch", "roj describe"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in help, got %q", want, stdout)
		}
	}
}

func TestRunInvalidFlag(t *testing.T) {
	_, _, err := runCLI(t, "", "--invalid-flag")
	if err == nil {
		t.Error("expected error for invalid flag")
	}
}

func TestRunMissingConfig(t *testing.T) {
	_, _, err := runCLI(t, "", "--config", "/nonexistent/roj.yaml", "-e", "1")
	if err == nil {
		t.Fatal("expected error for missing config")
	}
	if !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("expected 'config file not found' error, got %q", err.Error())
	}
}

func TestRunInline(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"2 ^ 3 ^ 2", "64\n"},
		{"4 / 2", "2.0\n"},
		{"a = 3; a * 2", "6\n"},
		{"out 1 + 2; 7", "[out]: 3\n7\n"},
		{"x = 1; while x < 100 do x = x * 2 end; x", "128\n"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			stdout, stderr, err := runCLI(t, "", "-e", tt.code)
			if err != nil {
				t.Fatalf("unexpected error: %v (stderr %q)", err, stderr)
			}
			if stdout != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, stdout)
			}
		})
	}
}

func TestRunInlineHalt(t *testing.T) {
	stdout, stderr, err := runCLI(t, "", "-e", "out 1; halt 99; out 2")
	if err != nil {
		t.Fatalf("halt should exit cleanly, got %v", err)
	}
	if stdout != "[out]: 1\nprogram halted: 99\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if stderr != "" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRunInlineError(t *testing.T) {
	stdout, stderr, err := runCLI(t, "", "-e", "x = 1 / 0")
	expectExit(t, err, 1)
	if stdout != "" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if !strings.Contains(stderr, "division by zero") {
		t.Errorf("expected division error, got %q", stderr)
	}
	if !strings.Contains(stderr, "    x = 1 / 0\n") {
		t.Errorf("expected source line in report, got %q", stderr)
	}
	if strings.Contains(stderr, "\x1b[") {
		t.Errorf("expected no colour when stderr is not a terminal, got %q", stderr)
	}
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "count.roj", "i = 0;\nwhile i < 3 do\n  i = i + 1;\n  out i\nend\n")

	stdout, stderr, err := runCLI(t, "", path)
	if err != nil {
		t.Fatalf("unexpected error: %v (stderr %q)", err, stderr)
	}
	if stdout != "[out]: 1\n[out]: 2\n[out]: 3\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestRunFileReadsStdin(t *testing.T) {
	path := writeFile(t, t.TempDir(), "double.roj", "readint n; out n * 2")

	stdout, _, err := runCLI(t, "21\n", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "[in]: [out]: 42\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestRunFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, stderr, err := runCLI(t, "", filepath.Join(t.TempDir(), "missing.roj"))
		expectExit(t, err, 1)
		if !strings.HasPrefix(stderr, "Error: ") {
			t.Errorf("expected read error, got %q", stderr)
		}
	})

	t.Run("runtime error names the file", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "bad.roj", "out 1;\nout missing")
		stdout, stderr, err := runCLI(t, "", path)
		expectExit(t, err, 1)
		if stdout != "[out]: 1\n" {
			t.Errorf("expected output before the error, got %q", stdout)
		}
		if !strings.Contains(stderr, "in: "+path) {
			t.Errorf("expected file name in report, got %q", stderr)
		}
		if !strings.Contains(stderr, "line 2") {
			t.Errorf("expected line number in report, got %q", stderr)
		}
	})
}

func TestRunCheck(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.roj", "out 1 + 2")
	other := writeFile(t, dir, "other.roj", "while False do stop end")
	bad := writeFile(t, dir, "bad.roj", "x = (1 + 2")
	missing := filepath.Join(dir, "missing.roj")

	t.Run("all valid", func(t *testing.T) {
		stdout, _, err := runCLI(t, "", "--check", good, other)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != good+": ok\n"+other+": ok\n" {
			t.Errorf("unexpected output %q", stdout)
		}
	})

	t.Run("does not run the program", func(t *testing.T) {
		stdout, _, err := runCLI(t, "", "--check", "--quiet", good)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "" {
			t.Errorf("expected no output, got %q", stdout)
		}
	})

	t.Run("syntax error", func(t *testing.T) {
		_, stderr, err := runCLI(t, "", "--check", good, bad)
		expectExit(t, err, 1)
		if !strings.Contains(stderr, bad) {
			t.Errorf("expected report for %s, got %q", bad, stderr)
		}
	})

	t.Run("unreadable file", func(t *testing.T) {
		_, _, err := runCLI(t, "", "--check", missing)
		expectExit(t, err, 2)
	})

	t.Run("no files", func(t *testing.T) {
		_, _, err := runCLI(t, "", "--check")
		expectExit(t, err, 2)
	})
}

func TestRunWatchRequiresOneFile(t *testing.T) {
	_, stderr, err := runCLI(t, "", "--watch")
	expectExit(t, err, 2)
	if !strings.Contains(stderr, "--watch requires exactly one file") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRunREPL(t *testing.T) {
	stdout, _, err := runCLI(t, "1 + 2\nquit\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "Roj Interpreter [v"+Version+"]") {
		t.Errorf("expected banner, got %q", stdout)
	}
	if !strings.HasSuffix(stdout, "3\nGoodbye!\n") {
		t.Errorf("expected result and goodbye, got %q", stdout)
	}
}

func TestRunConfigPrefixes(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "roj.yaml", "repl:\n  out_prefix: \"=> \"\n  input_prompt: \"? \"\n")
	path := writeFile(t, dir, "echo.roj", "read s; out s")

	stdout, _, err := runCLI(t, "hello\n", "--config", cfg, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "? => hello\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestRunOutputToFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "roj.yaml", "logging:\n  output: program.log\n")

	stdout, _, err := runCLI(t, "", "--config", cfg, "-e", "out 5; 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "1\n" {
		t.Errorf("expected only the result on stdout, got %q", stdout)
	}

	data, err := os.ReadFile(filepath.Join(dir, "program.log"))
	if err != nil {
		t.Fatalf("failed to read program output: %v", err)
	}
	if string(data) != "[out]: 5\n" {
		t.Errorf("unexpected program output %q", data)
	}
}

func TestDescribeCommand(t *testing.T) {
	t.Run("keyword", func(t *testing.T) {
		stdout, _, err := runCLI(t, "", "describe", "while")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(stdout, "Keyword: while\n") {
			t.Errorf("unexpected output %q", stdout)
		}
	})

	t.Run("json", func(t *testing.T) {
		stdout, _, err := runCLI(t, "", "describe", "--json", "operators")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var result struct {
			Kind  string `json:"kind"`
			Items []struct {
				Name string `json:"name"`
			} `json:"items"`
		}
		if err := json.Unmarshal([]byte(stdout), &result); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if result.Kind != "operator-list" || len(result.Items) == 0 {
			t.Errorf("unexpected result %+v", result)
		}
	})

	t.Run("no topic", func(t *testing.T) {
		_, stderr, err := runCLI(t, "", "describe")
		expectExit(t, err, 1)
		if !strings.Contains(stderr, "Usage: roj describe") {
			t.Errorf("expected usage, got %q", stderr)
		}
	})

	t.Run("unknown topic", func(t *testing.T) {
		_, stderr, err := runCLI(t, "", "describe", "whle")
		expectExit(t, err, 1)
		if !strings.Contains(stderr, "Did you mean: while?") {
			t.Errorf("expected suggestion, got %q", stderr)
		}
	})
}

func TestJournalCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "roj.yaml", "journal:\n  enabled: true\n  path: runs.db\n")

	if _, _, err := runCLI(t, "", "--config", cfg, "-e", "1 + 1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := runCLI(t, "", "--config", cfg, "-e", "halt 5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, _, err := runCLI(t, "", "--config", cfg, "-e", "1 / 0")
	expectExit(t, err, 1)

	stdout, _, err := runCLI(t, "", "journal", "--config", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"3 runs in " + filepath.Join(dir, "runs.db"),
		"<inline>: => 2 ",
		"halted with 5",
		"ARITH-0001 division by zero",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in journal listing, got %q", want, stdout)
		}
	}

	stdout, _, err = runCLI(t, "", "journal", "--config", cfg, "--limit", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(stdout, "halted with 5") || !strings.Contains(stdout, "ARITH-0001") {
		t.Errorf("expected only the newest run, got %q", stdout)
	}

	stdout, _, err = runCLI(t, "", "journal", "--config", cfg, "--clear")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "journal cleared\n" {
		t.Errorf("unexpected output %q", stdout)
	}

	stdout, _, err = runCLI(t, "", "journal", "--config", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "0 runs in") || !strings.Contains(stdout, "(no runs recorded)") {
		t.Errorf("expected empty journal, got %q", stdout)
	}
}

func TestJournalCommandWithoutJournal(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "roj.yaml", "journal:\n  path: never.db\n")

	stdout, _, err := runCLI(t, "", "journal", "--config", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "no journal at "+filepath.Join(dir, "never.db")+"\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}
