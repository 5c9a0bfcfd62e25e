package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func noEnv(string) string { return "" }

func TestInterpolateEnv(t *testing.T) {
	getenv := func(key string) string {
		switch key {
		case "ROJ_PROMPT":
			return "roj> "
		case "ROJ_DIR":
			return "/var/roj"
		default:
			return ""
		}
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple substitution", "prompt: ${ROJ_PROMPT}", "prompt: roj> "},
		{"with default (env set)", "prompt: ${ROJ_PROMPT:-> }", "prompt: roj> "},
		{"with default (env not set)", "path: ${UNSET_VAR:-journal.db}", "path: journal.db"},
		{"unset without default", "path: ${UNSET_VAR}", "path: "},
		{"multiple substitutions", "path: ${ROJ_DIR}/${UNSET:-j.db}", "path: /var/roj/j.db"},
		{"no substitution needed", "banner: true", "banner: true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := string(interpolateEnv([]byte(tt.input), getenv))
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "roj.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
repl:
  prompt: "roj> "
  banner: false
  history_file: .history
journal:
  enabled: true
  path: data/journal.db
  max_size: 2MB
  truncate_pct: 50
watch:
  debounce: 250ms
logging:
  quiet: true
  output: out.log
`)

	cfg, resolved, err := LoadWithPath(path, noEnv)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if resolved != path {
		t.Errorf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.BaseDir != dir {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, dir)
	}

	if cfg.REPL.Prompt != "roj> " || cfg.REPL.Banner {
		t.Errorf("unexpected repl config %+v", cfg.REPL)
	}
	if cfg.REPL.ContinuationPrompt != ".. " {
		t.Errorf("unset keys keep their defaults, got %q", cfg.REPL.ContinuationPrompt)
	}
	if cfg.REPL.HistoryFile != filepath.Join(dir, ".history") {
		t.Errorf("history file not resolved: %q", cfg.REPL.HistoryFile)
	}

	if !cfg.Journal.Enabled || cfg.Journal.TruncatePct != 50 || cfg.Journal.MaxSize != "2MB" {
		t.Errorf("unexpected journal config %+v", cfg.Journal)
	}
	if cfg.Journal.Path != filepath.Join(dir, "data", "journal.db") {
		t.Errorf("journal path not resolved: %q", cfg.Journal.Path)
	}

	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("debounce = %s", cfg.Watch.Debounce)
	}
	if !cfg.Logging.Quiet || cfg.Logging.Output != filepath.Join(dir, "out.log") {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestLoadKeepsStandardStreams(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "logging:\n  output: stderr\n")

	cfg, err := Load(path, noEnv)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("output = %q, want stderr", cfg.Logging.Output)
	}
}

func TestLoadWithEnvInterpolation(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
repl:
  prompt: "${ROJ_TEST_PROMPT:-default> }"
journal:
  path: ${ROJ_TEST_JOURNAL}
`)

	getenv := func(key string) string {
		if key == "ROJ_TEST_JOURNAL" {
			return "/tmp/roj-test.db"
		}
		return ""
	}

	cfg, err := Load(path, getenv)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.REPL.Prompt != "default> " {
		t.Errorf("prompt = %q", cfg.REPL.Prompt)
	}
	if cfg.Journal.Path != "/tmp/roj-test.db" {
		t.Errorf("journal path = %q", cfg.Journal.Path)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{"bad yaml", "repl: [", "failed to parse config"},
		{"bad duration", "watch:\n  debounce: soon\n", "failed to parse config"},
		{"invalid values", "journal:\n  truncate_pct: 0\n", "truncate_pct"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := Load(path, noEnv)
			if err == nil || !strings.Contains(err.Error(), tt.errSubstr) {
				t.Errorf("expected error containing %q, got %v", tt.errSubstr, err)
			}
		})
	}
}

func TestResolveConfigPath(t *testing.T) {
	if _, err := resolveConfigPath("/nonexistent/path/roj.yaml", noEnv); err == nil {
		t.Error("expected error for nonexistent path")
	}

	dir := t.TempDir()
	path := writeConfig(t, dir, "")

	resolved, err := resolveConfigPath(path, noEnv)
	if err != nil || resolved != path {
		t.Errorf("explicit path: got %q, %v", resolved, err)
	}

	fromEnv := func(key string) string {
		if key == EnvVar {
			return path
		}
		return ""
	}
	resolved, err = resolveConfigPath("", fromEnv)
	if err != nil || resolved != path {
		t.Errorf("%s: got %q, %v", EnvVar, resolved, err)
	}

	missingEnv := func(key string) string {
		if key == EnvVar {
			return filepath.Join(dir, "missing.yaml")
		}
		return ""
	}
	if _, err := resolveConfigPath("", missingEnv); err == nil {
		t.Errorf("expected error for missing %s file", EnvVar)
	}
}

func TestLoadWithoutConfigFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)

	cfg, path, err := LoadWithPath("", noEnv)
	if err != nil {
		t.Fatalf("LoadWithPath failed: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want none", path)
	}
	if cfg.REPL.Prompt != ">> " {
		t.Errorf("expected defaults, got prompt %q", cfg.REPL.Prompt)
	}

	// ./roj.yaml is picked up once it exists.
	writeConfig(t, dir, "repl:\n  prompt: \"here> \"\n")
	cfg, path, err = LoadWithPath("", noEnv)
	if err != nil {
		t.Fatalf("LoadWithPath failed: %v", err)
	}
	if filepath.Base(path) != "roj.yaml" || cfg.REPL.Prompt != "here> " {
		t.Errorf("got %q from %q", cfg.REPL.Prompt, path)
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{"", 0, false},
		{"1024", 1024, false},
		{"1B", 1, false},
		{"1KB", 1024, false},
		{"1kb", 1024, false},
		{"10MB", 10 * 1024 * 1024, false},
		{"1GB", 1024 * 1024 * 1024, false},
		{"  5 MB  ", 5 * 1024 * 1024, false},
		{"1.5MB", 0, true},
		{"-1KB", 0, true},
		{"MB", 0, true},
		{"invalid", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseSize(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tt.input, err)
			}
			if result != tt.expected {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.input, result, tt.expected)
			}
		})
	}
}
