package config

import "time"

// Config represents the complete roj configuration
type Config struct {
	BaseDir string        `yaml:"-"` // Directory containing the config file, for resolving relative paths
	REPL    REPLConfig    `yaml:"repl"`
	Journal JournalConfig `yaml:"journal"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// REPLConfig holds interactive session settings
type REPLConfig struct {
	Prompt             string `yaml:"prompt"`              // Primary prompt (default: ">> ")
	ContinuationPrompt string `yaml:"continuation_prompt"` // Shown while a block or paren is open
	InputPrompt        string `yaml:"input_prompt"`        // Shown by read statements
	OutPrefix          string `yaml:"out_prefix"`          // Prepended to out lines
	HistoryFile        string `yaml:"history_file"`        // Empty means $TMPDIR/.roj_history
	Banner             bool   `yaml:"banner"`              // Print the version banner on start
}

// JournalConfig holds run journal settings
type JournalConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`         // SQLite database file
	MaxSize     string `yaml:"max_size"`     // e.g. "10MB", empty for unlimited
	TruncatePct int    `yaml:"truncate_pct"` // Share of oldest entries dropped when full
}

// WatchConfig holds file watcher settings
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig holds output settings
type LoggingConfig struct {
	Quiet  bool   `yaml:"quiet"`  // suppress informational driver lines
	Output string `yaml:"output"` // stdout, stderr, or file path for program output
}

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	return &Config{
		REPL: REPLConfig{
			Prompt:             ">> ",
			ContinuationPrompt: ".. ",
			InputPrompt:        "[in]: ",
			OutPrefix:          "[out]: ",
			Banner:             true,
		},
		Journal: JournalConfig{
			Enabled:     false,
			Path:        "roj-journal.db",
			MaxSize:     "10MB",
			TruncatePct: 25,
		},
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Output: "stdout",
		},
	}
}
