package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable that points at a config file.
const EnvVar = "ROJ_CONFIG"

// Load reads configuration with ENV interpolation. If configPath is empty the
// default locations are searched, and when none exists the defaults are used.
func Load(configPath string, getenv func(string) string) (*Config, error) {
	cfg, _, err := LoadWithPath(configPath, getenv)
	return cfg, err
}

// LoadWithPath is Load that also returns the file actually read, or "" when
// the defaults were used.
func LoadWithPath(configPath string, getenv func(string) string) (*Config, string, error) {
	path, err := resolveConfigPath(configPath, getenv)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		cfg := Defaults()
		if wd, err := os.Getwd(); err == nil {
			cfg.BaseDir = wd
		}
		return cfg, "", nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve config path: %w", err)
	}
	baseDir := filepath.Dir(absPath)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read config: %w", err)
	}

	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.BaseDir = baseDir

	cfg.Journal.Path = resolvePath(baseDir, cfg.Journal.Path)
	cfg.REPL.HistoryFile = resolvePath(baseDir, cfg.REPL.HistoryFile)
	if !isStandardStream(cfg.Logging.Output) {
		cfg.Logging.Output = resolvePath(baseDir, cfg.Logging.Output)
	}

	if err := Validate(cfg); err != nil {
		return nil, "", err
	}

	return cfg, absPath, nil
}

func resolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

func isStandardStream(output string) bool {
	return output == "" || output == "stdout" || output == "stderr"
}

// Validate checks the configuration and reports every problem at once.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.REPL.Prompt == "" {
		errs = append(errs, "repl.prompt must not be empty")
	}

	if _, err := ParseSize(cfg.Journal.MaxSize); err != nil {
		errs = append(errs, fmt.Sprintf("journal.max_size: %v", err))
	}
	if cfg.Journal.TruncatePct < 1 || cfg.Journal.TruncatePct > 100 {
		errs = append(errs, fmt.Sprintf("invalid journal.truncate_pct: %d (must be 1-100)", cfg.Journal.TruncatePct))
	}
	if cfg.Journal.Enabled && cfg.Journal.Path == "" {
		errs = append(errs, "journal.path is required when the journal is enabled")
	}

	if cfg.Watch.Debounce < 0 {
		errs = append(errs, fmt.Sprintf("invalid watch.debounce: %s (must not be negative)", cfg.Watch.Debounce))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Warnings returns non-fatal issues worth telling the user about.
func Warnings(cfg *Config) []string {
	var warnings []string

	if cfg.Journal.Enabled {
		if size, err := ParseSize(cfg.Journal.MaxSize); err == nil && size == 0 {
			warnings = append(warnings, "journal.max_size is empty: the journal will grow without limit")
		}
	}
	if cfg.Watch.Debounce == 0 {
		warnings = append(warnings, "watch.debounce is 0: editors that write in several steps will trigger several runs")
	}

	return warnings
}

// resolveConfigPath finds the config file to use.
// Search order: explicit path > ROJ_CONFIG env > ./roj.yaml > ~/.config/roj/roj.yaml.
// An empty path with no error means no file was found.
func resolveConfigPath(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	if envPath := getenv(EnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%s file not found: %s", EnvVar, envPath)
		}
		return envPath, nil
	}

	if _, err := os.Stat("roj.yaml"); err == nil {
		return "roj.yaml", nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "roj", "roj.yaml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
	}

	return "", nil
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv replaces ${VAR} and ${VAR:-default} with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		value := getenv(string(parts[1]))
		if value == "" && len(parts[2]) > 0 {
			value = string(parts[2])
		}
		return []byte(value)
	})
}

var sizeUnits = []struct {
	suffix string
	mult   int64
}{
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// ParseSize parses "10MB", "1GB", "500KB" or a plain byte count.
// Units are case insensitive. The empty string is 0.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, nil
	}

	mult := int64(1)
	for _, u := range sizeUnits {
		if strings.HasSuffix(s, u.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			mult = u.mult
			break
		}
	}

	num, err := strconv.ParseInt(s, 10, 64)
	if err != nil || num < 0 {
		return 0, fmt.Errorf("invalid size: %q (use B, KB, MB, or GB suffix)", s)
	}
	return num * mult, nil
}
