package driver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the configuration file looked up from the working directory upwards.
const ConfigFileName = "minilisp.yml"

const (
	DefaultMaxCallDepth = 256
	DefaultStdlibPath   = "stdlib/basic.lisp"
	DefaultPrompt       = ">> "
	DefaultLogLevel     = "warn"
)

// ErrConfigNotFound is returned by FindConfig when no configuration file exists.
var ErrConfigNotFound = errors.New("minilisp.yml not found")

// Config is the interpreter configuration. Path is empty for the built-in defaults.
type Config struct {
	Path         string
	MaxCallDepth int
	Stdlib       string
	LoadStdlib   bool
	SearchPaths  []string
	Prompt       string
	HistoryFile  string
	LogLevel     string
}

// ValidationError aggregates configuration validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

type configFile struct {
	MaxCallDepth *int     `yaml:"max_call_depth"`
	Stdlib       *string  `yaml:"stdlib"`
	LoadStdlib   *bool    `yaml:"load_stdlib"`
	SearchPaths  []string `yaml:"search_paths"`
	Prompt       *string  `yaml:"prompt"`
	HistoryFile  string   `yaml:"history_file"`
	LogLevel     string   `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		MaxCallDepth: DefaultMaxCallDepth,
		Stdlib:       DefaultStdlibPath,
		LoadStdlib:   true,
		Prompt:       DefaultPrompt,
		LogLevel:     DefaultLogLevel,
	}
}

// LoadConfig parses a configuration file from disk, returning a validated config.
// Relative paths inside the file are resolved against the file's directory.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}

	cfg := raw.toConfig(absPath)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (raw configFile) toConfig(path string) *Config {
	cfg := DefaultConfig()
	cfg.Path = path
	base := filepath.Dir(path)
	if raw.MaxCallDepth != nil {
		cfg.MaxCallDepth = *raw.MaxCallDepth
	}
	if raw.Stdlib != nil {
		cfg.Stdlib = resolveAgainst(base, strings.TrimSpace(*raw.Stdlib))
	}
	if raw.LoadStdlib != nil {
		cfg.LoadStdlib = *raw.LoadStdlib
	}
	for _, sp := range raw.SearchPaths {
		cfg.SearchPaths = append(cfg.SearchPaths, resolveAgainst(base, strings.TrimSpace(sp)))
	}
	if raw.Prompt != nil {
		cfg.Prompt = *raw.Prompt
	}
	if raw.HistoryFile != "" {
		cfg.HistoryFile = resolveAgainst(base, strings.TrimSpace(raw.HistoryFile))
	}
	if raw.LogLevel != "" {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(raw.LogLevel))
	}
	return cfg
}

func resolveAgainst(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, filepath.FromSlash(p))
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs ValidationError
	if c.MaxCallDepth <= 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("max_call_depth must be positive (got %d)", c.MaxCallDepth))
	}
	if c.LoadStdlib && c.Stdlib == "" {
		errs.Issues = append(errs.Issues, "stdlib must name a file when load_stdlib is enabled")
	}
	for i, sp := range c.SearchPaths {
		if sp == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("search_paths[%d] must be a non-empty string", i))
		}
	}
	if _, ok := parseLogLevel(c.LogLevel); !ok {
		errs.Issues = append(errs.Issues, fmt.Sprintf("log_level %q is not one of debug, info, warn, error", c.LogLevel))
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// ApplyEnv overlays MINILISP_STDLIB and MINILISP_PATH.
func (c *Config) ApplyEnv() {
	if stdlib := strings.TrimSpace(os.Getenv("MINILISP_STDLIB")); stdlib != "" {
		c.Stdlib = stdlib
	}
	for _, part := range strings.Split(os.Getenv("MINILISP_PATH"), string(os.PathListSeparator)) {
		if part = strings.TrimSpace(part); part != "" {
			c.SearchPaths = append(c.SearchPaths, part)
		}
	}
}

// SlogLevel maps LogLevel onto a slog level, defaulting to warn.
func (c *Config) SlogLevel() slog.Level {
	level, ok := parseLogLevel(c.LogLevel)
	if !ok {
		return slog.LevelWarn
	}
	return level
}

func parseLogLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "", "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}

// FindConfig walks from start up to the filesystem root looking for ConfigFileName.
func FindConfig(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", ConfigFileName, origin, ErrConfigNotFound)
		}
		dir = parent
	}
}
