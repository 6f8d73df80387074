// Package config loads the server's YAML configuration file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// FileConfig is the YAML structure of the server config file. Every field is
// optional; zero values fall back to the defaults below.
type FileConfig struct {
	// Interpreter is the PowerShell binary to invoke. Empty means resolve
	// from PATH (pwsh, then powershell.exe, then powershell).
	Interpreter string `yaml:"interpreter"`

	// TimeoutSeconds is the per-call subprocess timeout. Diagnostic scripts
	// can hang on environment calls, so a timeout is always enforced.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// MaxStdoutBytes / MaxStderrBytes cap how much of each stream is kept.
	MaxStdoutBytes int `yaml:"max_stdout_bytes"`
	MaxStderrBytes int `yaml:"max_stderr_bytes"`

	// HTTP enables the optional localhost HTTP transport when Addr is set
	// (e.g. "127.0.0.1:8731"). Stdio is always served.
	HTTP HTTPConfig `yaml:"http"`

	// Log configures diagnostics written to stderr.
	Log LogConfig `yaml:"log"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	// Level: "debug" | "info" | "warn" | "error". Default: "info".
	Level string `yaml:"level"`
}

const (
	defaultTimeoutSeconds = 60
	defaultMaxStdout      = 4 << 20
	defaultMaxStderr      = 64 << 10
)

// Default returns the configuration used when no file is present.
func Default() *FileConfig {
	return &FileConfig{
		TimeoutSeconds: defaultTimeoutSeconds,
		MaxStdoutBytes: defaultMaxStdout,
		MaxStderrBytes: defaultMaxStderr,
	}
}

// Load reads and parses a YAML config file, expanding ${ENV_VAR} references
// in string values. When mustExist is false a missing file yields the
// defaults, so running without a config file just works.
func Load(path string, mustExist bool) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	// Expand environment variables in the raw YAML before parsing.
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *FileConfig) error {
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = defaultTimeoutSeconds
	}
	if cfg.MaxStdoutBytes <= 0 {
		cfg.MaxStdoutBytes = defaultMaxStdout
	}
	if cfg.MaxStderrBytes <= 0 {
		cfg.MaxStderrBytes = defaultMaxStderr
	}
	if cfg.Log.Level != "" {
		if _, err := parseLevel(cfg.Log.Level); err != nil {
			return err
		}
	}
	return nil
}

// Timeout returns the per-call timeout as a duration.
func (c *FileConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogLevel resolves the configured slog level, defaulting to Info.
func (c *FileConfig) LogLevel() slog.Level {
	lvl, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("config: unknown log level %q", s)
	}
}
