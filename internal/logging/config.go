package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Config holds the configuration for the logger.
type Config struct {
	// Level is the minimum level: debug, info, warn (or warning), error, fatal
	Level string `yaml:"level"`
	// Format is json or console
	Format string `yaml:"format"`
	// Output is stdout, stderr, discard or a file path
	Output string `yaml:"output"`
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "json",
		Output: "stderr",
	}
}

// NewLogger creates a new logger with the given configuration. Unknown
// levels fall back to info; unknown formats are rejected.
func NewLogger(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	format := strings.ToLower(cfg.Format)
	switch format {
	case "", "json":
		format = "json"
	case "console":
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	output, err := getOutput(cfg.Output)
	if err != nil {
		return nil, err
	}

	return newLogger(parseLevel(cfg.Level), format, output), nil
}

// parseLevel resolves a level name with zap's parser, accepting "warning"
// as an alias.
func parseLevel(level string) LogLevel {
	if strings.EqualFold(level, "warning") {
		return WarnLevel
	}
	zl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return InfoLevel
	}
	switch {
	case zl <= zapcore.DebugLevel:
		return DebugLevel
	case zl == zapcore.InfoLevel:
		return InfoLevel
	case zl == zapcore.WarnLevel:
		return WarnLevel
	case zl == zapcore.ErrorLevel:
		return ErrorLevel
	default:
		return FatalLevel
	}
}

// getOutput returns an io.Writer for the given output destination.
func getOutput(output string) (io.Writer, error) {
	switch output {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	case "discard":
		return io.Discard, nil
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log output: %w", err)
		}
		return f, nil
	}
}
