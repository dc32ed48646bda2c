package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	// EnvLogLevel selects the log level when no --log-level flag is given
	EnvLogLevel = "GBADOOM_LOG_LEVEL"
	// EnvJSONLog switches output to JSON when set to "1"
	EnvJSONLog = "GBADOOM_JSON_LOG"
	// EnvLogPath appends log output to the named file instead of stderr
	EnvLogPath = "GBADOOM_LOG_PATH"

	// DefaultLevel keeps the tools quiet unless something is wrong
	DefaultLevel = "warn"
)

// Prefix marks every text log line emitted by the tools.
const Prefix = "👾 "

// NewLogger creates a new hclog logger with standard settings
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	jsonFormat, actualLevel := ParseLevel(level)
	if os.Getenv(EnvJSONLog) == "1" {
		jsonFormat = true
	}

	// Add prefix for non-JSON output
	if !jsonFormat {
		output = NewPrefixWriter(Prefix, output)
	}

	opts := &hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(actualLevel),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z", // UTC ISO format
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	}

	return hclog.New(opts)
}

// ParseLevel splits a "json:<level>" value into its JSON flag and
// the level name. A bare "json" means JSON at info level.
func ParseLevel(level string) (bool, string) {
	if !strings.HasPrefix(level, "json") {
		return false, level
	}
	parts := strings.SplitN(level, ":", 2)
	if len(parts) > 1 && parts[1] != "" {
		return true, parts[1]
	}
	return true, "info"
}

// ResolveLevel picks the effective level and reports where it came from.
// Priority: 1. CLI flag, 2. GBADOOM_LOG_LEVEL, 3. default.
func ResolveLevel(cliLevel string) (level string, source string) {
	if cliLevel != "" {
		return cliLevel, "CLI --log-level"
	}
	if envLevel := os.Getenv(EnvLogLevel); envLevel != "" {
		return envLevel, EnvLogLevel
	}
	return DefaultLevel, "default"
}

// ForCommand builds the logger used by a command-line tool. Output goes to
// stderr unless GBADOOM_LOG_PATH names a file to append to. The returned
// function closes that file and must run before the process exits.
func ForCommand(name string, cliLevel string) (hclog.Logger, func() error) {
	return forCommand(name, cliLevel, os.Stderr)
}

func forCommand(name string, cliLevel string, stderr io.Writer) (hclog.Logger, func() error) {
	level, source := ResolveLevel(cliLevel)

	logPath := os.Getenv(EnvLogPath)
	if logPath == "" {
		logger := NewLogger(name, level, stderr)
		logger.Debug("Log level", "level", level, "source", source)
		return logger, func() error { return nil }
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		// Reported whatever the configured level is
		warnLevel := "warn"
		if jsonFormat, _ := ParseLevel(level); jsonFormat {
			warnLevel = "json:warn"
		}
		NewLogger(name, warnLevel, stderr).Warn("Cannot open log file, logging to stderr", "path", logPath, "error", err)
		return NewLogger(name, level, stderr), func() error { return nil }
	}

	logger := NewLogger(name, level, file)
	logger.Debug("Log level", "level", level, "source", source, "path", logPath)
	return logger, file.Close
}
