package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
	"skylight.app/cli/internal/core/ports"
)

// ConsoleLogger writes leveled key=value lines to a single writer. It backs
// the ports.Logger interface for both stderr and rotating-file output.
type ConsoleLogger struct {
	mu    sync.Mutex
	out   io.Writer
	level ports.LogLevel
}

// NewConsoleLogger logs to stderr at the given level.
func NewConsoleLogger(level ports.LogLevel) *ConsoleLogger {
	return &ConsoleLogger{out: os.Stderr, level: level}
}

// NewFileLogger logs to a size-rotated file. Used when the CLI runs with a
// configured log file so long sessions do not grow without bound.
func NewFileLogger(path string, level ports.LogLevel) *ConsoleLogger {
	return &ConsoleLogger{
		out: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		},
		level: level,
	}
}

// SetLevel changes the verbosity threshold.
func (l *ConsoleLogger) SetLevel(level ports.LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Log writes one line if the entry passes the level filter.
func (l *ConsoleLogger) Log(level ports.LogLevel, message string, fields map[string]interface{}) {
	l.mu.Lock()
	threshold := l.level
	l.mu.Unlock()
	if level < threshold {
		return
	}

	var b strings.Builder
	b.WriteString(time.Now().UTC().Format(time.RFC3339))
	b.WriteString(" [")
	b.WriteString(levelName(level))
	b.WriteString("] ")
	b.WriteString(message)

	// Stable field order keeps the output diffable.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.out, b.String())
}

// ParseLevel maps a config string to a log level, defaulting to info.
func ParseLevel(s string) ports.LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return ports.LogLevelDebug
	case "warn", "warning":
		return ports.LogLevelWarn
	case "error":
		return ports.LogLevelError
	default:
		return ports.LogLevelInfo
	}
}

func levelName(level ports.LogLevel) string {
	switch level {
	case ports.LogLevelDebug:
		return "DEBUG"
	case ports.LogLevelWarn:
		return "WARN"
	case ports.LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// NopLogger discards everything; tests that do not assert on logging use it.
type NopLogger struct{}

func (NopLogger) Log(ports.LogLevel, string, map[string]interface{}) {}

var (
	_ ports.Logger = (*ConsoleLogger)(nil)
	_ ports.Logger = NopLogger{}
)
