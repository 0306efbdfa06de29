// Package logger provides leveled loggers for assessment sessions.
//
// ConsoleLogger writes timestamped lines to any io.Writer and colors the level
// tag when the writer is a terminal. FileLogger keeps a per-run log under
// .adhdscreen/logs for modes where stdout is reserved. Both are safe for
// concurrent use, since summary requests complete on their own goroutine.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger logs session events to a writer with [HH:MM:SS] timestamps.
// Color output is enabled automatically for os.Stdout/os.Stderr terminals.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// A nil writer discards messages. Valid levels are trace, debug, info, warn
// and error (case-insensitive); anything else falls back to info.
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal reports whether w is a standard stream that accepts color.
// color.NoColor already accounts for NO_COLOR and non-TTY output.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w == os.Stdout || w == os.Stderr {
		return !color.NoColor
	}
	return false
}

// ValidLevels lists accepted level names from most to least verbose.
func ValidLevels() []string {
	return []string{"trace", "debug", "info", "warn", "error"}
}

// normalizeLogLevel lowercases and validates a level, defaulting to info.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	for _, l := range ValidLevels() {
		if l == normalized {
			return normalized
		}
	}
	return "info"
}

func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func allows(configured, message string) bool {
	return logLevelToInt(message) >= logLevelToInt(configured)
}

// Level returns the effective log level.
func (cl *ConsoleLogger) Level() string {
	return cl.logLevel
}

// LogTrace logs a trace-level message.
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

// LogTransition records a flow state change at debug level.
func (cl *ConsoleLogger) LogTransition(from, to string) {
	cl.logWithLevel("DEBUG", formatTransition(from, to))
}

// LogSummaryOutcome records how an interpretation request settled.
// Failures are logged at warn level so they show by default.
func (cl *ConsoleLogger) LogSummaryOutcome(provider string, ok bool, elapsed time.Duration, detail string) {
	level, msg := formatSummaryOutcome(provider, ok, elapsed, detail)
	cl.logWithLevel(level, msg)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}
	if !allows(cl.logLevel, strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string
	if cl.colorOutput {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, colorLevel(level), message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}
	cl.writer.Write([]byte(formatted))
}

func colorLevel(level string) string {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

func formatTransition(from, to string) string {
	return fmt.Sprintf("state %s -> %s", from, to)
}

func formatSummaryOutcome(provider string, ok bool, elapsed time.Duration, detail string) (string, string) {
	if ok {
		return "INFO", fmt.Sprintf("interpretation from %s received in %s", provider, formatDuration(elapsed))
	}
	msg := fmt.Sprintf("interpretation from %s failed after %s", provider, formatDuration(elapsed))
	if detail != "" {
		msg += ": " + detail
	}
	return "WARN", msg
}

func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration renders d as "1.2s", "3m4s" or "850ms".
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		minutes := d / time.Minute
		seconds := (d % time.Minute) / time.Second
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
}

// NoOpLogger discards all log messages.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(string)                                       {}
func (n *NoOpLogger) LogDebug(string)                                       {}
func (n *NoOpLogger) LogInfo(string)                                        {}
func (n *NoOpLogger) LogWarn(string)                                        {}
func (n *NoOpLogger) LogError(string)                                       {}
func (n *NoOpLogger) LogTransition(string, string)                          {}
func (n *NoOpLogger) LogSummaryOutcome(string, bool, time.Duration, string) {}
