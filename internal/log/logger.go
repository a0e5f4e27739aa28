// SPDX-License-Identifier: MIT
//
// Package log is a small leveled logger over the standard library logger.
// Core packages only emit Debugf diagnostics; user facing progress is the
// reporter's job.
package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync/atomic"
)

// Level defines the severity of a log message.
type Level uint32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// String returns the upper case name of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string (case-insensitive) to a Level.
// Returns LevelInfo and false if the string is not recognized.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, true
	case "INFO":
		return LevelInfo, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	case "FATAL":
		return LevelFatal, true
	default:
		return LevelInfo, false
	}
}

var (
	currentLevel atomic.Uint32
	logger       = stdlog.New(os.Stderr, "", stdlog.Ldate|stdlog.Ltime|stdlog.Lmicroseconds)
)

func init() {
	SetLevel(LevelWarn)
}

// SetLevel sets the global logging level.
func SetLevel(level Level) {
	currentLevel.Store(uint32(level))
}

// GetLevel returns the global logging level.
func GetLevel() Level {
	return Level(currentLevel.Load())
}

// Configure sets the level from a config string. Verbose forces debug.
// An unknown name leaves the level untouched and is reported as an error.
func Configure(level string, verbose bool) error {
	if verbose {
		SetLevel(LevelDebug)
		return nil
	}
	if level == "" {
		return nil
	}
	l, ok := ParseLevel(level)
	if !ok {
		return fmt.Errorf("unknown log level %q", level)
	}
	SetLevel(l)
	return nil
}

// SetOutput redirects log output, mostly for tests.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func logf(level Level, format string, v ...any) {
	if level < GetLevel() {
		return
	}
	logger.Printf("[%-5s] %s", level, fmt.Sprintf(format, v...))
}

// Debugf logs a formatted debug message.
func Debugf(format string, v ...any) { logf(LevelDebug, format, v...) }

// Infof logs a formatted info message.
func Infof(format string, v ...any) { logf(LevelInfo, format, v...) }

// Warnf logs a formatted warning message.
func Warnf(format string, v ...any) { logf(LevelWarn, format, v...) }

// Errorf logs a formatted error message.
func Errorf(format string, v ...any) { logf(LevelError, format, v...) }

// Fatalf logs a formatted fatal message and exits the application.
// Fatal messages are always logged regardless of the current level.
func Fatalf(format string, v ...any) {
	logger.Fatalf("[%-5s] %s", LevelFatal, fmt.Sprintf(format, v...))
}
