// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Rotation settings for the optional log file.
const (
	fileMaxSizeMB  = 10
	fileMaxBackups = 3
	fileMaxAgeDays = 28
)

var (
	defaultMu     sync.RWMutex
	defaultLogger *log.Logger
)

// New creates a new logger with the specified level.
// Valid levels: "debug", "info", "warn", "error".
func New(level string) *log.Logger {
	return newLogger(os.Stderr, level, false)
}

// NewInteractive creates a logger for direct user-facing messages, such as
// the init prompts. It writes to stdout at info level.
func NewInteractive() *log.Logger {
	return newLogger(os.Stdout, "info", false)
}

// Setup creates a logger at level. When file is non-empty, records are also
// appended to a size-rotated log file and timestamps are enabled. The
// returned closer releases the file and is never nil.
func Setup(level, file string) (*log.Logger, io.Closer) {
	if strings.TrimSpace(file) == "" {
		return New(level), nopCloser{}
	}

	rotator := &lj.Logger{
		Filename:   file,
		MaxSize:    fileMaxSizeMB,
		MaxBackups: fileMaxBackups,
		MaxAge:     fileMaxAgeDays,
		Compress:   true,
	}
	return newLogger(io.MultiWriter(os.Stderr, rotator), level, true), rotator
}

func newLogger(w io.Writer, level string, timestamps bool) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           parseLevel(level),
		ReportTimestamp: timestamps,
	})
}

// ValidLevel reports whether level names a known log level.
func ValidLevel(level string) bool {
	_, err := log.ParseLevel(canonicalLevel(level))
	return err == nil && !strings.EqualFold(level, "fatal")
}

// parseLevel maps a level name to a log.Level. Unknown names mean info.
func parseLevel(level string) log.Level {
	if !ValidLevel(level) {
		return log.InfoLevel
	}
	parsed, _ := log.ParseLevel(canonicalLevel(level))
	return parsed
}

func canonicalLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		return "warn"
	}
	return level
}

// Default returns the package-level logger, creating an info-level one on
// first use.
func Default() *log.Logger {
	defaultMu.RLock()
	logger := defaultLogger
	defaultMu.RUnlock()
	if logger != nil {
		return logger
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New("info")
	}
	return defaultLogger
}

// SetDefault replaces the package-level logger.
func SetDefault(logger *log.Logger) {
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}

// SetLevel updates the level of the default logger.
func SetLevel(level string) {
	Default().SetLevel(parseLevel(level))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
